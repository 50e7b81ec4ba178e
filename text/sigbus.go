package text

import (
	"fmt"
	"runtime/debug"
	"unsafe"
)

// IsInMappedRegion reports whether addr falls inside the live
// mmap-backed original block, if any. A process-level SIGBUS handler
// (installed by the host program, not by this package) can consult
// this to decide whether a fault at addr should be treated as a
// recoverable I/O error rather than a crash -- the situation that
// arises when the file backing a loaded text is truncated by another
// process while pieces still reference it.
//
// This package never installs a signal handler itself; it only
// answers the membership query a host's handler needs.
func (t *Text) IsInMappedRegion(addr uintptr) bool {
	orig := t.store.Original
	if orig == nil {
		return false
	}
	data := orig.Data()
	if len(data) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&data[0]))
	return addr >= base && addr < base+uintptr(len(data))
}

// guardedRead runs fn with runtime/debug.SetPanicOnFault enabled, so a
// SIGBUS raised by touching a truncated mmap region becomes a Go panic
// instead of crashing the process. While the text has a mapped
// original block, any panic raised by fn is converted into an IOError;
// the faulting address is not checked against the mapped region. When
// there is no mapped original, the panic propagates unchanged.
func (t *Text) guardedRead(op string, fn func() error) error {
	prev := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(prev)

	var retErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if t.store.Original != nil {
					retErr = newErr(op, IOError, fmt.Errorf("fault reading mapped file: %v", r))
					return
				}
				panic(r)
			}
		}()
		retErr = fn()
	}()
	return retErr
}
