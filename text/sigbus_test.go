package text

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unsafe"
)

func TestIsInMappedRegionWithoutOriginal(t *testing.T) {
	txt := New()
	if txt.IsInMappedRegion(0) {
		t.Fatal("a buffer with no mapped original should never report an address as mapped")
	}
}

func TestIsInMappedRegionCoversLoadedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapped.txt")
	if err := os.WriteFile(path, []byte("mapped content"), 0o644); err != nil {
		t.Fatal(err)
	}
	txt, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	defer txt.Free()

	data := txt.store.Original.Data()
	base := uintptr(unsafe.Pointer(&data[0]))
	if !txt.IsInMappedRegion(base) {
		t.Fatal("the mapping's own first byte should be reported as mapped")
	}
	if !txt.IsInMappedRegion(base + uintptr(len(data)-1)) {
		t.Fatal("the mapping's own last byte should be reported as mapped")
	}
	if txt.IsInMappedRegion(base + uintptr(len(data))) {
		t.Fatal("one past the end of the mapping should not be reported as mapped")
	}
	if txt.IsInMappedRegion(0) {
		t.Fatal("the null address should never be reported as mapped")
	}
}

func TestGuardedReadPassesThroughOnSuccess(t *testing.T) {
	txt := newLoaded("abc")
	called := false
	err := txt.guardedRead("test", func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("guardedRead returned %v, want nil", err)
	}
	if !called {
		t.Fatal("guardedRead should invoke fn")
	}
}

func TestGuardedReadPropagatesFnError(t *testing.T) {
	txt := newLoaded("abc")
	wantErr := errors.New("boom")
	err := txt.guardedRead("test", func() error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("guardedRead = %v, want it to wrap %v", err, wantErr)
	}
}

func TestGuardedReadConvertsMappedFaultToIOError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapped.txt")
	if err := os.WriteFile(path, []byte("mapped content"), 0o644); err != nil {
		t.Fatal(err)
	}
	txt, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	defer txt.Free()

	err = txt.guardedRead("test", func() error {
		panic("simulated SIGBUS from a truncated mapping")
	})
	var e *Error
	if !errors.As(err, &e) || e.Kind != IOError {
		t.Fatalf("guardedRead after a panic with a live mapping = %v, want an IOError", err)
	}
}

func TestGuardedReadRepropagatesPanicWithoutMapping(t *testing.T) {
	txt := New()
	defer func() {
		if recover() == nil {
			t.Fatal("guardedRead should re-panic when there's no mapped original to blame")
		}
	}()
	txt.guardedRead("test", func() error {
		panic("unrelated panic")
	})
}
