package text

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// SaveMethod selects a save strategy. Generalizes the single
// temp-file-plus-rename strategy this project's ancestor package core
// used unconditionally in Window.saveFile into the three strategies
// below.
type SaveMethod int

const (
	// SaveAuto tries SaveAtomic and falls back to SaveInplace only
	// for the specific conditions atomic save can't handle.
	SaveAuto SaveMethod = iota
	// SaveAtomic writes to a temporary file in the target's directory
	// and renames it over the target on commit.
	SaveAtomic
	// SaveInplace truncates and rewrites the target file directly.
	SaveInplace
)

// errAtomicUnsupported marks a SaveAtomic failure that SaveAuto should
// treat as a cue to retry with SaveInplace, rather than report.
var errAtomicUnsupported = errors.New("atomic save not supported for this target")

// SaveHandle is an open, in-progress save created by Text.SaveBegin.
// Call WriteRange any number of times, then exactly one of Commit or
// Cancel.
type SaveHandle struct {
	t       *Text
	method  SaveMethod
	path    string
	tmpPath string
	f       *os.File
}

// SaveBegin opens the destination for path using method, choosing a
// concrete strategy for SaveAuto, and returns a handle ready for
// WriteRange calls.
func (t *Text) SaveBegin(path string, method SaveMethod) (*SaveHandle, error) {
	switch method {
	case SaveAtomic:
		return t.beginAtomic(path)
	case SaveInplace:
		return t.beginInplace(path)
	default:
		h, err := t.beginAtomic(path)
		if err == nil {
			return h, nil
		}
		if errors.Is(err, errAtomicUnsupported) {
			return t.beginInplace(path)
		}
		return nil, err
	}
}

// targetPerm returns the mode path should be saved with, or false if
// path doesn't exist yet -- in which case the process umask, already
// applied by the OS to the temp file's own creation mode, is the
// correct default and no explicit Chmod is needed.
func targetPerm(path string) (fs.FileMode, bool) {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm(), true
	}
	return 0, false
}

func (t *Text) beginAtomic(path string) (*SaveHandle, error) {
	if info, err := os.Lstat(path); err == nil && !info.Mode().IsRegular() {
		return nil, newErr("save", Unsupported, errAtomicUnsupported)
	}
	dir := filepath.Dir(path)
	perm, hasTarget := targetPerm(path)

	tmp, err := os.CreateTemp(dir, ".textcore-save-*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EXDEV) {
			return nil, newErr("save", Unsupported, errAtomicUnsupported)
		}
		return nil, newErr("save", IOError, err)
	}
	if hasTarget {
		if err := tmp.Chmod(perm); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, newErr("save", IOError, err)
		}
	}
	return &SaveHandle{t: t, method: SaveAtomic, path: path, tmpPath: tmp.Name(), f: tmp}, nil
}

func (t *Text) beginInplace(path string) (*SaveHandle, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, newErr("save", IOError, err)
	}
	return &SaveHandle{t: t, method: SaveInplace, path: path, f: f}, nil
}

// WriteRange writes the bytes of r to the handle's destination at the
// file's current write offset, and returns how many bytes were
// written.
func (h *SaveHandle) WriteRange(r Range) (int, error) {
	n, err := h.t.writeRangeTo(h.f, r)
	if err != nil {
		return n, newErr("save", IOError, err)
	}
	return n, nil
}

// Commit finalizes the save: for SaveAtomic, fsyncs and renames the
// temporary file over the target; for SaveInplace, fsyncs in place.
// On success it takes an implicit snapshot, records the current
// revision as last-saved, and refreshes the text's stat record from
// the saved file.
func (h *SaveHandle) Commit() error {
	if err := h.f.Sync(); err != nil {
		h.f.Close()
		return newErr("save", IOError, err)
	}
	if err := h.f.Close(); err != nil {
		return newErr("save", IOError, err)
	}
	if h.method == SaveAtomic {
		if err := os.Rename(h.tmpPath, h.path); err != nil {
			return newErr("save", IOError, err)
		}
	}

	h.t.Snapshot()
	h.t.lastSaved = h.t.current
	if info, err := os.Stat(h.path); err == nil {
		h.t.stat = info
		h.t.filename = h.path
	}
	return nil
}

// Cancel abandons the save, closing the destination and, for
// SaveAtomic, removing the temporary file.
func (h *SaveHandle) Cancel() error {
	err := h.f.Close()
	if h.method == SaveAtomic {
		os.Remove(h.tmpPath)
	}
	if err != nil {
		return newErr("save", IOError, err)
	}
	return nil
}

// Save writes the entire logical text to path using SaveAuto.
func (t *Text) Save(path string) error {
	return t.SaveRange(Range{0, t.size}, path)
}

// SaveRange writes the bytes covered by r to path using SaveAuto.
func (t *Text) SaveRange(r Range, path string) error {
	h, err := t.SaveBegin(path, SaveAuto)
	if err != nil {
		return err
	}
	if _, err := h.WriteRange(r); err != nil {
		h.Cancel()
		return err
	}
	return h.Commit()
}

// Write copies the entire logical text to w.
func (t *Text) Write(w io.Writer) (int64, error) {
	return t.WriteRange(w, Range{0, t.size})
}

// WriteRange copies the bytes covered by r to w, independent of any
// SaveHandle.
func (t *Text) WriteRange(w io.Writer, r Range) (int64, error) {
	n, err := t.writeRangeTo(w, r)
	if err != nil {
		return int64(n), newErr("write", IOError, err)
	}
	return int64(n), nil
}

func (t *Text) writeRangeTo(w io.Writer, r Range) (int, error) {
	buf := make([]byte, 32*1024)
	pos, remaining, written := r.Start, r.Len(), 0
	for remaining > 0 {
		want := remaining
		if want > len(buf) {
			want = len(buf)
		}
		var got int
		if err := t.guardedRead("write", func() error {
			got = t.BytesGet(pos, buf[:want])
			return nil
		}); err != nil {
			return written, errors.Unwrap(err)
		}
		if got == 0 {
			break
		}
		n, err := w.Write(buf[:got])
		written += n
		if err != nil {
			return written, err
		}
		pos += got
		remaining -= got
	}
	return written, nil
}
