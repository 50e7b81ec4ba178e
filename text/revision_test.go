package text

import (
	"testing"
	"time"
)

func TestSnapshotIsNoOpWithoutChanges(t *testing.T) {
	txt := New()
	before := txt.current
	txt.Snapshot()
	if txt.current != before {
		t.Error("Snapshot with no pending changes should not create a new revision")
	}
}

func TestUndoRedoBranching(t *testing.T) {
	txt := newLoaded("base")
	txt.insertString(4, "-a")
	txt.checkContent(t, "base-a")

	if pos := txt.Undo(); pos != int(InvalidPosition) && txt.content() != "base" {
		t.Fatalf("after undo, content = %q, want %q", txt.content(), "base")
	}

	// Undo reverted the "-a" revision and left current on its sealed
	// parent (the "base" revision). openForEdit opens a fresh unsealed
	// child of that parent before this insert is recorded, so "-b"
	// becomes a sibling branch of "-a" instead of being appended into
	// the sealed "base" revision.
	txt.insertString(4, "-b")
	txt.checkContent(t, "base-b")

	if txt.Undo(); txt.content() != "base" {
		t.Fatalf("content = %q, want %q", txt.content(), "base")
	}
	// Redo always follows the most recently created child: "-b".
	if txt.Redo(); txt.content() != "base-b" {
		t.Fatalf("content = %q, want %q", txt.content(), "base-b")
	}
}

// TestInsertAfterUndoPastSealedRevision is a regression test for an
// edit made without an intervening Snapshot, directly on a sealed
// revision that Undo walked onto. Before openForEdit existed, Insert
// pushed straight into the sealed revision's change list, and a
// subsequent Redo replayed a now-stale sibling instead, silently
// losing the new edit.
func TestInsertAfterUndoPastSealedRevision(t *testing.T) {
	txt := newLoaded("")
	txt.insertString(0, "a")
	txt.insertString(1, "b")
	txt.checkContent(t, "ab")

	txt.Undo()
	txt.checkContent(t, "a")

	// No Snapshot between this Insert and the Undo above: current is
	// still the sealed "a" revision at the moment Insert runs.
	if err := txt.Insert(1, []byte("X")); err != nil {
		t.Fatal(err)
	}
	txt.checkContent(t, "aX")
	if txt.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", txt.Size())
	}

	// Nothing to redo: "X" was a fresh edit, not an undone one, and
	// it opened its own (childless) revision.
	if pos := txt.Redo(); pos != int(InvalidPosition) {
		t.Fatalf("Redo() = %d, want InvalidPosition", pos)
	}
	txt.checkContent(t, "aX")
	if txt.Size() != 2 {
		t.Fatalf("Size() after Redo = %d, want 2", txt.Size())
	}
}

func TestEarlierLater(t *testing.T) {
	txt := newLoaded("")
	txt.insertString(0, "a")
	txt.insertString(1, "b")
	txt.insertString(2, "c")
	txt.checkContent(t, "abc")

	txt.Earlier(2)
	txt.checkContent(t, "a")

	txt.Later(5) // more steps than exist; should stop at the end
	txt.checkContent(t, "abc")
}

func TestRestoreByTimestamp(t *testing.T) {
	txt := newLoaded("")
	clockAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txt.clock = func() time.Time { return clockAt }

	txt.insertString(0, "a")
	t1 := txt.current.parent.timestamp

	clockAt = clockAt.Add(time.Minute)
	txt.insertString(1, "b")

	clockAt = clockAt.Add(time.Minute)
	txt.insertString(2, "c")
	txt.checkContent(t, "abc")

	txt.Restore(t1)
	txt.checkContent(t, "a")
}

// TestSnapshotBreaksContiguousInsertCache is a regression test: the
// contiguous-insert cache optimization (mutate.go) must not fire
// across a Snapshot boundary, since that would record a changeExtend
// that mutates a piece belonging to an already-sealed revision.
func TestSnapshotBreaksContiguousInsertCache(t *testing.T) {
	txt := New()
	if err := txt.Insert(0, []byte("a")); err != nil {
		t.Fatal(err)
	}
	if txt.cache.piece == nil {
		t.Fatal("expected a cached piece after the first insert")
	}

	txt.Snapshot()
	if txt.cache.piece != nil {
		t.Fatal("Snapshot should clear the contiguous-insert cache")
	}

	// Byte-contiguous with the "a" insert, but in a new revision: this
	// must produce a fresh splice, not an extend of "a"'s piece.
	if err := txt.Insert(1, []byte("b")); err != nil {
		t.Fatal(err)
	}
	txt.checkContent(t, "ab")

	if len(txt.current.changes) != 1 {
		t.Fatalf("len(current.changes) = %d, want 1", len(txt.current.changes))
	}
	if txt.current.changes[0].kind != changeSplice {
		t.Fatal("insert after Snapshot extended the prior revision's piece instead of splicing a new one")
	}
}

func TestHistoryGet(t *testing.T) {
	txt := newLoaded("")
	txt.insertString(0, "a")
	txt.insertString(1, "bb")
	if got := txt.HistoryGet(0); got != 1 {
		t.Errorf("HistoryGet(0) = %d, want 1", got)
	}
	if got := txt.HistoryGet(1); got != 0 {
		t.Errorf("HistoryGet(1) = %d, want 0", got)
	}
	if got := txt.HistoryGet(5); got != int(InvalidPosition) {
		t.Errorf("HistoryGet(5) = %d, want InvalidPosition", got)
	}
}
