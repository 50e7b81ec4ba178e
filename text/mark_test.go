package text

import "testing"

func TestMarkSurvivesUndoRestoringDeletedBytes(t *testing.T) {
	txt := newLoaded("abcdef")

	m := txt.MarkSet(3)
	if got := txt.MarkGet(m); got != 3 {
		t.Fatalf("MarkGet before edit = %d, want 3", got)
	}

	if err := txt.Delete(2, 2); err != nil {
		t.Fatal(err)
	}
	txt.Snapshot()
	txt.checkContent(t, "abef")

	if got := txt.MarkGet(m); got != int(InvalidPosition) {
		t.Fatalf("MarkGet after deleting marked byte = %d, want InvalidPosition", got)
	}

	txt.Undo()
	txt.checkContent(t, "abcdef")

	if got := txt.MarkGet(m); got != 3 {
		t.Fatalf("MarkGet after undo restored the byte = %d, want 3", got)
	}
}

func TestMarkAtEndOfText(t *testing.T) {
	txt := newLoaded("abc")

	m := txt.MarkSet(txt.Size())
	if m != endOfTextMark {
		t.Fatalf("MarkSet(Size()) = %v, want the reserved end-of-text mark", m)
	}
	if got := txt.MarkGet(m); got != 3 {
		t.Fatalf("MarkGet(end) = %d, want 3", got)
	}

	txt.insertString(3, "xyz")
	if got := txt.MarkGet(m); got != 6 {
		t.Fatalf("MarkGet(end) after append = %d, want 6", got)
	}
}

func TestInvalidMarkResolvesToInvalidPosition(t *testing.T) {
	txt := newLoaded("abc")
	if got := txt.MarkGet(InvalidMark); got != int(InvalidPosition) {
		t.Fatalf("MarkGet(InvalidMark) = %d, want InvalidPosition", got)
	}
}

func TestMarkAtStartOfText(t *testing.T) {
	txt := newLoaded("abc")

	m := txt.MarkSet(0)
	if got := txt.MarkGet(m); got != 0 {
		t.Fatalf("MarkGet(start) = %d, want 0", got)
	}

	txt.insertString(3, "xyz")
	if got := txt.MarkGet(m); got != 0 {
		t.Fatalf("MarkGet(start) after trailing insert = %d, want 0", got)
	}
}

func TestMarkSurvivesUnrelatedEditsElsewhere(t *testing.T) {
	txt := newLoaded("abcdef")
	m := txt.MarkSet(4) // the 'e'

	txt.insertString(0, "XYZ")
	txt.checkContent(t, "XYZabcdef")
	if got := txt.MarkGet(m); got != 7 {
		t.Fatalf("MarkGet after unrelated prefix insert = %d, want 7", got)
	}
}
