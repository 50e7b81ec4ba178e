// The piece table implemented in this file is a direct generalization
// of the vis editor's text.c algorithm (see the attribution in
// revision.go): pieces form a doubly linked list anchored by two
// zero-length sentinels, and every edit is expressed as swapping an
// "old" span of pieces for a "new" one. Crucially, a piece's own
// prev/next links are never rewritten after creation -- only the
// pointers held by its neighbors change when a span is spliced in or
// out. That lets undo and redo replay the exact same splice in either
// direction just by swapping the roles of old and new.
package text

import "github.com/mibk/textcore/block"

// piece is a half-open view into exactly one block.
type piece struct {
	block  *block.Block
	off    int
	length int

	prev, next *piece
}

func (p *piece) bytes() []byte {
	return p.block.Data()[p.off : p.off+p.length]
}

// span is an inclusive run of pieces, or the empty span when start is
// nil.
type span struct {
	start, end *piece
}

func newSpan(start, end *piece) span {
	return span{start, end}
}

var emptySpan = span{}

// swapSpans replaces old with new in the live piece list. Exactly one
// of old, new may be empty (a pure insert or pure delete); when both
// are non-empty the run of pieces between the neighbors is replaced
// wholesale.
func swapSpans(old, new span) {
	switch {
	case old.start == nil && new.start == nil:
		return
	case old.start == nil:
		new.start.prev.next = new.start
		new.end.next.prev = new.end
	case new.start == nil:
		old.start.prev.next = old.end.next
		old.end.next.prev = old.start.prev
	default:
		old.start.prev.next = new.start
		old.end.next.prev = new.end
	}
}

// changeKind distinguishes a structural splice from the cache
// optimization that extends an already-live piece in place.
type changeKind int

const (
	changeSplice changeKind = iota
	changeExtend
)

// change records one reversible edit to the piece list. It is the
// atomic unit undo and redo operate on.
type change struct {
	kind changeKind
	pos  int

	// insertedLen is the number of bytes this change adds (0 for a
	// pure delete). It lets posOnApply report where the cursor should
	// land after the bytes just reappeared, rather than where the
	// edit started.
	insertedLen int

	// valid when kind == changeSplice
	old, new span

	// valid when kind == changeExtend
	piece          *piece
	oldLen, newLen int
}

func (c *change) apply() {
	if c.kind == changeExtend {
		c.piece.length = c.newLen
		return
	}
	swapSpans(c.old, c.new)
}

func (c *change) revert() {
	if c.kind == changeExtend {
		c.piece.length = c.oldLen
		return
	}
	swapSpans(c.new, c.old)
}

// posOnApply is the position to report after applying this change
// forward (e.g. on redo): the end of whatever bytes it just added, or
// its recorded position for a pure delete.
func (c *change) posOnApply() int { return c.pos + c.insertedLen }

// posOnRevert is the position to report after reverting this change
// (e.g. on undo): where the edit started.
func (c *change) posOnRevert() int { return c.pos }

// byteDelta reports how the size of the text changed when this change
// was first applied (positive for growth, negative for shrinkage).
func (c *change) byteDelta() int {
	if c.kind == changeExtend {
		return c.newLen - c.oldLen
	}
	return spanLen(c.new) - spanLen(c.old)
}

func spanLen(s span) int {
	n := 0
	for p := s.start; p != nil; p = p.next {
		n += p.length
		if p == s.end {
			break
		}
	}
	return n
}
