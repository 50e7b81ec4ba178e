package text

// Mark is an opaque handle that resolves to a byte position and
// remains stable across edits that don't remove the bytes it points
// at, automatically becoming valid again if an undo restores them.
//
// The original vis engine gets this for free by using a raw memory
// address as the mark value: resolving a mark is just a linear scan
// for the piece whose data region contains that address. In Go we
// can't safely retain a raw address across an append that might move
// the backing array, so a Mark instead packs the owning block's ID
// with a byte offset inside it. Because scratch blocks never
// reallocate once created (see package block), that pair is exactly
// as stable as the address it stands in for, and resolution is the
// same linear scan: walk the live piece list for one whose block and
// offset range cover the mark.
type Mark uint64

func newMark(blockID uint32, offset int) Mark {
	return Mark(blockID)<<32 | Mark(uint32(offset))
}

func (m Mark) blockID() uint32 { return uint32(m >> 32) }
func (m Mark) offset() uint32  { return uint32(m) }

// MarkSet returns a handle for pos that can later be resolved back to
// a position with MarkGet, even across intervening edits, as long as
// the byte originally at pos is still (or again) live. Marking the
// end of the text (pos == Size()) returns a reserved end-of-text mark
// that always resolves back to the current size.
func (t *Text) MarkSet(pos int) Mark {
	if pos == t.size {
		return endOfTextMark
	}
	p, off := t.findPiece(pos)
	for p != nil && p != t.tail && off == p.length {
		p = p.next
		off = 0
	}
	if p == nil || p == t.tail || p.block == nil {
		return endOfTextMark
	}
	return newMark(p.block.ID, p.off+off)
}

// endOfTextMark is a reserved value distinct from InvalidMark (0) that
// MarkGet always resolves to the current Size().
const endOfTextMark Mark = ^Mark(0)

// MarkGet resolves mark to its current byte position, or
// InvalidPosition if the bytes it refers to are not currently live
// (e.g. they were deleted and no undo has restored them).
func (t *Text) MarkGet(m Mark) int {
	if m == InvalidMark {
		return int(InvalidPosition)
	}
	if m == endOfTextMark {
		return t.size
	}
	blockID, offset := m.blockID(), int(m.offset())
	pos := 0
	for p := t.head.next; p != t.tail; p = p.next {
		if p.block != nil && p.block.ID == blockID && p.block.Contains(offset) &&
			offset >= p.off && offset < p.off+p.length {
			return pos + (offset - p.off)
		}
		pos += p.length
	}
	return int(InvalidPosition)
}
