package text

// Insert inserts data at pos, which must be in [0, Size()]. Consecutive
// inserts that land exactly where the previous one ended, and that
// land in the same scratch block, extend the previously inserted
// piece in place instead of allocating a new one -- the cache
// optimization described by the piece table. Any other operation
// (Delete, Undo, Redo, Snapshot, ...) breaks that chain so the next
// Insert starts a fresh piece.
func (t *Text) Insert(pos int, data []byte) error {
	if pos < 0 || pos > t.size {
		return newErr("insert", InvalidRange, ErrInvalidRange)
	}
	if len(data) == 0 {
		return nil
	}
	t.openForEdit()

	blk, off, err := t.store.Append(data)
	if err != nil {
		return newErr("insert", OutOfMemory, err)
	}

	if t.cache.piece != nil && t.cache.end == pos &&
		t.cache.piece.block == blk && off == t.cache.piece.off+t.cache.piece.length {
		c := &change{
			kind:        changeExtend,
			pos:         pos,
			insertedLen: len(data),
			piece:       t.cache.piece,
			oldLen:      t.cache.piece.length,
			newLen:      t.cache.piece.length + len(data),
		}
		c.apply()
		t.current.push(c)
		t.size += len(data)
		t.cache.end = pos + len(data)
		t.invalidateFrom(pos)
		return nil
	}

	p, offset := t.findPiece(pos)
	if p == nil {
		return newErr("insert", InvalidRange, ErrInvalidRange)
	}

	pnew := &piece{block: blk, off: off, length: len(data)}
	var c *change
	if offset == p.length {
		pnew.prev, pnew.next = p, p.next
		c = &change{kind: changeSplice, pos: pos, insertedLen: len(data), old: emptySpan, new: newSpan(pnew, pnew)}
	} else {
		before := &piece{block: p.block, off: p.off, length: offset, prev: p.prev}
		after := &piece{block: p.block, off: p.off + offset, length: p.length - offset, next: p.next}
		before.next, pnew.prev, pnew.next, after.prev = pnew, before, after, pnew
		c = &change{kind: changeSplice, pos: pos, insertedLen: len(data), old: newSpan(p, p), new: newSpan(before, after)}
	}
	c.apply()
	t.current.push(c)
	t.size += len(data)
	t.cache.piece, t.cache.block, t.cache.end = pnew, blk, pos+len(data)
	t.invalidateFrom(pos)
	return nil
}

// Delete removes length bytes starting at pos. At most the piece
// covering pos and the piece covering pos+length are split; every
// piece strictly between them is dropped from the live list outright
// (but kept reachable through the change log for undo).
func (t *Text) Delete(pos, length int) error {
	if length == 0 {
		return nil
	}
	if pos < 0 || length < 0 || pos+length > t.size {
		return newErr("delete", InvalidRange, ErrInvalidRange)
	}
	t.openForEdit()
	t.cache.piece = nil

	p, offset := t.findPiece(pos)
	if p == nil {
		return newErr("delete", InvalidRange, ErrInvalidRange)
	}
	startAbs := pos - offset
	midwayStart := offset != p.length

	last := p
	cum := startAbs + p.length
	for cum < pos+length {
		last = last.next
		cum += last.length
	}
	end := last
	midwayEnd := cum != pos+length
	endAbsStart := cum - end.length
	splitOff := (pos + length) - endAbsStart

	var old, new span
	switch {
	case !midwayStart && !midwayEnd:
		old = newSpan(p.next, end)
		new = emptySpan
	case midwayStart && !midwayEnd:
		before := &piece{block: p.block, off: p.off, length: offset, prev: p.prev, next: end.next}
		old = newSpan(p, end)
		new = newSpan(before, before)
	case !midwayStart && midwayEnd:
		after := &piece{block: end.block, off: end.off + splitOff, length: end.length - splitOff, prev: p, next: end.next}
		old = newSpan(p.next, end)
		new = newSpan(after, after)
	default: // midwayStart && midwayEnd
		before := &piece{block: p.block, off: p.off, length: offset, prev: p.prev}
		after := &piece{block: end.block, off: end.off + splitOff, length: end.length - splitOff, next: end.next}
		before.next, after.prev = after, before
		old = newSpan(p, end)
		new = newSpan(before, after)
	}

	c := &change{kind: changeSplice, pos: pos, old: old, new: new}
	c.apply()
	t.current.push(c)
	t.size += c.byteDelta()
	t.invalidateFrom(pos)
	return nil
}

// Range is a half-open byte range [Start, End) within the text.
type Range struct {
	Start, End int
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int { return r.End - r.Start }

// DeleteRange deletes the bytes covered by r.
func (t *Text) DeleteRange(r Range) error {
	return t.Delete(r.Start, r.Len())
}
