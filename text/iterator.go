package text

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Iterator walks a Text at byte, codepoint, or grapheme-cluster
// granularity. The zero value is not valid; create one with
// Text.IteratorGet.
//
// Grapheme traversal is delegated to github.com/rivo/uniseg, which
// implements the Unicode text segmentation rules (extend and
// spacing-mark combining, regional-indicator pairing, emoji ZWJ
// sequences, CR-LF as one cluster) that this package does not
// reimplement.
type Iterator struct {
	t   *Text
	pos int
}

// IteratorGet returns an iterator positioned at pos.
func (t *Text) IteratorGet(pos int) *Iterator {
	return &Iterator{t: t, pos: pos}
}

// Pos returns the iterator's current byte position.
func (it *Iterator) Pos() int { return it.pos }

// Valid reports whether the iterator's position is within the text,
// including the boundary position equal to Size().
func (it *Iterator) Valid() bool {
	return it.pos >= 0 && it.pos <= it.t.size
}

// ByteGet reads the byte at the current position without advancing.
// At end-of-text it reports a NUL byte and true, matching the
// "read past the end yields NUL" convention used by the host's cursor
// display logic.
func (it *Iterator) ByteGet() (byte, bool) {
	if !it.Valid() {
		return 0, false
	}
	if it.pos == it.t.size {
		return 0, true
	}
	var b byte
	it.t.ByteGet(it.pos, &b)
	return b, true
}

// ByteNext advances one byte, returning false (without moving) at
// end-of-text.
func (it *Iterator) ByteNext() bool {
	if it.pos >= it.t.size {
		return false
	}
	it.pos++
	return true
}

// BytePrev retreats one byte, returning false (without moving) at the
// start of the text.
func (it *Iterator) BytePrev() bool {
	if it.pos <= 0 {
		return false
	}
	it.pos--
	return true
}

func (it *Iterator) isContinuation(pos int) bool {
	var b byte
	if !it.t.ByteGet(pos, &b) {
		return false
	}
	return b&0xC0 == 0x80
}

// CodepointNext advances past the UTF-8 encoding of the codepoint at
// the current position, stopping on the first byte of the next one
// (any byte whose top two bits aren't 0b10).
func (it *Iterator) CodepointNext() bool {
	if it.pos >= it.t.size {
		return false
	}
	it.pos++
	for it.pos < it.t.size && it.isContinuation(it.pos) {
		it.pos++
	}
	return true
}

// CodepointPrev retreats to the first byte of the previous codepoint.
func (it *Iterator) CodepointPrev() bool {
	if it.pos <= 0 {
		return false
	}
	it.pos--
	for it.pos > 0 && it.isContinuation(it.pos) {
		it.pos--
	}
	return true
}

// CharGet decodes the rune at the current position, treating a CR
// immediately followed by LF as a single logical '\n', the convention
// the line index and cursor-movement code rely on.
func (it *Iterator) CharGet() (rune, bool) {
	if !it.Valid() || it.pos == it.t.size {
		return 0, false
	}
	var first byte
	it.t.ByteGet(it.pos, &first)
	if first == '\r' {
		var next byte
		if it.t.ByteGet(it.pos+1, &next) && next == '\n' {
			return '\n', true
		}
	}
	var buf [utf8.UTFMax]byte
	n := it.t.BytesGet(it.pos, buf[:])
	r, _ := utf8.DecodeRune(buf[:n])
	return r, true
}

// graphemeWindow bounds how many bytes are read around the cursor to
// find a grapheme cluster boundary; generously larger than any
// practical combining sequence.
const graphemeWindow = 64

// CharacterNext advances past the grapheme cluster starting at the
// current position.
func (it *Iterator) CharacterNext() bool {
	if it.pos >= it.t.size {
		return false
	}
	buf := make([]byte, graphemeWindow)
	n := it.t.BytesGet(it.pos, buf)
	if n == 0 {
		return false
	}
	cluster, _, _, _ := uniseg.FirstGraphemeCluster(buf[:n], -1)
	if len(cluster) == 0 {
		return false
	}
	it.pos += len(cluster)
	return true
}

// CharacterGet returns the grapheme cluster starting at the current
// position without advancing.
func (it *Iterator) CharacterGet() (string, bool) {
	if it.pos >= it.t.size {
		return "", false
	}
	buf := make([]byte, graphemeWindow)
	n := it.t.BytesGet(it.pos, buf)
	cluster, _, _, _ := uniseg.FirstGraphemeCluster(buf[:n], -1)
	return string(cluster), len(cluster) > 0
}

// CharacterPrev retreats to the start of the grapheme cluster ending
// at the current position. It re-segments a bounded window of bytes
// before the cursor rather than walking cluster boundaries backward
// directly, since uniseg only exposes forward segmentation.
func (it *Iterator) CharacterPrev() bool {
	if it.pos <= 0 {
		return false
	}
	start := it.pos - graphemeWindow
	if start < 0 {
		start = 0
	}
	buf := make([]byte, it.pos-start)
	n := it.t.BytesGet(start, buf)
	data := buf[:n]

	var boundaries []int
	state := -1
	off := 0
	for len(data) > 0 {
		cluster, rest, _, newState := uniseg.FirstGraphemeCluster(data, state)
		if len(cluster) == 0 {
			break
		}
		boundaries = append(boundaries, off)
		off += len(cluster)
		data = rest
		state = newState
	}
	if len(boundaries) == 0 {
		it.pos = start
		return true
	}
	it.pos = start + boundaries[len(boundaries)-1]
	return true
}
