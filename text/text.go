// The majority of parts of this file is based on the text manipulation in
// the vis editor by Marc André Tanner and are available under the copyright
// bellow.  For further information please visit http://repo.or.cz/w/vis.git
// or https://github.com/martanne/vis.

// Copyright (c) 2014 Marc André Tanner <mat at brain-dump.org>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
// WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
// ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
// WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
// ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
// OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.

// Package text implements the piece-table text buffer at the heart of
// an editor: an in-memory representation of a possibly-large file that
// supports efficient random-position insertion and deletion, keeps a
// complete undo/redo history, and exposes marks that survive edits.
//
// The package is a generalization of the text manipulation in the vis
// editor (some parts are close ports; see piece.go and revision.go for
// the specifics) onto a branching revision tree and an mmap-backed
// block store, in place of vis's linear undo stack and single arena.
// For further information on the original algorithm, see
// https://github.com/martanne/vis.
package text

import (
	"io"
	"os"
	"time"

	"github.com/mibk/textcore/block"
	"github.com/mibk/textcore/lineindex"
)

// Text is an in-memory text buffer with undo/redo history and stable
// marks. The zero value is not usable; create one with New or Load.
type Text struct {
	store *block.Store

	head, tail *piece
	size       int

	filename string
	stat     os.FileInfo

	root, current *revision
	nextRevID     int
	lastSaved     *revision

	nl newlineType

	lines *lineindex.Index

	cache insertCache

	clock func() time.Time
}

type insertCache struct {
	piece *piece
	block *block.Block
	end   int
}

// New creates an empty text instance.
func New() *Text {
	return newText(block.New())
}

// Load creates a text instance populated with the content of the file
// at path. An empty path is equivalent to calling New.
func Load(path string) (*Text, error) {
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr("load", IOError, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, newErr("load", IOError, err)
	}

	store, err := block.Open(f)
	if err != nil {
		return nil, newErr("load", IOError, err)
	}

	t := newText(store)
	t.filename = path
	t.stat = info

	if store.Original != nil {
		p := &piece{block: store.Original, off: 0, length: store.Original.Used()}
		p.prev, p.next = t.head, t.tail
		t.head.next, t.tail.prev = p, p
		t.size = p.length
	}
	t.nl = detectNewline(t)
	return t, nil
}

func newText(store *block.Store) *Text {
	head := &piece{}
	tail := &piece{}
	head.next, tail.prev = tail, head

	t := &Text{
		store: store,
		head:  head,
		tail:  tail,
		nl:    newlineLF,
	}
	t.root = newRevision(0, nil)
	// root is kept a pure, permanently-empty sentinel for the loaded
	// state; the first real edits land in this child instead, so
	// Undo never has to special-case reverting root itself.
	first := newRevision(1, t.root)
	t.root.children = append(t.root.children, first)
	t.current = first
	t.lastSaved = first
	t.nextRevID = 1
	t.lines = lineindex.New(t)
	return t
}

// Filename returns the path the text was loaded from, or "" for a
// buffer that started out empty.
func (t *Text) Filename() string { return t.filename }

// Size returns the size of the text in bytes.
func (t *Text) Size() int { return t.size }

// Stat returns file information captured at load time or at the last
// successful save, whichever happened more recently. It returns nil
// for a buffer that has never been associated with a file.
func (t *Text) Stat() os.FileInfo { return t.stat }

// Modified reports whether the text holds edits that haven't been
// saved.
func (t *Text) Modified() bool {
	return t.lastSaved != t.current || (!t.current.sealed && t.current.applied > 0)
}

// Free releases every resource held by the text instance, including
// the memory mapping of its original file, if any.
func (t *Text) Free() error {
	return t.store.Close()
}

// findPiece locates the piece containing byte pos and the offset
// within it. When pos falls exactly on a boundary between two pieces,
// the left piece is returned with offset equal to its length -- the
// convention every splice in this package relies on to decide whether
// an edit lands at a boundary or needs to split a piece. It returns
// (nil, 0) if pos is out of range.
func (t *Text) findPiece(pos int) (p *piece, offset int) {
	cur := 0
	for p := t.head; p.next != nil; p = p.next {
		if cur <= pos && pos <= cur+p.length {
			return p, pos - cur
		}
		cur += p.length
	}
	return nil, 0
}

// invalidateFrom drops any cached line-index anchors at or after pos,
// after a mutation or a history walk changes the bytes there.
func (t *Text) invalidateFrom(pos int) {
	t.lines.Invalidate(pos)
}

// ByteGet reads the byte at pos into buf and returns true, or leaves
// buf untouched and returns false if pos is out of range.
func (t *Text) ByteGet(pos int, buf *byte) bool {
	if pos < 0 || pos >= t.size {
		return false
	}
	p, offset := t.findPiece(pos)
	for p != nil && p != t.tail && offset == p.length {
		p = p.next
		offset = 0
	}
	if p == nil || p == t.tail {
		return false
	}
	*buf = p.bytes()[offset]
	return true
}

// BytesGet copies at most len(buf) bytes starting at pos into buf and
// returns how many bytes were copied.
func (t *Text) BytesGet(pos int, buf []byte) int {
	if pos < 0 || pos >= t.size || len(buf) == 0 {
		return 0
	}
	p, offset := t.findPiece(pos)
	n := 0
	for p != nil && p != t.tail && n < len(buf) {
		if offset == p.length {
			p = p.next
			offset = 0
			continue
		}
		src := p.bytes()[offset:]
		c := copy(buf[n:], src)
		n += c
		offset += c
	}
	return n
}

// BytesAlloc0 allocates and returns a NUL-terminated copy of at most
// length bytes starting at pos.
func (t *Text) BytesAlloc0(pos, length int) []byte {
	buf := make([]byte, length+1)
	n := t.BytesGet(pos, buf[:length])
	return buf[:n+1]
}

// ReadAt implements io.ReaderAt over the current content of the text,
// so package lineindex can scan it for line boundaries the same way
// this project's ancestor package textutil scans a plain file.
func (t *Text) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, os.ErrInvalid
	}
	n := t.BytesGet(int(off), p)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// PosByLineno returns the byte position of the start of line lineno
// (1-based).
func (t *Text) PosByLineno(lineno int) int {
	return t.lines.PosByLineno(lineno)
}

// LinenoByPos returns the (1-based) line number containing pos.
func (t *Text) LinenoByPos(pos int) int {
	return t.lines.LinenoByPos(pos)
}
