// Package block owns the raw byte regions that back a text instance: the
// memory-mapped original file contents and the growable scratch storage
// that absorbs everything a user types.
//
// A Block is never mutated in a way that moves or invalidates bytes a
// Piece already refers to. Scratch blocks only ever grow by appending,
// up to their fixed capacity; once a block is full a new one is
// allocated and chained after it. This gives every byte a stable address
// for the lifetime of the owning Store, which the mark registry in
// package text relies on.
package block

import (
	mmap "github.com/edsrzf/mmap-go"
)

// Kind identifies the storage backing a Block.
type Kind int

const (
	// Mmap blocks back the immutable original file content.
	Mmap Kind = iota
	// Heap blocks are append-only scratch storage allocated on demand.
	Heap
)

// DefaultSize is the capacity given to a new scratch Block when the
// caller doesn't need more room than this.
const DefaultSize = 8192

// Block is a contiguous byte region with a fixed capacity. Heap blocks
// grow by appending into unused capacity; mmap blocks are fully used
// from the moment they're created and are never written to.
type Block struct {
	ID   uint32
	Kind Kind

	data []byte // capacity fixed at creation time, never reallocated
	used int     // number of valid bytes at the front of data

	mm mmap.MMap // non-nil only for Kind == Mmap, kept alive for Close
}

// Data returns the slice of currently valid bytes in the block.
func (b *Block) Data() []byte { return b.data[:b.used] }

// Used returns the number of valid bytes currently stored.
func (b *Block) Used() int { return b.used }

// Contains reports whether offset falls within this block's valid
// region. It does not tell whether a Piece or Mark referring to this
// offset is still in the live piece list.
func (b *Block) Contains(offset int) bool {
	return offset >= 0 && offset < b.used
}

// Append appends data to the block, failing if it would not fit in the
// remaining capacity. It never reallocates the backing array, so
// existing slices derived from Data remain valid.
func (b *Block) Append(data []byte) (offset int, ok bool) {
	if len(data) > len(b.data)-b.used {
		return 0, false
	}
	offset = b.used
	copy(b.data[offset:], data)
	b.used += len(data)
	return offset, true
}

// Close releases the resources held by the block. Only meaningful for
// mmap blocks; heap blocks are reclaimed by the garbage collector once
// unreferenced.
func (b *Block) Close() error {
	if b.mm != nil {
		return b.mm.Unmap()
	}
	return nil
}

func newHeap(id uint32, size int) *Block {
	return &Block{ID: id, Kind: Heap, data: make([]byte, size)}
}

func newMmap(id uint32, m mmap.MMap) *Block {
	return &Block{ID: id, Kind: Mmap, data: []byte(m), used: len(m), mm: m}
}
