package block

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Store owns the blocks backing a single text instance: at most one
// mmap block holding the original file content, plus a chain of heap
// blocks absorbing every insertion made since.
type Store struct {
	Original *Block // nil when the text started out empty or the file was empty

	scratch   []*Block // allocation order; last entry is where new bytes land
	nextID    uint32
	blockSize int
}

// New creates an empty store with no original content.
func New() *Store {
	return &Store{blockSize: DefaultSize}
}

// Open memory-maps f read-only and uses it as the store's original
// block. The mapping is kept alive until Close is called. If f is
// empty, no mapping is created and the store behaves as if New had
// been used.
func Open(f *os.File) (*Store, error) {
	s := New()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("block: stat: %w", err)
	}
	if info.Size() == 0 {
		return s, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("block: mmap: %w", err)
	}
	s.nextID++
	s.Original = newMmap(s.nextID, m)
	return s, nil
}

// Close unmaps the original block, if any. Scratch blocks need no
// explicit release.
func (s *Store) Close() error {
	if s.Original != nil {
		return s.Original.Close()
	}
	return nil
}

// tail returns the scratch block new bytes should be appended to,
// allocating one if necessary or if the current tail can't hold size
// more bytes.
func (s *Store) tail(size int) *Block {
	if n := len(s.scratch); n > 0 {
		b := s.scratch[n-1]
		if size <= len(b.data)-b.used {
			return b
		}
	}
	cap := s.blockSize
	if size > cap {
		cap = size
	}
	s.nextID++
	b := newHeap(s.nextID, cap)
	s.scratch = append(s.scratch, b)
	return b
}

// Append copies data into scratch storage, allocating a new block when
// the current one lacks room, and returns the block and offset the
// data now lives at.
func (s *Store) Append(data []byte) (b *Block, offset int, err error) {
	b = s.tail(len(data))
	offset, ok := b.Append(data)
	if !ok {
		// tail() guarantees room; this only trips on a pathological
		// caller-supplied size larger than any block can hold.
		return nil, 0, fmt.Errorf("block: cannot fit %d bytes", len(data))
	}
	return b, offset, nil
}

// Block looks a block up by ID, searching the original block and the
// scratch chain. It returns nil if no block with that ID is known to
// the store (e.g. it belonged to a different Store).
func (s *Store) Block(id uint32) *Block {
	if s.Original != nil && s.Original.ID == id {
		return s.Original
	}
	for _, b := range s.scratch {
		if b.ID == id {
			return b
		}
	}
	return nil
}
