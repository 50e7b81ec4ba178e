package block

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreAppendGrowsAcrossBlocks(t *testing.T) {
	s := New()
	s.blockSize = 4

	b1, off1, err := s.Append([]byte("ab"))
	if err != nil {
		t.Fatal(err)
	}
	if off1 != 0 {
		t.Fatalf("offset = %d, want 0", off1)
	}

	b2, off2, err := s.Append([]byte("cd"))
	if err != nil {
		t.Fatal(err)
	}
	if b2 != b1 {
		t.Fatalf("expected second append to reuse the same block")
	}
	if off2 != 2 {
		t.Fatalf("offset = %d, want 2", off2)
	}

	b3, _, err := s.Append([]byte("ef"))
	if err != nil {
		t.Fatal(err)
	}
	if b3 == b1 {
		t.Fatalf("expected a new block once the first one is full")
	}
}

func TestStoreOpenEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s, err := Open(f)
	if err != nil {
		t.Fatal(err)
	}
	if s.Original != nil {
		t.Fatalf("expected no original block for an empty file")
	}
}

func TestStoreOpenMapsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data")
	want := "hello, world"
	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s, err := Open(f)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Original == nil {
		t.Fatalf("expected an original block")
	}
	if got := string(s.Original.Data()); got != want {
		t.Fatalf("Data() = %q, want %q", got, want)
	}
}

func TestBlockAppendTwiceExtendsUsedRegion(t *testing.T) {
	b := newHeap(1, 8)
	off, ok := b.Append([]byte("ab"))
	if !ok || off != 0 {
		t.Fatalf("Append failed: off=%d ok=%v", off, ok)
	}
	if _, ok := b.Append([]byte("cd")); !ok {
		t.Fatalf("second Append failed")
	}
	if got := string(b.Data()); got != "abcd" {
		t.Fatalf("Data() = %q, want %q", got, "abcd")
	}
}
