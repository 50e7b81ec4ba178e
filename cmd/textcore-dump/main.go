// Command textcore-dump loads a file into a text buffer, exercises a
// handful of edits against it, reports the resulting size and line
// count, undoes the edit, and writes the buffer's content to stdout. It
// exists to give the library a runnable entry point independent of any
// editor front end.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mibk/textcore/text"
)

func main() {
	log.SetPrefix("textcore-dump: ")
	log.SetFlags(0)

	var path string
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	t, err := text.Load(path)
	if err != nil {
		log.Fatalln("loading:", err)
	}
	defer t.Free()

	fmt.Printf("loaded %q: %d bytes, newline=%v\n", path, t.Size(), t.NewlineType())

	if err := t.AppendFormatted("\n-- dumped by textcore-dump at position %d --", t.Size()); err != nil {
		log.Fatalln("appending:", err)
	}
	t.Snapshot()

	lines := t.LinenoByPos(t.Size() - 1)
	fmt.Printf("after append: %d bytes, %d lines\n", t.Size(), lines)

	if pos := t.Undo(); pos != int(text.InvalidPosition) {
		fmt.Printf("undo returned to size %d\n", t.Size())
	}

	out := t.BytesAlloc0(0, t.Size())
	os.Stdout.Write(out[:len(out)-1])
}
