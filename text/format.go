package text

import "fmt"

// newlineType records which line terminator a loaded file used, so
// InsertNewline can stay consistent with the rest of the file.
type newlineType int

const (
	newlineLF newlineType = iota
	newlineCRLF
)

// NewlineType reports the line terminator detected for this text at
// load time (LF by default, for an empty or newly created buffer).
func (t *Text) NewlineType() newlineType { return t.nl }

// NewlineChar returns the literal bytes NewlineType implies.
func (t *Text) NewlineChar() string {
	if t.nl == newlineCRLF {
		return "\r\n"
	}
	return "\n"
}

// detectNewline scans the first line terminator in t and classifies
// it, defaulting to LF when none is found within the scanned prefix.
func detectNewline(t *Text) newlineType {
	const scanLimit = 4096
	n := t.size
	if n > scanLimit {
		n = scanLimit
	}
	buf := make([]byte, n)
	t.BytesGet(0, buf)
	for i, b := range buf {
		if b == '\n' {
			if i > 0 && buf[i-1] == '\r' {
				return newlineCRLF
			}
			return newlineLF
		}
	}
	return newlineLF
}

// InsertNewline inserts the line terminator appropriate for this
// text's detected newline type at pos.
func (t *Text) InsertNewline(pos int) error {
	return t.Insert(pos, []byte(t.NewlineChar()))
}

// AppendFormatted renders format with args using the standard Printf
// verbs and inserts the result at the end of the text.
func (t *Text) AppendFormatted(format string, args ...any) error {
	return t.InsertFormatted(t.size, format, args...)
}

// InsertFormatted renders format with args and inserts the result at
// pos. Rendering itself cannot fail in Go (unlike a C printf family
// that can return a negative length); FormatError is reserved for
// hosts that route through a formatter capable of failing, but Insert
// failures (OutOfMemory, InvalidRange) are still reported as-is.
func (t *Text) InsertFormatted(pos int, format string, args ...any) error {
	rendered := fmt.Sprintf(format, args...)
	return t.Insert(pos, []byte(rendered))
}
