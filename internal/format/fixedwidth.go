package format

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/refcanon/refcanon/pkg/errors"
)

// FixedWidthReader streams lines from a legacy fixed-width source.
// Source encoding is Latin-1; fields are addressed by the byte-offset
// ranges documented per dataset. Because Latin-1 is a single-byte
// encoding, byte offsets in the source equal character offsets after
// decoding, so Field slices by rune index.
type FixedWidthReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewFixedWidth creates a reader over r. When skipTitle is set the
// first line is treated as a title line and discarded.
func NewFixedWidth(r io.Reader, skipTitle bool) *FixedWidthReader {
	decoded := charmap.ISO8859_1.NewDecoder().Reader(r)
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fw := &FixedWidthReader{scanner: scanner}
	if skipTitle && scanner.Scan() {
		fw.line++
	}
	return fw
}

// Next returns the next line, or io.EOF when the source is exhausted.
func (f *FixedWidthReader) Next() (Line, error) {
	if !f.scanner.Scan() {
		if err := f.scanner.Err(); err != nil {
			return Line{}, errors.WrapIO("read", "fixed-width source", err)
		}
		return Line{}, io.EOF
	}
	f.line++
	return Line{Num: f.line, runes: []rune(f.scanner.Text())}, nil
}

// Line is one decoded fixed-width record.
type Line struct {
	Num   int // 1-based source line number
	runes []rune
}

// Field returns the trimmed field at the half-open character range
// [start, end). Out-of-range offsets yield the empty string rather than
// failing, since trailing fields are frequently cut short upstream.
func (l Line) Field(start, end int) string {
	if start < 0 || start >= len(l.runes) {
		return ""
	}
	if end > len(l.runes) {
		end = len(l.runes)
	}
	if end <= start {
		return ""
	}
	return strings.TrimSpace(string(l.runes[start:end]))
}

// Len returns the character length of the line.
func (l Line) Len() int {
	return len(l.runes)
}
