package core

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextReader cleans row documents exported by spreadsheet tools and legacy
// systems: a leading UTF-8 BOM is dropped and every invalid byte becomes
// U+FFFD, so the JSON decoder never sees broken text.
type TextReader struct {
	br      *bufio.Reader
	started bool

	// Tail of an encoded rune that did not fit the caller's buffer.
	pending []byte
}

// NewTextReader wraps r.
func NewTextReader(r io.Reader) *TextReader {
	return &TextReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (t *TextReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !t.started {
		t.started = true
		if head, _ := t.br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
			t.br.Discard(len(utf8BOM))
		}
	}

	n := copy(p, t.pending)
	t.pending = t.pending[n:]

	var enc [utf8.UTFMax]byte
	for n < len(p) {
		r, _, err := t.br.ReadRune()
		if err != nil {
			if err == io.EOF && n > 0 {
				return n, nil
			}
			return n, err
		}

		// ReadRune reports an invalid byte as RuneError, which encodes
		// to the replacement character.
		w := utf8.EncodeRune(enc[:], r)
		c := copy(p[n:], enc[:w])
		n += c
		if c < w {
			t.pending = append(t.pending[:0], enc[c:w]...)
		}
	}
	return n, nil
}
