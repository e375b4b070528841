// Package textcodec decodes and re-encodes target file content. Decoding
// tries UTF-8 first and falls back to an ordered list of single-byte
// encodings; the encoding that validates is remembered so the file can be
// written back byte-compatibly.
package textcodec

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding identifies one candidate text encoding. Use the package
// variables; the zero value decodes nothing.
type Encoding struct {
	Name  string
	table *charmap.Charmap // nil means UTF-8
}

var (
	UTF8        = Encoding{Name: "utf-8"}
	Windows1252 = Encoding{Name: "windows-1252", table: charmap.Windows1252}
	Latin1      = Encoding{Name: "iso-8859-1", table: charmap.ISO8859_1}
)

// Candidates returns the fixed decode order: UTF-8 first, then the
// single-byte fallbacks. Callers may pass a custom list to Decode, but the
// engine always uses this one.
func Candidates() []Encoding {
	return []Encoding{UTF8, Windows1252, Latin1}
}

// ErrBinaryContent marks data rejected by the NUL-byte guard before any
// encoding is tried.
var ErrBinaryContent = errors.New("content contains NUL bytes (binary file)")

// ErrNoEncoding means no candidate encoding validated the data.
var ErrNoEncoding = errors.New("no candidate encoding validates content")

// UnsupportedRuneError reports a rune the target encoding cannot represent.
// Encoding never substitutes; it fails with this error instead.
type UnsupportedRuneError struct {
	Rune     rune
	Encoding string
}

func (e *UnsupportedRuneError) Error() string {
	return fmt.Sprintf("character %q (U+%04X) is not representable in %s", e.Rune, e.Rune, e.Encoding)
}

// Decode validates data against each candidate in order and returns the
// decoded text together with the first encoding that accepts every byte.
// Data containing a NUL byte is treated as binary, never as text, because
// ISO-8859-1 would otherwise happily decode arbitrary bytes.
func Decode(data []byte, candidates []Encoding) (string, Encoding, error) {
	if bytes.IndexByte(data, 0x00) >= 0 {
		return "", Encoding{}, ErrBinaryContent
	}

	for _, enc := range candidates {
		if enc.table == nil {
			if utf8.Valid(data) {
				return string(data), enc, nil
			}
			continue
		}
		if text, ok := decodeCharmap(data, enc.table); ok {
			return text, enc, nil
		}
	}

	return "", Encoding{}, ErrNoEncoding
}

// decodeCharmap decodes strictly: a byte with no character assigned in the
// charmap fails the whole candidate rather than becoming U+FFFD.
func decodeCharmap(data []byte, table *charmap.Charmap) (string, bool) {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		r := table.DecodeByte(c)
		if r == utf8.RuneError {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// DecodeFile reads path and decodes it per Decode. Read errors and
// undecodable content both make the file unreadable to the caller.
func DecodeFile(path string, candidates []Encoding) (string, Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", Encoding{}, fmt.Errorf("read %s: %w", path, err)
	}
	text, enc, err := Decode(data, candidates)
	if err != nil {
		return "", Encoding{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return text, enc, nil
}

// Encode converts text back to bytes in enc. Decoding then encoding
// unmodified text with the same encoding reproduces the original bytes
// exactly; no BOM is added and line endings are untouched.
func Encode(text string, enc Encoding) ([]byte, error) {
	if enc.table == nil {
		return []byte(text), nil
	}
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := enc.table.EncodeRune(r)
		if !ok {
			return nil, &UnsupportedRuneError{Rune: r, Encoding: enc.Name}
		}
		out = append(out, b)
	}
	return out, nil
}
