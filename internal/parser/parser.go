package parser

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Grid is a decoded tabular source: a header row plus string cells.
type Grid struct {
	Header []string
	Rows   [][]string
}

// Options controls decoding of delimited text.
type Options struct {
	// Delimiter for delimited text. If 0, sniffed among ',', ';', '\t'.
	Delimiter rune
}

// Decoder defines a tabular format implementation.
type Decoder interface {
	CanDecode(name string) bool
	Decode(content []byte, opt Options) (*Grid, error)
}

var registry []Decoder

// Register adds a decoder implementation to the registry.
func Register(d Decoder) {
	registry = append(registry, d)
}

// ErrEncoding indicates content that is not UTF-8 delimited text.
var ErrEncoding = errors.New("content is not valid UTF-8 text")

// ErrEmpty indicates a source without a header row.
var ErrEmpty = errors.New("source is empty")

// Decode unwraps compressed content by extension, then selects a decoder by
// the remaining name. Unknown extensions fall back to delimited text.
func Decode(name string, content []byte, opt Options) (*Grid, error) {
	inner, data, err := Decompress(name, content)
	if err != nil {
		return nil, err
	}
	for _, d := range registry {
		if d.CanDecode(inner) {
			return d.Decode(data, opt)
		}
	}
	return delimitedDecoder{}.Decode(data, opt)
}

func init() {
	Register(parquetDecoder{})
	Register(delimitedDecoder{})
}

// checkText rejects binary or mis-encoded content and strips a UTF-8 BOM.
func checkText(b []byte) ([]byte, error) {
	b = bytes.TrimPrefix(b, []byte("\ufeff"))
	if !utf8.Valid(b) {
		return nil, ErrEncoding
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return nil, fmt.Errorf("%w: NUL byte in content", ErrEncoding)
	}
	return b, nil
}
