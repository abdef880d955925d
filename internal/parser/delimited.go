package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

type delimitedDecoder struct{}

func (delimitedDecoder) CanDecode(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (delimitedDecoder) Decode(content []byte, opt Options) (*Grid, error) {
	text, err := checkText(content)
	if err != nil {
		return nil, err
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(text)
	}
	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	g := &Grid{Header: make([]string, len(header))}
	for i, h := range header {
		g.Header[i] = strings.TrimSpace(h)
	}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(g.Rows)+1, err)
		}
		// skip blank lines that survive as a single empty field
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < len(g.Header) {
			tmp := make([]string, len(g.Header))
			copy(tmp, rec)
			rec = tmp
		}
		g.Rows = append(g.Rows, rec)
	}
	return g, nil
}

// sniffDelimiter picks the most frequent candidate in the header line.
func sniffDelimiter(text []byte) rune {
	line := string(text)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
