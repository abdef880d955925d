package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
)

// maxDecompressed bounds inflated sources.
const maxDecompressed = 512 << 20

// Decompress strips one compression suffix (.gz, .zst, .lz4) from name and
// inflates content accordingly. Other names pass through untouched.
func Decompress(name string, content []byte) (string, []byte, error) {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	var r io.Reader
	switch ext {
	case ".gz", ".gzip":
		gz, err := pgzip.NewReader(bytes.NewReader(content))
		if err != nil {
			return "", nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(bytes.NewReader(content))
		if err != nil {
			return "", nil, fmt.Errorf("open zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	case ".lz4":
		r = lz4.NewReader(bytes.NewReader(content))
	default:
		return lower, content, nil
	}
	out, err := io.ReadAll(io.LimitReader(r, maxDecompressed+1))
	if err != nil {
		return "", nil, fmt.Errorf("decompress %s: %w", ext, err)
	}
	if len(out) > maxDecompressed {
		return "", nil, fmt.Errorf("decompress %s: content exceeds %d bytes", ext, maxDecompressed)
	}
	return strings.TrimSuffix(lower, ext), out, nil
}
