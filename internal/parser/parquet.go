package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ParquetRow is the columnar layout for irradiance data. Exports write it and
// parquet sources are read through it. Readings are optional so that a null
// survives as a missing cell instead of converting to zero.
type ParquetRow struct {
	Timestamp string   `parquet:"Timestamp"`
	GHI       *float64 `parquet:"GHI,optional"`
	DNI       *float64 `parquet:"DNI,optional"`
	DHI       *float64 `parquet:"DHI,optional"`
	Country   string   `parquet:"Country,optional"`
}

type parquetDecoder struct{}

func (parquetDecoder) CanDecode(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".parquet")
}

func (parquetDecoder) Decode(content []byte, _ Options) (*Grid, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	// Only columns that exist in the file are surfaced; the ingestor reports
	// the missing metrics.
	header := []string{"Timestamp"}
	for _, col := range []string{"GHI", "DNI", "DHI"} {
		if _, ok := pf.Schema().Lookup(col); ok {
			header = append(header, col)
		}
	}
	g := &Grid{Header: header}

	reader := parquet.NewGenericReader[ParquetRow](pf)
	defer reader.Close()
	buf := make([]ParquetRow, 1000)
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			g.Rows = append(g.Rows, parquetCells(buf[i], header))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return g, nil
}

func parquetCells(r ParquetRow, header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		switch h {
		case "Timestamp":
			out[i] = r.Timestamp
		case "GHI":
			out[i] = readingCell(r.GHI)
		case "DNI":
			out[i] = readingCell(r.DNI)
		case "DHI":
			out[i] = readingCell(r.DHI)
		}
	}
	return out
}

// readingCell renders a null reading as an empty cell.
func readingCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
