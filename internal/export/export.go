package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
	"github.com/KaramelBytes/solarsite-cli/internal/parser"
	"github.com/KaramelBytes/solarsite-cli/internal/utils"
)

// Format is an export file format.
type Format string

const (
	CSV     Format = "csv"
	JSON    Format = "json"
	Parquet Format = "parquet"
)

// Columns is the combined-table export layout.
var Columns = []string{"Timestamp", "GHI", "DNI", "DHI", "Country"}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".json":
		return JSON, nil
	case ".parquet":
		return Parquet, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use .csv, .json or .parquet)", filepath.Ext(path))
	}
}

// Row is the JSON shape of one record. Missing readings are null.
type Row struct {
	Timestamp string   `json:"Timestamp"`
	GHI       *float64 `json:"GHI"`
	DNI       *float64 `json:"DNI"`
	DHI       *float64 `json:"DHI"`
	Country   string   `json:"Country"`
}

// Rows converts the table to JSON rows.
func Rows(t *dataset.Table) []Row {
	recs := t.Records()
	out := make([]Row, 0, len(recs))
	for _, r := range recs {
		out = append(out, Row{
			Timestamp: timestamp(r),
			GHI:       Nullable(r.GHI),
			DNI:       Nullable(r.DNI),
			DHI:       Nullable(r.DHI),
			Country:   r.Label,
		})
	}
	return out
}

// Nullable maps NaN to nil so it encodes as JSON null.
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Write encodes the table to w.
func Write(w io.Writer, t *dataset.Table, f Format) error {
	switch f {
	case CSV:
		return writeCSV(w, t)
	case JSON:
		b, err := utils.PrettyJSON(Rows(t))
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case Parquet:
		return writeParquet(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteFile encodes the table in the format implied by path and writes it
// atomically.
func WriteFile(path string, t *dataset.Table) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, t, f); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func writeCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range t.Records() {
		row := []string{timestamp(r), cell(r.GHI), cell(r.DNI), cell(r.DHI), r.Label}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeParquet(w io.Writer, t *dataset.Table) error {
	pw := parquet.NewGenericWriter[parser.ParquetRow](w)
	recs := t.Records()
	rows := make([]parser.ParquetRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, parser.ParquetRow{
			Timestamp: timestamp(r),
			GHI:       Nullable(r.GHI),
			DNI:       Nullable(r.DNI),
			DHI:       Nullable(r.DHI),
			Country:   r.Label,
		})
	}
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// timestamp keeps the source's own index text so re-ingesting an export
// reproduces it.
func timestamp(r dataset.Record) string {
	if r.Index != "" {
		return r.Index
	}
	if !r.Timestamp.IsZero() {
		return r.Timestamp.Format("2006-01-02 15:04:05")
	}
	return ""
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
