package export

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
	"github.com/KaramelBytes/solarsite-cli/internal/parser"
)

func sample() *dataset.Table {
	return dataset.NewTable([]string{"Benin", "Togo"}, []dataset.Record{
		{Index: "2021-08-09 10:00", GHI: 512.5, DNI: 300, DHI: 120, Label: "Benin"},
		{Index: "2021-08-09 10:01", GHI: 480, DNI: math.NaN(), DHI: 118.25, Label: "Togo"},
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), CSV); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%d\n%s", len(lines), buf.String())
	}
	if lines[0] != "Timestamp,GHI,DNI,DHI,Country" {
		t.Fatalf("header=%q", lines[0])
	}
	if lines[2] != "2021-08-09 10:01,480,,118.25,Togo" {
		t.Fatalf("row=%q", lines[2])
	}
}

func TestWriteJSONNullsMissing(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), JSON); err != nil {
		t.Fatalf("write: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 2 || rows[1]["DNI"] != nil || rows[0]["GHI"] != 512.5 || rows[1]["Country"] != "Togo" {
		t.Fatalf("rows=%v", rows)
	}
}

func TestWriteParquetDecodes(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), Parquet); err != nil {
		t.Fatalf("write: %v", err)
	}
	g, err := parser.Decode("combined.parquet", buf.Bytes(), parser.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Rows) != 2 || len(g.Header) != 4 {
		t.Fatalf("grid=%+v", g)
	}
	if g.Rows[0][0] != "2021-08-09 10:00" || g.Rows[0][1] != "512.5" {
		t.Fatalf("row0=%v", g.Rows[0])
	}
	if g.Rows[1][2] != "" {
		t.Fatalf("missing DNI should be written as null, got %q", g.Rows[1][2])
	}
}

func TestWriteFileByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "combined.csv")
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("not written: %v", err)
	}
	if err := WriteFile(filepath.Join(dir, "combined.xlsx"), sample()); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
