package parser_test

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/parquet-go/parquet-go"
	"github.com/pierrec/lz4/v4"

	"github.com/KaramelBytes/solarsite-cli/internal/parser"
)

const sample = "Timestamp,GHI,DNI,DHI,ModA\n" +
	"2021-08-09 00:01,0,0,0,0\n" +
	"2021-08-09 12:00,812.5,640.1,210.3,799\n"

func TestDecodeCSV(t *testing.T) {
	g, err := parser.Decode("benin_clean.csv", []byte(sample), parser.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Header) != 5 || g.Header[1] != "GHI" {
		t.Fatalf("unexpected header: %v", g.Header)
	}
	if len(g.Rows) != 2 || g.Rows[1][1] != "812.5" {
		t.Fatalf("unexpected rows: %v", g.Rows)
	}
}

func TestDecodeSniffsSemicolonAndTab(t *testing.T) {
	cases := map[string]string{
		"semicolon": "Timestamp;GHI;DNI;DHI\n2021-01-01;1;2;3\n",
		"tab":       "Timestamp\tGHI\tDNI\tDHI\n2021-01-01\t1\t2\t3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			g, err := parser.Decode("togo.txt", []byte(body), parser.Options{})
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(g.Header) != 4 || g.Rows[0][3] != "3" {
				t.Fatalf("unexpected grid: %+v", g)
			}
		})
	}
}

func TestDecodeRejectsBinary(t *testing.T) {
	_, err := parser.Decode("benin.csv", []byte{0xff, 0xfe, 0x00, 0x41}, parser.Options{})
	if !errors.Is(err, parser.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	_, err := parser.Decode("benin.csv", nil, parser.Options{})
	if !errors.Is(err, parser.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestDecodeCompressed(t *testing.T) {
	var gz bytes.Buffer
	gw := pgzip.NewWriter(&gz)
	if _, err := gw.Write([]byte(sample)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	zst := enc.EncodeAll([]byte(sample), nil)
	_ = enc.Close()

	var lz bytes.Buffer
	lw := lz4.NewWriter(&lz)
	if _, err := lw.Write([]byte(sample)); err != nil {
		t.Fatalf("lz4 write: %v", err)
	}
	if err := lw.Close(); err != nil {
		t.Fatalf("lz4 close: %v", err)
	}

	cases := []struct {
		name string
		data []byte
	}{
		{"benin.csv.gz", gz.Bytes()},
		{"benin.csv.zst", zst},
		{"benin.csv.lz4", lz.Bytes()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g, err := parser.Decode(c.name, c.data, parser.Options{})
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(g.Rows) != 2 || g.Rows[1][2] != "640.1" {
				t.Fatalf("unexpected rows: %v", g.Rows)
			}
		})
	}
}

func TestDecompressPassthrough(t *testing.T) {
	name, data, err := parser.Decompress("Togo_Clean.CSV", []byte("x"))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if name != "togo_clean.csv" || string(data) != "x" {
		t.Fatalf("unexpected passthrough: %q %q", name, data)
	}
}

func ptr(v float64) *float64 { return &v }

func TestDecodeParquet(t *testing.T) {
	rows := []parser.ParquetRow{
		{Timestamp: "2021-08-09 12:00", GHI: ptr(812.5), DNI: ptr(640.1), DHI: ptr(210.3)},
		{Timestamp: "2021-08-09 13:00", GHI: nil, DNI: ptr(1), DHI: ptr(2)},
	}
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[parser.ParquetRow](&buf)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close parquet: %v", err)
	}
	g, err := parser.Decode("togo.parquet", buf.Bytes(), parser.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Header) != 4 || len(g.Rows) != 2 {
		t.Fatalf("unexpected grid: %+v", g)
	}
	if g.Rows[0][1] != "812.5" {
		t.Fatalf("GHI cell=%q", g.Rows[0][1])
	}
	if g.Rows[1][1] != "" {
		t.Fatalf("null GHI should decode as an empty cell, got %q", g.Rows[1][1])
	}
	if g.Rows[1][2] != "1" {
		t.Fatalf("DNI cell=%q", g.Rows[1][2])
	}
}

// Files from other writers may declare readings required and carry NaN.
func TestDecodeParquetRequiredColumns(t *testing.T) {
	type requiredRow struct {
		Timestamp string  `parquet:"Timestamp"`
		GHI       float64 `parquet:"GHI"`
		DNI       float64 `parquet:"DNI"`
		DHI       float64 `parquet:"DHI"`
	}
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[requiredRow](&buf)
	if _, err := w.Write([]requiredRow{
		{Timestamp: "2021-08-09 12:00", GHI: 0, DNI: 3, DHI: 4},
		{Timestamp: "2021-08-09 13:00", GHI: math.NaN(), DNI: 1, DHI: 2},
	}); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close parquet: %v", err)
	}
	g, err := parser.Decode("benin.parquet", buf.Bytes(), parser.Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Rows[0][1] != "0" {
		t.Fatalf("real zero should stay zero, got %q", g.Rows[0][1])
	}
	if f, _ := strconv.ParseFloat(g.Rows[1][1], 64); !math.IsNaN(f) {
		t.Fatalf("expected NaN cell, got %q", g.Rows[1][1])
	}
}
