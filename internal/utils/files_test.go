package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"togo.csv", "benin.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ExpandInputs([]string{
		filepath.Join(dir, "*.csv"),
		filepath.Join(dir, "benin.csv"),
		filepath.Join(dir, "missing.csv"),
		dir,
	})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != "benin.csv" || filepath.Base(got[1]) != "togo.csv" {
		t.Fatalf("got %v", got)
	}
	if _, err := ExpandInputs([]string{filepath.Join(dir, "*.parquet")}); !errors.Is(err, ErrNoInputs) {
		t.Fatalf("err=%v want ErrNoInputs", err)
	}
}

func TestSafeWriteFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.md")
	if err := SafeWriteFile(path, []byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "ok" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
