package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metric is one of the irradiance columns.
type Metric string

const (
	GHI Metric = "GHI"
	DNI Metric = "DNI"
	DHI Metric = "DHI"
)

// Metrics lists the required metric columns in canonical order.
var Metrics = []Metric{GHI, DNI, DHI}

// Valid reports whether m names a known metric.
func (m Metric) Valid() bool {
	switch m {
	case GHI, DNI, DHI:
		return true
	}
	return false
}

// LookupMetric resolves a metric name case-insensitively.
func LookupMetric(s string) (Metric, bool) {
	m := Metric(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.Valid()
}

// Record is one labeled measurement row. Missing metric cells are NaN.
type Record struct {
	Timestamp time.Time
	Index     string
	GHI       float64
	DNI       float64
	DHI       float64
	Label     string
}

// Value returns the record's reading for m.
func (r Record) Value(m Metric) float64 {
	switch m {
	case GHI:
		return r.GHI
	case DNI:
		return r.DNI
	case DHI:
		return r.DHI
	}
	return math.NaN()
}

// Table is the combined, labeled dataset. A Table is an immutable snapshot:
// every derivation returns a new Table.
type Table struct {
	ID       uuid.UUID
	Expected []string
	records  []Record
}

// NewTable snapshots recs. expected is the configured label order.
func NewTable(expected []string, recs []Record) *Table {
	cp := make([]Record, len(recs))
	copy(cp, recs)
	exp := make([]string, len(expected))
	copy(exp, expected)
	return &Table{ID: uuid.New(), Expected: exp, records: cp}
}

// Len returns the number of records. A nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Empty reports whether the table has no records.
func (t *Table) Empty() bool { return t.Len() == 0 }

// At returns record i.
func (t *Table) At(i int) Record { return t.records[i] }

// Records returns a copy of all records.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	cp := make([]Record, len(t.records))
	copy(cp, t.records)
	return cp
}

// Head returns up to n leading records.
func (t *Table) Head(n int) []Record {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.records) {
		n = len(t.records)
	}
	cp := make([]Record, n)
	copy(cp, t.records[:n])
	return cp
}

// Labels returns the labels present in the table, in label order: expected
// labels first in configured order, then any others by first appearance.
func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	present := map[string]bool{}
	var extra []string
	for _, r := range t.records {
		if !present[r.Label] {
			present[r.Label] = true
			extra = append(extra, r.Label)
		}
	}
	out := make([]string, 0, len(present))
	known := map[string]bool{}
	for _, l := range t.Expected {
		known[l] = true
		if present[l] {
			out = append(out, l)
		}
	}
	for _, l := range extra {
		if !known[l] {
			out = append(out, l)
		}
	}
	return out
}

// Filter returns a new snapshot holding the records for which keep is true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	if t == nil {
		return NewTable(nil, nil)
	}
	var out []Record
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return NewTable(t.Expected, out)
}

// Count returns the number of records per label.
func (t *Table) Count() map[string]int {
	out := map[string]int{}
	if t == nil {
		return out
	}
	for _, r := range t.records {
		out[r.Label]++
	}
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(%d records, labels=%v)", t.Len(), t.Labels())
}
