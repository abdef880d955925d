package analysis

import (
	"fmt"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

// Statistic is one of the per-metric summary statistics.
type Statistic string

const (
	Mean   Statistic = "Mean"
	Median Statistic = "Median"
	StdDev Statistic = "Std Dev"
)

// Statistics lists summary statistics in column order.
var Statistics = []Statistic{Mean, Median, StdDev}

// ColumnName returns the summary column for m and s, e.g. "GHI Mean (W/m²)".
// Spread is unitless in the dashboard, so Std Dev carries no unit suffix.
func ColumnName(m dataset.Metric, s Statistic) string {
	if s == StdDev {
		return fmt.Sprintf("%s %s", m, s)
	}
	return fmt.Sprintf("%s %s (W/m²)", m, s)
}

// SummaryColumns is the fixed column order of a Summary.
func SummaryColumns() []string {
	cols := make([]string, 0, len(dataset.Metrics)*len(Statistics))
	for _, m := range dataset.Metrics {
		for _, s := range Statistics {
			cols = append(cols, ColumnName(m, s))
		}
	}
	return cols
}

// SummaryRow holds the nine rounded statistics for one label.
type SummaryRow struct {
	Label  string
	Count  int
	Values map[string]float64
}

// Get returns the value for metric m and statistic s.
func (r SummaryRow) Get(m dataset.Metric, s Statistic) float64 {
	return r.Values[ColumnName(m, s)]
}

// Summary is keyed by label, rows in label order.
type Summary struct {
	Columns []string
	Rows    []SummaryRow
}

// Empty reports whether no label produced a row.
func (s *Summary) Empty() bool { return s == nil || len(s.Rows) == 0 }

// Row looks up the row for label.
func (s *Summary) Row(label string) (SummaryRow, bool) {
	if s == nil {
		return SummaryRow{}, false
	}
	for _, r := range s.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return SummaryRow{}, false
}

// Summarize computes mean, median and sample standard deviation of every
// metric per label, rounded to two decimals. Empty input yields an empty
// Summary. Singleton groups have NaN standard deviation.
func Summarize(t *dataset.Table) *Summary {
	out := &Summary{Columns: SummaryColumns()}
	if t.Empty() {
		return out
	}
	groups := groupBy(t)
	for _, label := range t.Labels() {
		g := groups[label]
		row := SummaryRow{Label: label, Count: g.size, Values: make(map[string]float64, len(out.Columns))}
		for _, m := range dataset.Metrics {
			a := g.metrics[m]
			row.Values[ColumnName(m, Mean)] = round2(a.Mean())
			row.Values[ColumnName(m, Median)] = round2(a.Median())
			row.Values[ColumnName(m, StdDev)] = round2(a.Std())
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

type group struct {
	size    int
	metrics map[dataset.Metric]*acc
}

func groupBy(t *dataset.Table) map[string]*group {
	groups := map[string]*group{}
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		g := groups[r.Label]
		if g == nil {
			g = &group{metrics: map[dataset.Metric]*acc{}}
			for _, m := range dataset.Metrics {
				g.metrics[m] = &acc{}
			}
			groups[r.Label] = g
		}
		g.size++
		for _, m := range dataset.Metrics {
			g.metrics[m].add(r.Value(m))
		}
	}
	return groups
}
