package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

// ErrUnknownMetric is returned when a caller asks for a metric other than
// GHI, DNI or DHI.
var ErrUnknownMetric = errors.New("unknown metric")

// ParseMetric validates a user-supplied metric name.
func ParseMetric(s string) (dataset.Metric, error) {
	m, ok := dataset.LookupMetric(s)
	if !ok {
		return "", fmt.Errorf("%w: %q (allowed: GHI, DNI, DHI)", ErrUnknownMetric, s)
	}
	return m, nil
}

// BoxStats describes one label's distribution the way a box plot draws it.
type BoxStats struct {
	Label        string
	Count        int
	Min          float64
	Q1           float64
	Median       float64
	Q3           float64
	Max          float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     int
}

// IQR is the interquartile range.
func (b BoxStats) IQR() float64 { return b.Q3 - b.Q1 }

// Distribution is the daylight-only view of one metric.
type Distribution struct {
	Metric dataset.Metric
	Table  *dataset.Table
	Boxes  []BoxStats
	NoData bool
}

// FilterForDistribution keeps rows whose metric reading is strictly positive
// and computes per-label box statistics over them. Missing readings are
// dropped. Filtering an already filtered table returns the same rows.
func FilterForDistribution(t *dataset.Table, metric dataset.Metric) (*Distribution, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, string(metric))
	}
	filtered := t.Filter(func(r dataset.Record) bool {
		return r.Value(metric) > 0
	})
	d := &Distribution{Metric: metric, Table: filtered, NoData: filtered.Empty()}
	if d.NoData {
		return d, nil
	}
	groups := groupBy(filtered)
	for _, label := range filtered.Labels() {
		d.Boxes = append(d.Boxes, boxStats(label, groups[label].metrics[metric].sorted()))
	}
	return d, nil
}

// Box returns the statistics for label.
func (d *Distribution) Box(label string) (BoxStats, bool) {
	if d == nil {
		return BoxStats{}, false
	}
	for _, b := range d.Boxes {
		if b.Label == label {
			return b, true
		}
	}
	return BoxStats{}, false
}

func boxStats(label string, sorted []float64) BoxStats {
	b := BoxStats{Label: label, Count: len(sorted)}
	if len(sorted) == 0 {
		nan := math.NaN()
		b.Min, b.Q1, b.Median, b.Q3, b.Max = nan, nan, nan, nan, nan
		b.LowerWhisker, b.UpperWhisker = nan, nan
		return b
	}
	b.Min = sorted[0]
	b.Max = sorted[len(sorted)-1]
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)
	lo := b.Q1 - 1.5*b.IQR()
	hi := b.Q3 + 1.5*b.IQR()
	// whiskers reach the most extreme readings inside the fences
	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, v := range sorted {
		if v < lo || v > hi {
			b.Outliers++
			continue
		}
		if v < b.LowerWhisker {
			b.LowerWhisker = v
		}
		if v > b.UpperWhisker {
			b.UpperWhisker = v
		}
	}
	return b
}

// FilterLabels returns the rows whose label is in labels. An empty selection
// yields an empty table.
func FilterLabels(t *dataset.Table, labels []string) *dataset.Table {
	keep := make(map[string]bool, len(labels))
	for _, l := range labels {
		keep[l] = true
	}
	return t.Filter(func(r dataset.Record) bool { return keep[r.Label] })
}
