package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

// Report bundles every derived view of one ingestion.
type Report struct {
	SnapshotID   string
	Outcome      dataset.Outcome
	Records      int
	Labels       []string
	Missing      []string
	Diagnostics  []dataset.Diagnostic
	Summary      *Summary
	Ranking      *Ranking
	Distribution *Distribution
}

// BuildReport derives summary, ranking and the metric's distribution from res.
func BuildReport(res *dataset.Result, metric dataset.Metric) (*Report, error) {
	dist, err := FilterForDistribution(res.Table, metric)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Outcome:      res.Outcome,
		Records:      res.Table.Len(),
		Labels:       res.Table.Labels(),
		Missing:      res.Missing(),
		Diagnostics:  res.Diagnostics,
		Summary:      Summarize(res.Table),
		Ranking:      Rank(res.Table),
		Distribution: dist,
	}
	if res.Table != nil {
		r.SnapshotID = res.Table.ID.String()
	}
	return r, nil
}

// Markdown renders a compact report suitable for sharing as a standalone doc.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SITE COMPARISON]\n")
	if r.SnapshotID != "" {
		b.WriteString(fmt.Sprintf("Snapshot: %s\n", r.SnapshotID))
	}
	b.WriteString(fmt.Sprintf("Outcome: %s\n", r.Outcome))
	b.WriteString(fmt.Sprintf("Records: %d\n", r.Records))
	if len(r.Labels) > 0 {
		b.WriteString(fmt.Sprintf("Countries: %s\n", strings.Join(r.Labels, ", ")))
	}
	if len(r.Missing) > 0 {
		b.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(r.Missing, ", ")))
	}
	b.WriteString("\n")

	if r.Outcome == dataset.OutcomeNoData {
		b.WriteString("No data yet. Supply at least one recognized source.\n")
		writeNotes(&b, r.Diagnostics)
		return b.String()
	}

	b.WriteString("[SUMMARY]\n")
	b.WriteString(r.Summary.Markdown())
	b.WriteString("\n")

	b.WriteString("[RANKING]\n")
	b.WriteString(r.Ranking.Markdown())
	if best, ok := r.Ranking.Best(); ok {
		b.WriteString(fmt.Sprintf("\nBest site: %s (%.2f W/m²)\n", best.Country, best.MeanGHI))
	}
	b.WriteString("\n")

	if r.Distribution != nil {
		b.WriteString(fmt.Sprintf("[DISTRIBUTION: %s > 0]\n", r.Distribution.Metric))
		b.WriteString(r.Distribution.Markdown())
		b.WriteString("\n")
	}
	writeNotes(&b, r.Diagnostics)
	return b.String()
}

func writeNotes(b *strings.Builder, diags []dataset.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	b.WriteString("[NOTES]\n")
	for _, d := range diags {
		b.WriteString("- ")
		b.WriteString(d.String())
		b.WriteString("\n")
	}
}

// Markdown renders the summary as a pipe table.
func (s *Summary) Markdown() string {
	if s.Empty() {
		return "_no data_\n"
	}
	var b strings.Builder
	b.WriteString("| Country | " + strings.Join(s.Columns, " | ") + " |\n")
	b.WriteString("|---" + strings.Repeat("|---:", len(s.Columns)) + "|\n")
	for _, row := range s.Rows {
		b.WriteString("| " + row.Label)
		for _, c := range s.Columns {
			b.WriteString(" | " + FormatValue(row.Values[c]))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Markdown renders the ranking as a pipe table.
func (r *Ranking) Markdown() string {
	if r == nil || r.NoData {
		return "_no data_\n"
	}
	var b strings.Builder
	b.WriteString("| Rank | Country | Mean GHI (W/m²) |\n|---:|---|---:|\n")
	for i, e := range r.Entries {
		b.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, e.Country, FormatValue(e.MeanGHI)))
	}
	return b.String()
}

// Markdown renders per-label box statistics.
func (d *Distribution) Markdown() string {
	if d == nil || d.NoData {
		return "_no data_\n"
	}
	var b strings.Builder
	b.WriteString("| Country | n | Min | Q1 | Median | Q3 | Max | Whiskers | Outliers |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---|---:|\n")
	for _, x := range d.Boxes {
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s to %s | %d |\n",
			x.Label, x.Count, FormatValue(x.Min), FormatValue(x.Q1), FormatValue(x.Median),
			FormatValue(x.Q3), FormatValue(x.Max), FormatValue(x.LowerWhisker), FormatValue(x.UpperWhisker), x.Outliers))
	}
	return b.String()
}

// FormatValue prints v with two decimals, or "n/a" when undefined.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
