package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginTop(1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

func render(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		}).
		String()
}

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// NoData renders the placeholder shown instead of an empty table.
func NoData() string { return mutedStyle.Render("No data yet. Supply at least one recognized source.") }

// RenderSummary renders the per-country statistics table.
func RenderSummary(s *analysis.Summary) string {
	if s.Empty() {
		return NoData()
	}
	headers := append([]string{"Country"}, s.Columns...)
	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		row := []string{r.Label}
		for _, c := range s.Columns {
			row = append(row, analysis.FormatValue(r.Values[c]))
		}
		rows = append(rows, row)
	}
	return render(headers, rows)
}

// RenderRanking renders the mean GHI ranking plus the best-site line.
func RenderRanking(r *analysis.Ranking) string {
	if r == nil || r.NoData {
		return NoData()
	}
	rows := make([][]string, 0, len(r.Entries))
	for i, e := range r.Entries {
		rows = append(rows, []string{e.Country, fmt.Sprintf("%d", i+1), analysis.FormatValue(e.MeanGHI)})
	}
	out := render([]string{"Country", "Rank", "Mean GHI (W/m²)"}, rows)
	if best, ok := r.Best(); ok {
		out += "\n" + bestStyle.Render(fmt.Sprintf("Best site: %s (%.2f W/m²)", best.Country, best.MeanGHI))
	}
	return out
}

// RenderDistribution renders per-country box statistics.
func RenderDistribution(d *analysis.Distribution) string {
	if d == nil || d.NoData {
		return NoData()
	}
	rows := make([][]string, 0, len(d.Boxes))
	for _, b := range d.Boxes {
		rows = append(rows, []string{
			b.Label,
			fmt.Sprintf("%d", b.Count),
			analysis.FormatValue(b.Min),
			analysis.FormatValue(b.Q1),
			analysis.FormatValue(b.Median),
			analysis.FormatValue(b.Q3),
			analysis.FormatValue(b.Max),
			analysis.FormatValue(b.LowerWhisker) + " to " + analysis.FormatValue(b.UpperWhisker),
			fmt.Sprintf("%d", b.Outliers),
		})
	}
	headers := []string{"Country", "n", "Min", "Q1", "Median", "Q3", "Max", "Whiskers", "Outliers"}
	return render(headers, rows)
}

// RenderHead renders the leading records of the combined table.
func RenderHead(recs []dataset.Record) string {
	if len(recs) == 0 {
		return NoData()
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.Index,
			analysis.FormatValue(r.GHI),
			analysis.FormatValue(r.DNI),
			analysis.FormatValue(r.DHI),
			r.Label,
		})
	}
	return render([]string{"Timestamp", "GHI", "DNI", "DHI", "Country"}, rows)
}

// RenderCounts renders "Benin: 3, Togo: 2" in label order.
func RenderCounts(t *dataset.Table) string {
	counts := t.Count()
	parts := make([]string, 0, len(counts))
	for _, l := range t.Labels() {
		parts = append(parts, fmt.Sprintf("%s: %d", l, counts[l]))
	}
	return strings.Join(parts, ", ")
}
