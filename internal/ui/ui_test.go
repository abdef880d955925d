package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

func sampleTable() *dataset.Table {
	return dataset.NewTable([]string{"Benin", "Sierra Leone", "Togo"}, []dataset.Record{
		{Index: "t0", GHI: 100, DNI: 50, DHI: 25, Label: "Benin"},
		{Index: "t1", GHI: 200, DNI: 100, DHI: 50, Label: "Benin"},
		{Index: "t2", GHI: 300, DNI: 150, DHI: 75, Label: "Togo"},
	})
}

func TestRenderSummaryAndRanking(t *testing.T) {
	tbl := sampleTable()
	s := RenderSummary(analysis.Summarize(tbl))
	for _, want := range []string{"Country", "GHI Mean (W/m²)", "Benin", "150.00", "Togo"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
	r := RenderRanking(analysis.Rank(tbl))
	if !strings.Contains(r, "Best site: Togo (300.00 W/m²)") {
		t.Fatalf("ranking missing best site:\n%s", r)
	}
	if strings.Index(r, "Togo") > strings.Index(r, "Benin") {
		t.Fatalf("Togo should rank above Benin:\n%s", r)
	}
}

func TestRenderEmptyShowsPlaceholder(t *testing.T) {
	empty := dataset.NewTable(nil, nil)
	d, _ := analysis.FilterForDistribution(empty, dataset.GHI)
	for _, s := range []string{
		RenderSummary(analysis.Summarize(empty)),
		RenderRanking(analysis.Rank(empty)),
		RenderDistribution(d),
		RenderHead(nil),
	} {
		if !strings.Contains(s, "No data yet") {
			t.Fatalf("expected placeholder, got %q", s)
		}
	}
}

func TestPrintDiagnosticsDistinguishesOutcomes(t *testing.T) {
	color.NoColor = true
	res := &dataset.Result{Diagnostics: []dataset.Diagnostic{
		{Kind: dataset.KindNoData, Severity: dataset.SeverityInfo, Message: "no data yet"},
		{Kind: dataset.KindPartialCoverage, Severity: dataset.SeverityWarning, Message: "partial coverage: missing Togo"},
		{Kind: dataset.KindMalformedSource, Severity: dataset.SeverityError, Source: "benin.csv", Message: "missing required column(s): DNI"},
	}}
	var buf bytes.Buffer
	PrintDiagnostics(&buf, res)
	out := buf.String()
	for _, want := range []string{"ℹ no data yet", "⚠ partial coverage", "✗ benin.csv: missing required column(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCounts(t *testing.T) {
	if got := RenderCounts(sampleTable()); got != "Benin: 2, Togo: 1" {
		t.Fatalf("counts=%q", got)
	}
}
