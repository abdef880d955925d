package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/solarsite-cli/internal/parser"
)

// Source is one named byte stream, e.g. a file on disk or an upload.
type Source struct {
	Name string
	Data []byte
}

// LabelRule maps a case-insensitive name substring to a label.
type LabelRule struct {
	Match string
	Label string
}

// Options controls ingestion.
type Options struct {
	// Labels is the lookup table, scanned in order; first match wins.
	Labels []LabelRule
	// Delimiter for delimited text. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// MaxRows limits rows kept per source; 0 means unlimited.
	MaxRows int
	// Workers bounds concurrent source parsing; <= 0 means 1.
	Workers int
}

// DefaultLabels is the fixed country table for this deployment.
func DefaultLabels() []LabelRule {
	return []LabelRule{
		{Match: "benin", Label: "Benin"},
		{Match: "sierra_leone", Label: "Sierra Leone"},
		{Match: "togo", Label: "Togo"},
	}
}

// DefaultOptions returns reasonable defaults for ingestion.
func DefaultOptions() Options {
	return Options{Labels: DefaultLabels(), Workers: 4}
}

// Expected returns the distinct labels in rule order.
func (o Options) Expected() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range o.Labels {
		if !seen[r.Label] {
			seen[r.Label] = true
			out = append(out, r.Label)
		}
	}
	return out
}

// ResolveLabel matches the base name of a source against rules.
func ResolveLabel(name string, rules []LabelRule) (string, bool) {
	base := strings.ToLower(filepath.Base(name))
	for _, r := range rules {
		if r.Match != "" && strings.Contains(base, strings.ToLower(r.Match)) {
			return r.Label, true
		}
	}
	return "", false
}

// Result is the best-effort output of an ingestion plus everything worth
// telling the user about it.
type Result struct {
	Table       *Table
	Outcome     Outcome
	Diagnostics []Diagnostic
}

// Missing returns the expected labels absent from the table.
func (r *Result) Missing() []string {
	for _, d := range r.Diagnostics {
		if d.Kind == KindPartialCoverage {
			return d.Missing
		}
	}
	return nil
}

// Problems returns warning and error diagnostics.
func (r *Result) Problems() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity != SeverityInfo {
			out = append(out, d)
		}
	}
	return out
}

type parsedSource struct {
	label string
	recs  []Record
	diags []Diagnostic
	ok    bool
}

// Ingest parses, labels and concatenates sources. Per-source failures become
// diagnostics; the returned error is only set when ctx is done.
func Ingest(ctx context.Context, sources []Source, opt Options) (*Result, error) {
	workers := opt.Workers
	if workers <= 0 {
		workers = 1
	}
	parsed := make([]parsedSource, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		label, ok := ResolveLabel(src.Name, opt.Labels)
		if !ok {
			err := &SourceError{Source: src.Name, Kind: ErrUnrecognizedSource}
			parsed[i].diags = []Diagnostic{{
				Kind:     KindUnrecognizedSource,
				Severity: SeverityWarning,
				Source:   src.Name,
				Message:  "name matches no configured label; skipped",
				Err:      err,
			}}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseSource(src, label, opt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	var recs []Record
	bySource := map[string][]string{}
	for i, p := range parsed {
		res.Diagnostics = append(res.Diagnostics, p.diags...)
		if !p.ok {
			continue
		}
		bySource[p.label] = append(bySource[p.label], sources[i].Name)
		recs = append(recs, p.recs...)
	}
	expected := opt.Expected()
	res.Table = NewTable(expected, recs)

	for _, label := range res.Table.Labels() {
		if names := bySource[label]; len(names) > 1 {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     KindDuplicateLabel,
				Severity: SeverityWarning,
				Label:    label,
				Message:  fmt.Sprintf("%d sources map to %s and were merged: %s", len(names), label, strings.Join(names, ", ")),
			})
		}
	}

	if res.Table.Empty() {
		res.Outcome = OutcomeNoData
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:     KindNoData,
			Severity: SeverityInfo,
			Message:  "no data yet: no source yielded rows",
		})
		return res, nil
	}
	counts := res.Table.Count()
	var missing []string
	for _, l := range expected {
		if counts[l] == 0 {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		res.Outcome = OutcomePartial
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:     KindPartialCoverage,
			Severity: SeverityWarning,
			Message:  "partial coverage: missing " + strings.Join(missing, ", "),
			Missing:  missing,
		})
		return res, nil
	}
	res.Outcome = OutcomeComplete
	res.Diagnostics = append(res.Diagnostics, Diagnostic{
		Kind:     KindComplete,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("loaded %d records for %s", res.Table.Len(), strings.Join(res.Table.Labels(), ", ")),
	})
	return res, nil
}

func malformed(src, label string, err error) parsedSource {
	return parsedSource{diags: []Diagnostic{{
		Kind:     KindMalformedSource,
		Severity: SeverityError,
		Source:   src,
		Label:    label,
		Message:  err.Error(),
		Err:      &SourceError{Source: src, Kind: ErrMalformedSource, Err: err},
	}}}
}

// parseSource decodes one source: first column is the index, GHI/DNI/DHI are
// required, everything else is dropped.
func parseSource(src Source, label string, opt Options) parsedSource {
	grid, err := parser.Decode(src.Name, src.Data, parser.Options{Delimiter: opt.Delimiter})
	if err != nil {
		return malformed(src.Name, label, err)
	}
	if len(grid.Header) < 2 {
		return malformed(src.Name, label, errors.New("expected an index column followed by metric columns"))
	}
	cols := map[Metric]int{}
	for j := 1; j < len(grid.Header); j++ {
		m := Metric(columnName(grid.Header[j]))
		if _, seen := cols[m]; m.Valid() && !seen {
			cols[m] = j
		}
	}
	var missing []string
	for _, m := range Metrics {
		if _, ok := cols[m]; !ok {
			missing = append(missing, string(m))
		}
	}
	if len(missing) > 0 {
		return malformed(src.Name, label, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", ")))
	}

	out := parsedSource{label: label, ok: true}
	rows := grid.Rows
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		out.diags = append(out.diags, Diagnostic{
			Kind:     KindTruncated,
			Severity: SeverityWarning,
			Source:   src.Name,
			Label:    label,
			Message:  fmt.Sprintf("processed only %d/%d rows due to max_rows", opt.MaxRows, len(rows)),
		})
		rows = rows[:opt.MaxRows]
	}
	out.recs = make([]Record, 0, len(rows))
	var badTime, badValue int
	for _, row := range rows {
		rec := Record{Index: strings.TrimSpace(row[0]), Label: label}
		if ts, ok := parseTimeMaybe(row[0]); ok {
			rec.Timestamp = ts
		} else {
			badTime++
		}
		for _, m := range Metrics {
			j := cols[m]
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			v, ok := parseReading(cell)
			if !ok {
				badValue++
			}
			switch m {
			case GHI:
				rec.GHI = v
			case DNI:
				rec.DNI = v
			case DHI:
				rec.DHI = v
			}
		}
		out.recs = append(out.recs, rec)
	}
	if badValue > 0 {
		out.diags = append(out.diags, Diagnostic{
			Kind:     KindCoercedValues,
			Severity: SeverityWarning,
			Source:   src.Name,
			Label:    label,
			Message:  fmt.Sprintf("%d metric value(s) were not numeric and are treated as missing", badValue),
		})
	}
	if badTime > 0 {
		out.diags = append(out.diags, Diagnostic{
			Kind:     KindCoercedValues,
			Severity: SeverityInfo,
			Source:   src.Name,
			Label:    label,
			Message:  fmt.Sprintf("%d index value(s) could not be read as date/time", badTime),
		})
	}
	return out
}
