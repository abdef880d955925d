package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
	"github.com/KaramelBytes/solarsite-cli/internal/utils"
	"github.com/spf13/cobra"
)

// ingestOptions translates the loaded config into ingestion options.
func ingestOptions() (dataset.Options, error) {
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return dataset.Options{}, err
	}
	opt := dataset.Options{Delimiter: delim, MaxRows: cfg.MaxRows, Workers: cfg.Workers}
	for _, r := range cfg.Labels {
		opt.Labels = append(opt.Labels, dataset.LabelRule{Match: r.Match, Label: r.Label})
	}
	return opt, nil
}

func newIngestor() (*dataset.Ingestor, error) {
	opt, err := ingestOptions()
	if err != nil {
		return nil, err
	}
	return dataset.NewIngestor(opt, cfg.CacheEntries, logger), nil
}

// readSources expands globs and reads every matched file.
func readSources(args []string) ([]dataset.Source, error) {
	files, err := utils.ExpandInputs(args)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Source, 0, len(files))
	for _, path := range files {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		out = append(out, dataset.Source{Name: path, Data: b})
	}
	return out, nil
}

// ingestArgs runs the full ingestion for a command's positional arguments.
func ingestArgs(cmd *cobra.Command, args []string) (*dataset.Result, error) {
	sources, err := readSources(args)
	if err != nil {
		return nil, err
	}
	ing, err := newIngestor()
	if err != nil {
		return nil, err
	}
	return ing.Ingest(cmd.Context(), sources)
}

// selectCountries narrows t when --countries was given.
func selectCountries(cmd *cobra.Command, t *dataset.Table, countries []string) *dataset.Table {
	if !cmd.Flags().Changed("countries") {
		return t
	}
	var labels []string
	for _, c := range countries {
		if c = strings.TrimSpace(c); c != "" {
			labels = append(labels, c)
		}
	}
	return analysis.FilterLabels(t, labels)
}
