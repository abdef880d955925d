package cmd

import (
	"fmt"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/export"
	"github.com/KaramelBytes/solarsite-cli/internal/ui"
	"github.com/KaramelBytes/solarsite-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumFormat    string
	sumCountries []string
)

type summaryJSON struct {
	Country string              `json:"country"`
	Count   int                 `json:"count"`
	Values  map[string]*float64 `json:"values"`
}

var summaryCmd = &cobra.Command{
	Use:   "summary <files...>",
	Short: "Per-country mean, median and standard deviation of GHI, DNI and DHI",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch sumFormat {
		case "table", "markdown", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown|json)", sumFormat)
		}
		res, err := ingestArgs(cmd, args)
		if err != nil {
			return err
		}
		s := analysis.Summarize(selectCountries(cmd, res.Table, sumCountries))
		out := cmd.OutOrStdout()
		switch sumFormat {
		case "json":
			rows := make([]summaryJSON, 0, len(s.Rows))
			for _, r := range s.Rows {
				vals := make(map[string]*float64, len(r.Values))
				for k, v := range r.Values {
					vals[k] = export.Nullable(v)
				}
				rows = append(rows, summaryJSON{Country: r.Label, Count: r.Count, Values: vals})
			}
			b, err := utils.PrettyJSON(map[string]any{
				"outcome": res.Outcome,
				"columns": s.Columns,
				"rows":    rows,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		case "markdown":
			fmt.Fprint(out, s.Markdown())
		default:
			ui.PrintDiagnostics(out, res)
			fmt.Fprintln(out, ui.Title("Summary Statistics"))
			fmt.Fprintln(out, ui.RenderSummary(s))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&sumFormat, "format", "table", "output format: table|markdown|json")
	summaryCmd.Flags().StringSliceVar(&sumCountries, "countries", nil, "only these countries (comma-separated)")
}
