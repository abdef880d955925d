package cmd

import (
	"fmt"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/ui"
	"github.com/spf13/cobra"
)

var (
	distMetric    string
	distCountries []string
)

var distributionCmd = &cobra.Command{
	Use:   "distribution <files...>",
	Short: "Daylight distribution (metric > 0) per country as box statistics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := analysis.ParseMetric(distMetric)
		if err != nil {
			return err
		}
		res, err := ingestArgs(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ui.PrintDiagnostics(out, res)
		d, err := analysis.FilterForDistribution(selectCountries(cmd, res.Table, distCountries), metric)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.Title(fmt.Sprintf("%s Distribution (%s > 0)", metric, metric)))
		fmt.Fprintln(out, ui.RenderDistribution(d))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(distributionCmd)
	distributionCmd.Flags().StringVarP(&distMetric, "metric", "m", "GHI", "metric to plot: GHI|DNI|DHI")
	distributionCmd.Flags().StringSliceVar(&distCountries, "countries", nil, "only these countries (comma-separated)")
}
