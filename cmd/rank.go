package cmd

import (
	"fmt"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/ui"
	"github.com/spf13/cobra"
)

var rankCountries []string

var rankCmd = &cobra.Command{
	Use:   "rank <files...>",
	Short: "Rank countries by mean GHI and name the best site",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := ingestArgs(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ui.PrintDiagnostics(out, res)
		r := analysis.Rank(selectCountries(cmd, res.Table, rankCountries))
		fmt.Fprintln(out, ui.Title("Average GHI by Country"))
		fmt.Fprintln(out, ui.RenderRanking(r))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().StringSliceVar(&rankCountries, "countries", nil, "only these countries (comma-separated)")
}
