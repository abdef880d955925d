package cmd

import (
	"fmt"

	"github.com/KaramelBytes/solarsite-cli/internal/analysis"
	"github.com/KaramelBytes/solarsite-cli/internal/ui"
	"github.com/KaramelBytes/solarsite-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repOutputPath string
	repMetric     string
)

var reportCmd = &cobra.Command{
	Use:   "report <files...>",
	Short: "Write a Markdown report with summary, ranking and distribution",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := analysis.ParseMetric(repMetric)
		if err != nil {
			return err
		}
		res, err := ingestArgs(cmd, args)
		if err != nil {
			return err
		}
		rep, err := analysis.BuildReport(res, metric)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		out := cmd.OutOrStdout()
		if repOutputPath == "" {
			fmt.Fprint(out, md)
			return nil
		}
		if err := utils.SafeWriteFile(repOutputPath, []byte(md)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		ui.PrintSuccess(out, "Wrote report to %s", repOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "write the report to a file instead of stdout")
	reportCmd.Flags().StringVarP(&repMetric, "metric", "m", "GHI", "metric for the distribution section: GHI|DNI|DHI")
}
