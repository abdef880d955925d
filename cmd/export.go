package cmd

import (
	"errors"

	"github.com/KaramelBytes/solarsite-cli/internal/export"
	"github.com/KaramelBytes/solarsite-cli/internal/ui"
	"github.com/spf13/cobra"
)

var expOutputPath string

var exportCmd = &cobra.Command{
	Use:   "export <files...>",
	Short: "Write the combined table as CSV, JSON or Parquet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if expOutputPath == "" {
			return errors.New("--output is required")
		}
		if _, err := export.FormatFor(expOutputPath); err != nil {
			return err
		}
		res, err := ingestArgs(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ui.PrintDiagnostics(out, res)
		if err := export.WriteFile(expOutputPath, res.Table); err != nil {
			return err
		}
		ui.PrintSuccess(out, "Exported %d records to %s", res.Table.Len(), expOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&expOutputPath, "output", "o", "", "output path (.csv, .json or .parquet)")
}
