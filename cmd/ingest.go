package cmd

import (
	"fmt"

	"github.com/KaramelBytes/solarsite-cli/internal/ui"
	"github.com/spf13/cobra"
)

var ingHead int

var ingestCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "Load and combine irradiance files, then report coverage",
	Long: `Ingest resolves each file to a country by name, parses it, and combines the
rows. Unrecognized or malformed files are reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := ingestArgs(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ui.PrintDiagnostics(out, res)
		if res.Table.Empty() {
			return nil
		}
		ui.PrintBold(out, "Records: %d (%s)", res.Table.Len(), ui.RenderCounts(res.Table))
		fmt.Fprintf(out, "Snapshot: %s\n", res.Table.ID)
		n := ingHead
		if !cmd.Flags().Changed("head") {
			n = cfg.HeadRows
		}
		if n > 0 {
			fmt.Fprintln(out, ui.RenderHead(res.Table.Head(n)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().IntVar(&ingHead, "head", 10, "preview the first N combined rows (0 disables)")
}
