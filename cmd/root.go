package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/solarsite-cli/internal/config"
	"github.com/KaramelBytes/solarsite-cli/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	// Global flags
	cfgFile string
	debug   bool
	// Ingestion overrides (take precedence over config if set)
	flagDelimiter string
	flagMaxRows   int
	flagWorkers   int

	// Loaded configuration and process logger
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "solarsite",
	Short: "SolarSite CLI: compare solar irradiance across candidate sites",
	Long: `SolarSite ingests per-country irradiance exports (GHI, DNI, DHI), combines them
into one labeled table and reports per-site statistics, a mean GHI ranking and
daylight distributions.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.solarsite/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default auto)")
	rootCmd.PersistentFlags().IntVar(&flagMaxRows, "max-rows", 0, "max rows kept per source (0 = all, overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "sources parsed in parallel (overrides config)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		if _, err := cfgpkg.ParseDelimiter(flagDelimiter); err != nil {
			return err
		}
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("max-rows") && flagMaxRows >= 0 {
		cfg.MaxRows = flagMaxRows
	}
	if f.Changed("workers") && flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if debug {
		level = slog.LevelDebug
	}
	logger = logging.New(cmd.ErrOrStderr(), cfg.AppEnv, level, Version)
	slog.SetDefault(logger)
	return nil
}
