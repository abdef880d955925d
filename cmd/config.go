package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/solarsite-cli/internal/config"
	"github.com/KaramelBytes/solarsite-cli/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SolarSite configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "labels: %s\n", formatLabels(cfg.Labels))
		delim := cfg.Delimiter
		if delim == "" {
			delim = "auto"
		}
		fmt.Fprintf(out, "delimiter: %s\n", delim)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		fmt.Fprintf(out, "cache_entries: %d\n", cfg.CacheEntries)
		fmt.Fprintf(out, "head_rows: %d\n", cfg.HeadRows)
		fmt.Fprintf(out, "http_addr: %s\n", cfg.HTTPAddr)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "app_env: %s\n", cfg.AppEnv)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Labels are written as comma-separated match=Label pairs, e.g.
  solarsite config set labels "benin=Benin,sierra_leone=Sierra Leone,togo=Togo"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file itself, never from the fallback defaults, so an
		// unreadable file is not overwritten.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("refusing to save over unreadable config: %w", err)
		}
		cfg = c
		switch key {
		case "labels":
			rules, err := parseLabels(val)
			if err != nil {
				return err
			}
			cfg.Labels = rules
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "max_rows", "workers", "cache_entries", "head_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "max_rows":
				cfg.MaxRows = i
			case "workers":
				if i == 0 {
					return fmt.Errorf("workers must be > 0")
				}
				cfg.Workers = i
			case "cache_entries":
				cfg.CacheEntries = i
			case "head_rows":
				cfg.HeadRows = i
			}
		case "http_addr":
			cfg.HTTPAddr = val
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = strings.ToLower(val)
		case "app_env":
			cfg.AppEnv = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func parseLabels(s string) ([]cfgpkg.LabelRule, error) {
	var out []cfgpkg.LabelRule
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		match, label, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(match) == "" || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("invalid label rule %q (want match=Label)", pair)
		}
		out = append(out, cfgpkg.LabelRule{Match: strings.TrimSpace(match), Label: strings.TrimSpace(label)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("labels: at least one match=Label pair is required")
	}
	return out, nil
}

func formatLabels(rules []cfgpkg.LabelRule) string {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, r.Match+"="+r.Label)
	}
	return strings.Join(parts, ", ")
}
