package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LabelRule maps a case-insensitive source-name substring to a site label.
type LabelRule struct {
	Match string `mapstructure:"match" yaml:"match"`
	Label string `mapstructure:"label" yaml:"label"`
}

// Global configuration structure.
type Global struct {
	// Source name lookup table, scanned in order.
	Labels []LabelRule `mapstructure:"labels" yaml:"labels"`
	// Ingestion
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows      int    `mapstructure:"max_rows" yaml:"max_rows"`
	Workers      int    `mapstructure:"workers" yaml:"workers"`
	CacheEntries int    `mapstructure:"cache_entries" yaml:"cache_entries"`
	HeadRows     int    `mapstructure:"head_rows" yaml:"head_rows"`

	// Serving and logging
	HTTPAddr string `mapstructure:"http_addr" yaml:"http_addr"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	AppEnv   string `mapstructure:"app_env" yaml:"app_env"`
}

// DefaultLabels is the deployment's fixed country lookup table.
func DefaultLabels() []LabelRule {
	return []LabelRule{
		{Match: "benin", Label: "Benin"},
		{Match: "sierra_leone", Label: "Sierra Leone"},
		{Match: "togo", Label: "Togo"},
	}
}

// ExpectedLabels returns the configured labels in lookup order, deduplicated.
func (c *Global) ExpectedLabels() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range c.Labels {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}
	return out
}

// DelimiterRune converts the configured delimiter name. Zero means auto-detect.
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter accepts ',', ';', tab (or "tab") and the empty string.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',' | ';' | 'tab')", s)
	}
}

// Validate checks values that cannot be fixed up silently.
func (c *Global) Validate() error {
	if len(c.Labels) == 0 {
		return fmt.Errorf("labels: at least one label rule is required")
	}
	for i, r := range c.Labels {
		if strings.TrimSpace(r.Match) == "" || strings.TrimSpace(r.Label) == "" {
			return fmt.Errorf("labels[%d]: match and label must be non-empty", i)
		}
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	switch c.AppEnv {
	case "dev", "prod":
	default:
		return fmt.Errorf("invalid app_env %q (allowed: dev, prod)", c.AppEnv)
	}
	return nil
}

// Default returns the built-in configuration used when no file is present.
func Default() *Global {
	return &Global{
		Labels:       DefaultLabels(),
		Workers:      4,
		CacheEntries: 16,
		HeadRows:     10,
		HTTPAddr:     ":8080",
		LogLevel:     "info",
		AppEnv:       "dev",
	}
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".solarsite", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.solarsite/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SOLARSITE")
	v.AutomaticEnv()

	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("workers", 4)
	v.SetDefault("cache_entries", 16)
	v.SetDefault("head_rows", 10)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("app_env", "dev")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// A missing file is fine; one that exists but cannot be read is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Labels) == 0 {
		c.Labels = DefaultLabels()
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
