package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps a config string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q (allowed: debug, info, warn, error)", s)
	}
}

// New builds the process logger. dev uses a colored tint handler, prod emits JSON.
func New(w io.Writer, appEnv string, level slog.Level, version string) *slog.Logger {
	if appEnv != "prod" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  level == slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", "solarsite")
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With(
		"app", "solarsite",
		"version", version,
		"env", appEnv,
	)
}
