package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05",
	"2006-01-02 15:04", "2006-01-02", "2006/01/02", "2006/01/02 15:04",
	"01/02/2006", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseReading converts a metric cell. Empty and NaN-like cells are missing
// (NaN, ok=true); anything else unparseable is reported with ok=false.
func parseReading(s string) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	switch strings.ToLower(raw) {
	case "", "nan", "na", "n/a", "null", "-":
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`),  // e.g., GHI (W/m²)
	regexp.MustCompile(`^(.*?)\s*\[([^\]]+)\]\s*$`), // e.g., GHI [W/m2]
	regexp.MustCompile(`^(.*?)[_\s-]+(W/m2|W/m²|Wm2)$`),
}

// columnName strips a unit suffix and normalizes case for header matching.
func columnName(header string) string {
	s := strings.TrimSpace(header)
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(s); len(m) >= 3 && strings.TrimSpace(m[1]) != "" {
			s = strings.TrimSpace(m[1])
			break
		}
	}
	return strings.ToUpper(s)
}
