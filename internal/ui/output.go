package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/KaramelBytes/solarsite-cli/internal/dataset"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// PrintBold prints a bold line
func PrintBold(w io.Writer, format string, args ...any) {
	boldColor.Fprintln(w, fmt.Sprintf(format, args...))
}

// PrintDiagnostics reports an ingestion so that "no data yet", "partial data"
// and "parse error" read as three different things.
func PrintDiagnostics(w io.Writer, res *dataset.Result) {
	for _, d := range res.Diagnostics {
		switch {
		case d.Kind == dataset.KindNoData:
			PrintInfo(w, "%s", d.Message)
		case d.Kind == dataset.KindComplete:
			PrintSuccess(w, "%s", d.Message)
		case d.Kind == dataset.KindMalformedSource:
			PrintError(w, "%s", d)
		case d.Severity == dataset.SeverityWarning || d.Severity == dataset.SeverityError:
			PrintWarning(w, "%s", d)
		default:
			PrintInfo(w, "%s", d)
		}
	}
}
