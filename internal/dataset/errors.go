package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedSource marks a source whose name matches no label rule.
	ErrUnrecognizedSource = errors.New("unrecognized source")
	// ErrMalformedSource marks a matched source that could not be parsed.
	ErrMalformedSource = errors.New("malformed source")
)

// SourceError ties a per-source failure to the source name.
type SourceError struct {
	Source string
	Kind   error // ErrUnrecognizedSource or ErrMalformedSource
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Kind)
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Kind classifies a diagnostic.
type Kind string

const (
	KindUnrecognizedSource Kind = "unrecognized_source"
	KindMalformedSource    Kind = "malformed_source"
	KindDuplicateLabel     Kind = "duplicate_label"
	KindCoercedValues      Kind = "coerced_values"
	KindTruncated          Kind = "truncated"
	KindNoData             Kind = "no_data"
	KindPartialCoverage    Kind = "partial_coverage"
	KindComplete           Kind = "complete"
)

// Severity drives how the presentation layer renders a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one note produced while ingesting.
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source,omitempty"`
	Label    string   `json:"label,omitempty"`
	Message  string   `json:"message"`
	Missing  []string `json:"missing,omitempty"`
	Err      error    `json:"-"`
}

func (d Diagnostic) String() string {
	if d.Source != "" {
		return fmt.Sprintf("%s: %s", d.Source, d.Message)
	}
	return d.Message
}

// Outcome is the overall classification of an ingestion.
type Outcome int

const (
	OutcomeNoData Outcome = iota
	OutcomePartial
	OutcomeComplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomePartial:
		return "partial_coverage"
	case OutcomeComplete:
		return "complete"
	default:
		return "no_data"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "no_data":
		*o = OutcomeNoData
	case "partial_coverage":
		*o = OutcomePartial
	case "complete":
		*o = OutcomeComplete
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}
