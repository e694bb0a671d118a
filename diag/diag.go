// Package diag defines the span-tagged diagnostic taxonomy that flows
// through every pass of the MDSL pipeline (spec.md §7).
package diag

import (
	"fmt"
	"strings"

	"github.com/pacedproton/medialang/token"
)

// Severity classifies a Diagnostic as blocking or advisory.
type Severity int

const (
	// Error diagnostics make the final pipeline exit code non-zero.
	Error Severity = iota
	// Warning diagnostics are reported but never change the exit code.
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Kind is one entry of the error taxonomy in spec.md §7.
type Kind string

const (
	// Lex errors.
	UnexpectedChar      Kind = "UnexpectedChar"
	UnterminatedString  Kind = "UnterminatedString"
	UnterminatedComment Kind = "UnterminatedComment"
	InvalidNumber       Kind = "InvalidNumber"

	// Parse errors.
	UnexpectedToken Kind = "UnexpectedToken"
	UnexpectedEOF   Kind = "UnexpectedEof"
	BadDateLiteral  Kind = "BadDateLiteral"

	// Name errors.
	DuplicateName      Kind = "DuplicateName"
	DuplicateOutletID  Kind = "DuplicateOutletId"
	UndefinedVariable  Kind = "UndefinedVariable"
	UndefinedOutlet    Kind = "UndefinedOutlet"
	UndefinedSource    Kind = "UndefinedSource"
	UndefinedEvent     Kind = "UndefinedEvent"
	ImportCycle        Kind = "ImportCycle"
	ShadowedVariable   Kind = "ShadowedVariable"

	// Type errors.
	CategoryViolation Kind = "CategoryViolation"
	TypeMismatch      Kind = "TypeMismatch"
	FieldTypeUnknown  Kind = "FieldTypeUnknown"

	// Temporal errors.
	OverlappingLifecycle      Kind = "OverlappingLifecycle"
	InvertedDateRange         Kind = "InvertedDateRange"
	OverlappingOverridePeriod Kind = "OverlappingOverridePeriod" // warning only

	// Integrity errors.
	DuplicateMetric  Kind = "DuplicateMetric"
	StakeOutOfRange  Kind = "StakeOutOfRange"

	// Emit errors.
	UnrepresentableValue Kind = "UnrepresentableValue"
)

// Diagnostic is a single span-tagged error or warning produced anywhere in
// the pipeline.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Span     token.Span
	Message  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Kind, d.Message)
}

// Renderer formats diagnostics with resolved positions and a source
// snippet, exactly as spec.md §7 prescribes: severity, kind, file:line:col,
// message, and one caret-underlined source line.
type Renderer interface {
	Path(token.FileID) string
	Position(token.FileID, int) (line, col int)
	Snippet(token.Span) string
}

// Format renders a single diagnostic using r to resolve positions.
func Format(r Renderer, d Diagnostic) string {
	line, col := r.Position(d.Span.File, d.Span.Start)
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s:%d:%d: %s\n", d.Severity, d.Kind, r.Path(d.Span.File), line, col, d.Message)
	b.WriteString(r.Snippet(d.Span))
	return b.String()
}

// Sink accumulates diagnostics from every pass without aborting analysis,
// matching spec.md §7's "propagation" rule: every pass gathers all its
// errors before returning.
type Sink struct {
	diags []Diagnostic
}

// Add appends a diagnostic to the sink.
func (s *Sink) Add(d Diagnostic) { s.diags = append(s.diags, d) }

// Errorf appends an Error-severity diagnostic built from a format string.
func (s *Sink) Errorf(kind Kind, span token.Span, format string, args ...any) {
	s.Add(Diagnostic{Severity: Error, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Warnf appends a Warning-severity diagnostic built from a format string.
func (s *Sink) Warnf(kind Kind, span token.Span, format string, args ...any) {
	s.Add(Diagnostic{Severity: Warning, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// All returns every diagnostic accumulated so far, in emission order.
func (s *Sink) All() []Diagnostic { return s.diags }

// HasErrors reports whether any Error-severity diagnostic was recorded.
// Warnings never affect this (spec.md §7: "final exit is non-zero if any
// Error (not Warning) was produced").
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
