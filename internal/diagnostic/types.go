package diagnostic

import (
	"fmt"
	"strings"
)

// Diagnostic codes.
const (
	CodeSchemaResolution = "schema_resolution"
	CodeTemplateMismatch = "template_mismatch"
	CodeUnmappedField    = "unmapped_field"
	CodeAmbiguousField   = "ambiguous_field"
	CodeUnknownClass     = "unknown_class"
	CodeIgnoredClass     = "ignored_class"
	CodeStructural       = "structural_limit"
	CodeInternal         = "internal"
)

// Diagnostics holds all diagnostic information from a conversion.
type Diagnostics struct {
	Errors   []Diagnostic `json:"errors,omitempty"`
	Warnings []Diagnostic `json:"warnings,omitempty"`
	Infos    []Diagnostic `json:"infos,omitempty"`
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `json:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Class is the source class this relates to (if any).
	Class string `json:"class,omitempty"`
	// Object is the source object id this relates to (if any).
	Object string `json:"object,omitempty"`
	// Suggestions are close names from the template dictionary or the source record.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name written by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}

	return nil
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, class, object string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Class:    class,
		Object:   object,
	})
}

// AddWarning adds a warning diagnostic and returns it for further decoration.
func (d *Diagnostics) AddWarning(code, message, class, object string) *Diagnostic {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Class:    class,
		Object:   object,
	})

	return &d.Warnings[len(d.Warnings)-1]
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, class, object string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Class:    class,
		Object:   object,
	})
}

// AddErr records err as an error diagnostic, classified by its kind.
func (d *Diagnostics) AddErr(err error, class, object string) {
	if err == nil {
		return
	}

	d.Errors = append(d.Errors, Diagnostic{
		Severity:    SeverityError,
		Code:        Kind(err),
		Message:     err.Error(),
		Class:       class,
		Object:      object,
		Suggestions: Suggestions(err),
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Class != "" {
		prefix = append(prefix, "["+d.Class+"]")
	}

	if d.Object != "" {
		prefix = append(prefix, d.Object)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
