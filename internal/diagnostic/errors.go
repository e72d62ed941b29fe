package diagnostic

import "errors"

// Fatal error kinds. Callers wrap them with context and test with errors.Is.
var (
	// ErrSchemaResolution reports a type or field name that could not be derived
	// from the source type table.
	ErrSchemaResolution = errors.New("schema resolution failure")
	// ErrTemplateMismatch reports a template that lacks the placeholder structure
	// the source value requires.
	ErrTemplateMismatch = errors.New("template mismatch")
	// ErrUnmappedField reports an output field that no rule, alias, default or
	// patcher could fill.
	ErrUnmappedField = errors.New("unmapped field")
	// ErrAmbiguousField reports two sibling records that both satisfy one output field.
	ErrAmbiguousField = errors.New("ambiguous field")
	// ErrUnknownClass reports a source class without a template.
	ErrUnknownClass = errors.New("unknown class")
)

// Kind returns the diagnostic code of the first error kind found in err's chain.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSchemaResolution):
		return CodeSchemaResolution
	case errors.Is(err, ErrTemplateMismatch):
		return CodeTemplateMismatch
	case errors.Is(err, ErrUnmappedField):
		return CodeUnmappedField
	case errors.Is(err, ErrAmbiguousField):
		return CodeAmbiguousField
	case errors.Is(err, ErrUnknownClass):
		return CodeUnknownClass
	default:
		return CodeInternal
	}
}

// SuggestionError attaches close names to an error. Its text is the wrapped
// error's; the names surface through Suggestions and in diagnostics.
type SuggestionError struct {
	Err         error
	Suggestions []string
}

func (e *SuggestionError) Error() string {
	return e.Err.Error()
}

func (e *SuggestionError) Unwrap() error {
	return e.Err
}

// WithSuggestions wraps err with names; no names leaves err unchanged.
func WithSuggestions(err error, names []string) error {
	if err == nil || len(names) == 0 {
		return err
	}

	return &SuggestionError{Err: err, Suggestions: names}
}

// Suggestions returns the names attached anywhere in err's chain.
func Suggestions(err error) []string {
	var se *SuggestionError
	if errors.As(err, &se) {
		return se.Suggestions
	}

	return nil
}
