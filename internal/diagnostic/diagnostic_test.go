package diagnostic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("field x: %w", ErrSchemaResolution), CodeSchemaResolution},
		{fmt.Errorf("a: %w", fmt.Errorf("b: %w", ErrTemplateMismatch)), CodeTemplateMismatch},
		{WithSuggestions(fmt.Errorf("mass: %w", ErrUnmappedField), []string{"masses"}), CodeUnmappedField},
		{ErrAmbiguousField, CodeAmbiguousField},
		{ErrUnknownClass, CodeUnknownClass},
		{errors.New("disk full"), CodeInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err))
	}
}

func TestSuggestions(t *testing.T) {
	base := fmt.Errorf("field friction: %w", ErrUnmappedField)

	assert.Same(t, base, WithSuggestions(base, nil))
	assert.Nil(t, WithSuggestions(nil, []string{"a"}))

	err := fmt.Errorf("object #3: %w", WithSuggestions(base, []string{"frictions", "fiction"}))
	assert.ErrorIs(t, err, ErrUnmappedField)
	assert.Equal(t, []string{"frictions", "fiction"}, Suggestions(err))
	assert.Equal(t, "object #3: field friction: unmapped field", err.Error())
	assert.Nil(t, Suggestions(base))
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.False(t, d.HasErrors())

	d.AddInfo(CodeIgnoredClass, "skipped", "hclStateDependencyGraph", "object7")
	w := d.AddWarning(CodeUnknownClass, "no template", "hkFoo", "object3")
	w.Suggestions = []string{"hkFoo2"}
	d.AddErr(nil, "ignored", "")
	d.AddErr(WithSuggestions(fmt.Errorf("friction: %w", ErrUnmappedField), []string{"frictions"}), "hknpMaterial", "object4")

	require.Len(t, d.Errors, 1)
	assert.Equal(t, CodeUnmappedField, d.Errors[0].Code)
	assert.Equal(t, []string{"frictions"}, d.Errors[0].Suggestions)
	assert.True(t, d.HasErrors())

	assert.Equal(t, "[hkFoo] object3: [unknown_class] no template (did you mean hkFoo2?)", d.Warnings[0].String())
	assert.Equal(t, "[hknpMaterial] object4: [unmapped_field] friction: unmapped field (did you mean frictions?)", d.Errors[0].String())
}

func TestWriteReport(t *testing.T) {
	r := &Report{
		Input:     "cloth.hkx.xml",
		Templates: "classes.xml",
		Started:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:  "15ms",
		Converted: 2,
		Skipped:   []string{"object3"},
	}
	r.Diags.AddWarning(CodeUnknownClass, "no template", "hkFoo", "object3")

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "cloth.hkx.xml", decoded["input"])
	assert.NotContains(t, decoded, "output")
	assert.Equal(t, float64(2), decoded["converted"])
	assert.Equal(t, false, decoded["failed"])

	diags := decoded["diagnostics"].(map[string]any)
	warnings := diags["warnings"].([]any)
	require.Len(t, warnings, 1)
	assert.Equal(t, "warning", warnings[0].(map[string]any)["severity"])
	assert.NotContains(t, diags, "errors")
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityError} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got Severity
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}
