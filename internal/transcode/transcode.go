// Package transcode renders tagfile value nodes as packfile param text.
package transcode

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/packed"
	"tag2pack/internal/remap"
	"tag2pack/internal/schema"
	"tag2pack/internal/tagfile"
)

// DefaultTransformTypes are record types written as concatenated vector rows.
var DefaultTransformTypes = []string{"hkQsTransform"}

// vectorWidth is the number of lanes in a packfile vector.
const vectorWidth = 4

// Transcoder converts value nodes of one document.
type Transcoder struct {
	resolver       *schema.Resolver
	remap          remap.Func
	transformTypes []string
}

// New creates a transcoder that remaps pointers directly.
func New(resolver *schema.Resolver, transformTypes []string) *Transcoder {
	if transformTypes == nil {
		transformTypes = DefaultTransformTypes
	}

	return &Transcoder{
		resolver:       resolver,
		remap:          remap.Direct,
		transformTypes: transformTypes,
	}
}

// Value renders v. When vector is set, bare scalar arrays are grouped into
// parenthesized four-lane tuples.
func (t *Transcoder) Value(v *tagfile.Value, vector bool) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: no value", diagnostic.ErrTemplateMismatch)
	}

	switch v.Kind {
	case tagfile.KindPointer:
		return t.remap(v.Text)
	case tagfile.KindInteger:
		s, err := Integer(v.Text)
		if err != nil {
			return "", fmt.Errorf("%s: %w", v.Path(), err)
		}

		return s, nil
	case tagfile.KindReal:
		return Real(v)
	case tagfile.KindString, tagfile.KindBool:
		return v.Text, nil
	case tagfile.KindArray:
		return t.array(v, vector)
	case tagfile.KindRecord:
		return t.record(v)
	default:
		return "", fmt.Errorf("%w: unexpected %s node at %s", diagnostic.ErrTemplateMismatch, v.KindName(), v.Path())
	}
}

func (t *Transcoder) array(v *tagfile.Value, vector bool) (string, error) {
	if len(v.Elements) == 0 {
		return "", nil
	}

	parts := make([]string, len(v.Elements))
	multiline := false

	for i, e := range v.Elements {
		s, err := t.Value(e, vector)
		if err != nil {
			return "", err
		}

		if e.Kind == tagfile.KindPointer || strings.Contains(s, "(") {
			multiline = true
		}

		parts[i] = s
	}

	if multiline {
		return strings.Join(parts, "\n"), nil
	}

	if vector {
		return groupVectors(parts), nil
	}

	return strings.Join(parts, " "), nil
}

func (t *Transcoder) record(v *tagfile.Value) (string, error) {
	name, err := t.resolver.RecordTypeName(v)
	if err != nil {
		return "", err
	}

	if !slices.Contains(t.transformTypes, name) {
		return "", fmt.Errorf("%w: record of type %s at %s needs a nested object in the template",
			diagnostic.ErrTemplateMismatch, name, v.Path())
	}

	var b strings.Builder

	for _, row := range v.Fields {
		s, err := t.Value(row.Value, true)
		if err != nil {
			return "", err
		}

		b.WriteString(s)
	}

	return b.String(), nil
}

// groupVectors splits scalar texts into four-lane tuples. A short final
// tuple keeps the lanes it has.
func groupVectors(scalars []string) string {
	var fields []string
	for _, s := range scalars {
		fields = append(fields, strings.Fields(s)...)
	}

	tuples := make([]string, 0, (len(fields)+vectorWidth-1)/vectorWidth)
	for chunk := range slices.Chunk(fields, vectorWidth) {
		tuples = append(tuples, "("+strings.Join(chunk, " ")+")")
	}

	return strings.Join(tuples, "\n")
}

// Integer renders integer text in the signed form packfiles use: values
// that only fit an unsigned type are written as the same bits, signed.
func Integer(s string) (string, error) {
	if _, err := strconv.ParseInt(s, 10, 32); err == nil {
		return s, nil
	}

	if u, err := strconv.ParseUint(s, 10, 32); err == nil {
		return strconv.FormatInt(int64(int32(uint32(u))), 10), nil
	}

	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return s, nil
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return strconv.FormatInt(int64(u), 10), nil
	}

	return "", fmt.Errorf("%w: invalid integer %q", diagnostic.ErrSchemaResolution, s)
}

// Real renders a real with an upper-case exponent. A real written only as
// its bit pattern is decoded from it: eight hex digits hold a float32,
// sixteen a float64.
func Real(v *tagfile.Value) (string, error) {
	if v.Text != "" {
		return strings.ReplaceAll(v.Text, "e", "E"), nil
	}

	digits := strings.TrimPrefix(v.Hex, "#")

	bits, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return "", fmt.Errorf("%w: real at %s has neither decimal nor valid hex text", diagnostic.ErrSchemaResolution, v.Path())
	}

	if len(digits) <= 8 {
		return packed.FormatFloat32(math.Float32frombits(uint32(bits))), nil
	}

	return strconv.FormatFloat(math.Float64frombits(bits), 'G', -1, 64), nil
}
