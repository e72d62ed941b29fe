package mapping

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/match"
	"tag2pack/internal/packfile"
	"tag2pack/internal/schema"
	"tag2pack/internal/tagfile"
	"tag2pack/internal/transcode"
)

const (
	// maxSearchDepth bounds the sibling search through nested records.
	maxSearchDepth = 32
	maxSuggestions = 3
)

// Patches overrides output fields ahead of the lookup tiers.
type Patches interface {
	Apply(field *packfile.FieldTemplate, src *tagfile.Value) (*packfile.Param, bool, error)
}

// Engine builds output objects for one source document.
type Engine struct {
	profile    *Profile
	resolver   *schema.Resolver
	transcoder *transcode.Transcoder
	patches    Patches
}

// NewEngine creates an engine. A nil profile selects the built-in one and
// nil patches disables the patch tier.
func NewEngine(resolver *schema.Resolver, profile *Profile, patches Patches) *Engine {
	if profile == nil {
		profile = DefaultProfile()
	}

	return &Engine{
		profile:    profile,
		resolver:   resolver,
		transcoder: transcode.New(resolver, profile.TransformTypes),
		patches:    patches,
	}
}

// Profile returns the engine's profile.
func (e *Engine) Profile() *Profile {
	return e.profile
}

// BuildObject fills a fresh object from template t with values found in
// the source record src. The template is not modified.
func (e *Engine) BuildObject(t *packfile.ObjectTemplate, src *tagfile.Value) (*packfile.Object, error) {
	if src == nil || src.Kind != tagfile.KindRecord {
		return nil, fmt.Errorf("%w: %s object needs a record, got %s",
			diagnostic.ErrTemplateMismatch, t.Class(), src.KindName())
	}

	obj := packfile.NewObject(t)
	claimed := t.FieldNames()

	for _, ft := range t.Fields {
		p, err := e.buildParam(ft, claimed, src)
		if err != nil {
			return nil, err
		}

		obj.Params = append(obj.Params, p)
	}

	return obj, nil
}

func (e *Engine) buildParam(ft *packfile.FieldTemplate, claimed []string, src *tagfile.Value) (*packfile.Param, error) {
	if e.patches != nil {
		p, ok, err := e.patches.Apply(ft, src)
		if err != nil {
			return nil, fmt.Errorf("field %s at %s: %w", ft.Name, src.Path(), err)
		}

		if ok {
			e.trace(ft.Name, TierPatch, src)
			return p, nil
		}
	}

	v, tier, err := e.Lookup(ft.Name, claimed, src)
	if err != nil {
		return nil, err
	}

	if v == nil {
		if d, ok := e.profile.Defaults[ft.Name]; ok {
			e.trace(ft.Name, TierDefault, src)
			return ft.Scalar(d), nil
		}

		return nil, e.unmapped(ft.Name, src)
	}

	e.trace(ft.Name, tier, v)

	if ft.Sub != nil {
		return e.nested(ft, v)
	}

	text, err := e.transcoder.Value(v, ft.IsVector())
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", ft.Name, err)
	}

	p := ft.Scalar(text)
	if v.Kind == tagfile.KindArray {
		p.SetCount(len(v.Elements))
	}

	return p, nil
}

// nested clones the field's sub-template once per source record.
func (e *Engine) nested(ft *packfile.FieldTemplate, v *tagfile.Value) (*packfile.Param, error) {
	switch v.Kind {
	case tagfile.KindRecord:
		o, err := e.BuildObject(ft.Sub, v)
		if err != nil {
			return nil, err
		}

		return ft.Nested([]*packfile.Object{o}), nil

	case tagfile.KindArray:
		objs := make([]*packfile.Object, 0, len(v.Elements))
		for _, el := range v.Elements {
			o, err := e.BuildObject(ft.Sub, el)
			if err != nil {
				return nil, err
			}

			objs = append(objs, o)
		}

		p := ft.Nested(objs)
		p.SetCount(len(objs))

		return p, nil

	default:
		return nil, fmt.Errorf("%w: field %s expects nested objects, source %s holds %s",
			diagnostic.ErrTemplateMismatch, ft.Name, v.Path(), v.KindName())
	}
}

// Lookup finds the source value for an output field name with tiers 1 to 5.
// claimed lists the names of the template's fields, whose source records the
// sibling tier skips. A nil value with a nil error means no tier matched.
func (e *Engine) Lookup(name string, claimed []string, rec *tagfile.Value) (*tagfile.Value, Tier, error) {
	v, tier, err := e.search(name, claimed, rec, 0)
	if err != nil || v != nil {
		return v, tier, err
	}

	// The enclosing tier only applies to records held directly by a field.
	owner := rec.OwnerField()
	if owner == nil {
		return nil, TierNone, nil
	}

	v, _, err = e.search(name, claimed, owner.Record(), 0)
	if err != nil || v == nil {
		return nil, TierNone, err
	}

	return v, TierEnclosing, nil
}

func (e *Engine) search(name string, claimed []string, rec *tagfile.Value, depth int) (*tagfile.Value, Tier, error) {
	if v, ok := rec.Get(name); ok {
		return v, TierExact, nil
	}

	if alias, ok := e.profile.Renames[name]; ok {
		if v, ok := rec.Get(alias); ok {
			return v, TierAlias, nil
		}
	}

	v, err := e.indexed(name, rec)
	if err == nil && v == nil {
		if alias, ok := e.profile.Renames[name]; ok {
			v, err = e.indexed(alias, rec)
		}
	}

	if err != nil || v != nil {
		return v, TierIndexed, err
	}

	if depth >= maxSearchDepth {
		return nil, TierNone, nil
	}

	return e.siblings(name, claimed, rec, depth)
}

// indexed resolves "base3" to element 2 of the array field "base".
func (e *Engine) indexed(name string, rec *tagfile.Value) (*tagfile.Value, error) {
	base, n, ok := splitIndex(name)
	if !ok {
		return nil, nil
	}

	arr, ok := rec.Get(base)
	if !ok || arr.Kind != tagfile.KindArray {
		return nil, nil
	}

	elems := arr.Elements
	if len(elems) > 0 && arr.ElementTypeID != "" {
		elemType, err := e.resolver.ElementTypeName(arr)
		if err != nil {
			return nil, err
		}

		if e.profile.IsPackedVector(elemType) {
			elems, err = flattenPacked(elems)
			if err != nil {
				return nil, err
			}
		}
	}

	if n > len(elems) {
		return nil, nil
	}

	return elems[n-1], nil
}

// siblings searches the nested records of rec that no claimed name holds.
func (e *Engine) siblings(name string, claimed []string, rec *tagfile.Value, depth int) (*tagfile.Value, Tier, error) {
	var (
		found *tagfile.Value
		from  string
	)

	for _, f := range rec.Fields {
		if slices.Contains(claimed, f.Name) {
			continue
		}

		sub, err := e.searchable(f.Value)
		if err != nil {
			return nil, TierNone, err
		}

		if sub == nil {
			continue
		}

		v, _, err := e.search(name, claimed, sub, depth+1)
		if err != nil {
			return nil, TierNone, err
		}

		if v == nil {
			continue
		}

		if found == nil {
			found, from = v, f.Name
			if !e.profile.StrictAmbiguity {
				break
			}

			continue
		}

		return nil, TierNone, fmt.Errorf("%w: %s at %s is held by both %s and %s",
			diagnostic.ErrAmbiguousField, name, rec.Path(), from, f.Name)
	}

	if found == nil {
		return nil, TierNone, nil
	}

	return found, TierSibling, nil
}

// searchable returns the record the sibling tier looks into for a field
// value, or nil.
func (e *Engine) searchable(v *tagfile.Value) (*tagfile.Value, error) {
	switch v.Kind {
	case tagfile.KindRecord:
		return v, nil
	case tagfile.KindArray:
		if len(v.Elements) == 0 || v.Elements[0].Kind != tagfile.KindRecord || v.ElementTypeID == "" {
			return nil, nil
		}

		elemType, err := e.resolver.ElementTypeName(v)
		if err != nil {
			return nil, err
		}

		if e.profile.IsSearchable(elemType) {
			return v.Elements[0], nil
		}
	}

	return nil, nil
}

func (e *Engine) unmapped(name string, src *tagfile.Value) error {
	class, err := e.resolver.RecordTypeName(src)
	if err != nil {
		class = "?"
	}

	candidates := make([]string, 0, len(src.Fields))
	for _, f := range src.Fields {
		candidates = append(candidates, f.Name)
	}

	err = fmt.Errorf("%w: %s.%s has no source at %s", diagnostic.ErrUnmappedField, class, name, src.Path())

	return diagnostic.WithSuggestions(err, match.Suggest(name, candidates, maxSuggestions))
}

func (e *Engine) trace(name string, tier Tier, v *tagfile.Value) {
	log.Trace().Str("field", name).Stringer("tier", tier).Str("source", v.Path()).Msg("field mapped")
}

// splitIndex splits a trailing decimal index off a field name. Indexes
// start at 1.
func splitIndex(name string) (string, int, bool) {
	base := strings.TrimRightFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	if base == "" || base == name {
		return "", 0, false
	}

	n, err := strconv.Atoi(name[len(base):])
	if err != nil || n < 1 {
		return "", 0, false
	}

	return base, n, true
}

// flattenPacked replaces packed vector records by their component values.
func flattenPacked(elems []*tagfile.Value) ([]*tagfile.Value, error) {
	var out []*tagfile.Value

	for _, el := range elems {
		if el.Kind != tagfile.KindRecord || len(el.Fields) == 0 || el.Fields[0].Value.Kind != tagfile.KindArray {
			return nil, fmt.Errorf("%w: packed vector at %s has no component array", diagnostic.ErrSchemaResolution, el.Path())
		}

		out = append(out, el.Fields[0].Value.Elements...)
	}

	return out, nil
}
