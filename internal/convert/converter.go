package convert

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/mapping"
	"tag2pack/internal/match"
	"tag2pack/internal/packfile"
	"tag2pack/internal/patch"
	"tag2pack/internal/remap"
	"tag2pack/internal/schema"
	"tag2pack/internal/tagfile"
)

// RootClass is the class whose first object becomes the packfile's top-level object.
const RootClass = "hkRootLevelContainer"

// Config holds configuration for a conversion run.
type Config struct {
	// Strict fails on source classes without a template instead of skipping them.
	Strict bool
	// MaxSuggestions is the maximum number of "did you mean" names per diagnostic.
	MaxSuggestions int
}

// DefaultConfig returns the default conversion configuration.
func DefaultConfig() Config {
	return Config{
		Strict:         false,
		MaxSuggestions: 3,
	}
}

// Result is the outcome of a conversion run.
type Result struct {
	Packfile    *packfile.Document
	Diagnostics diagnostic.Diagnostics
	// Converted counts the objects written.
	Converted int
	// Skipped lists the ids of source objects left out.
	Skipped []string
}

// Converter converts one source document with one template dictionary.
type Converter struct {
	doc      *tagfile.Document
	dict     *packfile.Dictionary
	profile  *mapping.Profile
	registry *patch.Registry
	config   Config
}

// NewConverter creates a converter. A nil profile selects the built-in one.
func NewConverter(doc *tagfile.Document, dict *packfile.Dictionary, profile *mapping.Profile, config Config) *Converter {
	if profile == nil {
		profile = mapping.DefaultProfile()
	}

	profile = profile.Clone()

	return &Converter{
		doc:      doc,
		dict:     dict,
		profile:  profile,
		registry: patch.Default(),
		config:   config,
	}
}

// WithPatches replaces the patch registry.
func (c *Converter) WithPatches(r *patch.Registry) *Converter {
	c.registry = r
	return c
}

// Convert converts every source object in order. On a fatal error the
// partial result is returned with the error recorded in its diagnostics;
// nothing of it should be written.
func (c *Converter) Convert() (*Result, error) {
	res := &Result{Packfile: packfile.NewDocument()}

	resolver, err := schema.NewResolver(c.doc)
	if err != nil {
		return nil, err
	}

	ctx := &patch.Context{
		Resolver: resolver,
		Diags:    &res.Diagnostics,
		Offset:   remap.Offset(c.profile.ReferenceOffset),
	}
	engine := mapping.NewEngine(resolver, c.profile, c.registry.Bind(ctx))

	for _, obj := range c.doc.Objects {
		class, err := c.convertObject(engine, resolver, obj, res)
		if err != nil {
			err = fmt.Errorf("object %s: %w", obj.ID, err)
			res.Diagnostics.AddErr(err, class, obj.ID)

			return res, err
		}
	}

	log.Debug().Int("converted", res.Converted).Int("skipped", len(res.Skipped)).Msg("conversion finished")

	return res, nil
}

func (c *Converter) convertObject(engine *mapping.Engine, resolver *schema.Resolver, obj *tagfile.Object, res *Result) (string, error) {
	class, err := resolver.ObjectTypeName(obj)
	if err != nil {
		return "", err
	}

	if c.profile.IsIgnored(class) {
		log.Debug().Str("object", obj.ID).Str("class", class).Msg("ignored class")
		res.Diagnostics.AddInfo(diagnostic.CodeIgnoredClass, "class is not converted", class, obj.ID)
		res.Skipped = append(res.Skipped, obj.ID)

		return class, nil
	}

	t, ok := c.dict.Class(class)
	if !ok {
		suggestions := match.Suggest(class, c.dict.Names(), c.config.MaxSuggestions)
		if c.config.Strict {
			return class, diagnostic.WithSuggestions(
				fmt.Errorf("%w: no template for %s", diagnostic.ErrUnknownClass, class), suggestions)
		}

		log.Warn().Str("object", obj.ID).Str("class", class).Strs("suggestions", suggestions).Msg("no template, object skipped")
		w := res.Diagnostics.AddWarning(diagnostic.CodeUnknownClass, "no template, object skipped", class, obj.ID)
		w.Suggestions = suggestions
		res.Skipped = append(res.Skipped, obj.ID)

		return class, nil
	}

	out, err := engine.BuildObject(t, obj.Record)
	if err != nil {
		return class, err
	}

	name, err := remap.Direct(obj.ID)
	if err != nil {
		return class, err
	}

	out.Attrs = out.Attrs.With(packfile.AttrName, name)

	if class == RootClass && res.Packfile.TopLevelObject == "" {
		res.Packfile.TopLevelObject = name
	}

	res.Packfile.Append(out)
	res.Converted++

	return class, nil
}
