// Package patch holds the field patchers: rules for output fields that the
// generic lookup tiers cannot derive from the source record.
package patch

import (
	"fmt"
	"slices"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/packfile"
	"tag2pack/internal/remap"
	"tag2pack/internal/schema"
	"tag2pack/internal/tagfile"
)

// Context is what a patcher may read besides the field and the source
// record. Diags collects structural warnings and may be nil.
type Context struct {
	// Resolver also gives access to the source document.
	Resolver *schema.Resolver
	Diags    *diagnostic.Diagnostics
	// Offset remaps ids written into referencedObjects.
	Offset remap.Offset
}

func (c *Context) warn(code, msg, class, object string) {
	if c.Diags != nil {
		c.Diags.AddWarning(code, msg, class, object)
	}
}

// Patcher produces one output field. It returns handled=false to leave the
// field to the lookup tiers.
type Patcher interface {
	FieldName() string
	Patch(ctx *Context, f *packfile.FieldTemplate, src *tagfile.Value) (*packfile.Param, bool, error)
}

// Registry maps output field names to patchers.
type Registry struct {
	patchers map[string]Patcher
	order    []string
}

// NewRegistry registers patchers in order. Two patchers for one field name
// are rejected.
func NewRegistry(patchers ...Patcher) (*Registry, error) {
	r := &Registry{patchers: make(map[string]Patcher, len(patchers))}

	for _, p := range patchers {
		name := p.FieldName()
		if name == "" {
			return nil, fmt.Errorf("patcher %T has no field name", p)
		}

		if prev, dup := r.patchers[name]; dup {
			return nil, fmt.Errorf("field %s is patched by both %T and %T", name, prev, p)
		}

		r.patchers[name] = p
		r.order = append(r.order, name)
	}

	return r, nil
}

// Default returns the registry of all built-in patchers. It panics if two
// of them claim the same field.
func Default() *Registry {
	r, err := NewRegistry(
		MotionCinfos{},
		MotionID{},
		ObjectSpaceDeformer{},
		ReferencedObjects{},
		TriggerManifoldTolerance{},
	)
	if err != nil {
		panic(err)
	}

	return r
}

// Lookup returns the patcher of a field name.
func (r *Registry) Lookup(name string) (Patcher, bool) {
	p, ok := r.patchers[name]
	return p, ok
}

// Names returns the patched field names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Bind fixes the context patchers run with.
func (r *Registry) Bind(ctx *Context) *Bound {
	return &Bound{registry: r, ctx: ctx}
}

// Bound is a registry with its context, ready to serve the mapping engine.
type Bound struct {
	registry *Registry
	ctx      *Context
}

// Apply runs the patcher registered for the field, if any.
func (b *Bound) Apply(f *packfile.FieldTemplate, src *tagfile.Value) (*packfile.Param, bool, error) {
	p, ok := b.registry.Lookup(f.Name)
	if !ok {
		return nil, false, nil
	}

	return p.Patch(b.ctx, f, src)
}
