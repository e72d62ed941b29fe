package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/packfile"
	"tag2pack/internal/tagfile"
)

// MotionID numbers a record by its position in the containing array.
type MotionID struct{}

func (MotionID) FieldName() string { return "motionId" }

func (MotionID) Patch(_ *Context, f *packfile.FieldTemplate, src *tagfile.Value) (*packfile.Param, bool, error) {
	if src.Container() == nil {
		return nil, false, nil
	}

	return f.Scalar(strconv.Itoa(src.Index)), true, nil
}

// blendEntryFields hold skinning entries for vertices weighted to five or
// more bones, which the older runtime cannot express.
var blendEntryFields = []string{"eightBlendEntries", "sevenBlendEntries", "sixBlendEntries", "fiveBlendEntries"}

// ObjectSpaceDeformer warns when a deformer carries blend entries that will
// be lost. It never handles the field.
type ObjectSpaceDeformer struct{}

func (ObjectSpaceDeformer) FieldName() string { return "objectSpaceDeformer" }

func (ObjectSpaceDeformer) Patch(ctx *Context, _ *packfile.FieldTemplate, src *tagfile.Value) (*packfile.Param, bool, error) {
	deformer, ok := src.Get("objectSpaceDeformer")
	if !ok || deformer.Kind != tagfile.KindRecord {
		return nil, false, nil
	}

	var lost []string

	for _, name := range blendEntryFields {
		if arr, ok := deformer.Get(name); ok && arr.Kind == tagfile.KindArray && len(arr.Elements) > 0 {
			lost = append(lost, name)
		}
	}

	if len(lost) == 0 {
		return nil, false, nil
	}

	var class, operator, id string
	if root := src.Root(); root != nil {
		id = root.ID
		if ctx.Resolver != nil {
			class, _ = ctx.Resolver.ObjectTypeName(root)
		}

		if n, ok := root.Record.Get("name"); ok {
			operator = n.Text
		}
	}

	msg := fmt.Sprintf("%s %q references vertices weighted to more than 4 bones (%s); those weights are lost",
		class, operator, strings.Join(lost, ", "))
	log.Warn().Str("class", class).Str("operator", operator).Strs("entries", lost).Msg("blend entries dropped")
	ctx.warn(diagnostic.CodeStructural, msg, class, id)

	return nil, false, nil
}

// ReferencedObjects lists the shapes of a physics system's bodies, numbered
// past the objects that precede them in the target file.
type ReferencedObjects struct{}

func (ReferencedObjects) FieldName() string { return "referencedObjects" }

func (ReferencedObjects) Patch(ctx *Context, f *packfile.FieldTemplate, src *tagfile.Value) (*packfile.Param, bool, error) {
	bodies, ok := src.Get("bodyCinfos")
	if !ok {
		return nil, false, nil
	}

	if bodies.Kind != tagfile.KindArray {
		return nil, false, fmt.Errorf("%w: bodyCinfos at %s is %s, not an array",
			diagnostic.ErrSchemaResolution, bodies.Path(), bodies.KindName())
	}

	ids := make([]string, 0, len(bodies.Elements))
	for _, body := range bodies.Elements {
		shape, err := member(body, "shape", tagfile.KindPointer)
		if err != nil {
			return nil, false, err
		}

		id, err := ctx.Offset.Remap(shape.Text)
		if err != nil {
			return nil, false, err
		}

		ids = append(ids, id)
	}

	p := f.Scalar(strings.Join(ids, "\n"))
	p.SetCount(len(ids))

	return p, true, nil
}

// TriggerManifoldTolerance writes the constant hkUFloat8 the older runtime
// expects in place of the removed tolerance.
type TriggerManifoldTolerance struct{}

func (TriggerManifoldTolerance) FieldName() string { return "triggerManifoldTolerance" }

func (TriggerManifoldTolerance) Patch(_ *Context, f *packfile.FieldTemplate, _ *tagfile.Value) (*packfile.Param, bool, error) {
	obj := &packfile.Object{
		Attrs: packfile.Attrs{
			{Key: packfile.AttrClass, Value: "hkUFloat8"},
			{Key: packfile.AttrName, Value: "triggerManifoldTolerance"},
			{Key: packfile.AttrSignature, Value: "0x7c076f9a"},
		},
		Params: []*packfile.Param{{Name: "value", Value: "255"}},
	}

	return f.Nested([]*packfile.Object{obj}), true, nil
}

// member returns a field of a record, checking its kind.
func member(rec *tagfile.Value, name string, kind tagfile.Kind) (*tagfile.Value, error) {
	v, ok := rec.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %s", diagnostic.ErrSchemaResolution, rec.Path(), name)
	}

	if v.Kind != kind {
		return nil, fmt.Errorf("%w: %s.%s is %s, expected %s",
			diagnostic.ErrSchemaResolution, rec.Path(), name, v.KindName(), kind)
	}

	return v, nil
}
