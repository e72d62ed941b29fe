package patch

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/packed"
	"tag2pack/internal/packfile"
	"tag2pack/internal/tagfile"
	"tag2pack/internal/transcode"
)

const (
	// unlimitedTunneling is the largest value the runtime accepts for the
	// tunnelling limits, written as the reference data has it.
	unlimitedTunneling = "1.8446726481523507E19"
	zeroVector         = "(0.0 0.0 0.0 0.0)"
	// staticMass marks a body without a finite mass.
	staticMass = -1
)

// MotionCinfos derives one hknpMotionCinfo per body of a physics system.
// The newer format stores motions implicitly in the bodies and their
// shapes' mass properties.
type MotionCinfos struct{}

func (MotionCinfos) FieldName() string { return "motionCinfos" }

func (MotionCinfos) Patch(ctx *Context, f *packfile.FieldTemplate, src *tagfile.Value) (*packfile.Param, bool, error) {
	bodies, ok := src.Get("bodyCinfos")
	if !ok {
		return nil, false, nil
	}

	if bodies.Kind != tagfile.KindArray {
		return nil, false, fmt.Errorf("%w: bodyCinfos at %s is %s, not an array",
			diagnostic.ErrSchemaResolution, bodies.Path(), bodies.KindName())
	}

	if f.Sub == nil {
		return nil, false, fmt.Errorf("%w: motionCinfos template has no hknpMotionCinfo object", diagnostic.ErrTemplateMismatch)
	}

	objs := make([]*packfile.Object, 0, len(bodies.Elements))
	for _, body := range bodies.Elements {
		o, err := motionCinfo(ctx, f.Sub, body)
		if err != nil {
			return nil, false, err
		}

		objs = append(objs, o)
	}

	p := f.Nested(objs)
	p.SetCount(len(objs))

	return p, true, nil
}

func motionCinfo(ctx *Context, t *packfile.ObjectTemplate, body *tagfile.Value) (*packfile.Object, error) {
	values, err := motionValues(ctx, body)
	if err != nil {
		return nil, err
	}

	obj := packfile.NewObject(t)
	for _, ft := range t.Fields {
		v, ok := values[ft.Name]
		if !ok {
			return nil, fmt.Errorf("%w: hknpMotionCinfo.%s cannot be derived from %s",
				diagnostic.ErrUnmappedField, ft.Name, body.Path())
		}

		obj.Params = append(obj.Params, ft.Scalar(v))
	}

	return obj, nil
}

func motionValues(ctx *Context, body *tagfile.Value) (map[string]string, error) {
	propsID, err := member(body, "motionPropertiesId", tagfile.KindInteger)
	if err != nil {
		return nil, err
	}

	motionPropertiesID, err := transcode.Integer(propsID.Text)
	if err != nil {
		return nil, err
	}

	invMass, err := inverseMass(body)
	if err != nil {
		return nil, err
	}

	cmp, err := compressedMassProperties(ctx, body)
	if err != nil {
		return nil, err
	}

	inertia, err := packedField(cmp, "inertia")
	if err != nil {
		return nil, err
	}

	axis, err := packedField(cmp, "majorAxisSpace")
	if err != nil {
		return nil, err
	}

	com, err := packedField(cmp, "centerOfMass")
	if err != nil {
		return nil, err
	}

	bodyOrientation, err := realVector(body, "orientation", 4)
	if err != nil {
		return nil, err
	}

	position, err := realVector(body, "position", 3)
	if err != nil {
		return nil, err
	}

	orientation := packed.MotionOrientation(
		packed.Quat([4]float32(bodyOrientation)),
		packed.Quat(packed.UnpackUnitVector(axis)),
	)

	local := packed.UnpackVector3(com)
	world := packed.CenterOfMassWorld(
		mgl32.Vec3{local[0], local[1], local[2]},
		orientation,
		mgl32.Vec3{position[0], position[1], position[2]},
	)

	return map[string]string{
		"motionPropertiesId":                   motionPropertiesID,
		"enableDeactivation":                   "true",
		"inverseMass":                          invMass,
		"massFactor":                           "1",
		"maxLinearAccelerationDistancePerStep": unlimitedTunneling,
		"maxRotationToPreventTunneling":        unlimitedTunneling,
		"inverseInertiaLocal":                  packed.FormatVec3(packed.InverseInertia(packed.UnpackVector3(inertia)), "1.0"),
		"orientation": packed.FormatVector4(
			packed.FormatFloat32(orientation.V[0]),
			packed.FormatFloat32(orientation.V[1]),
			packed.FormatFloat32(orientation.V[2]),
			packed.FormatFloat32(orientation.W),
		),
		"centerOfMassWorld": packed.FormatVec3(world, "0.0"),
		"linearVelocity":    zeroVector,
		"angularVelocity":   zeroVector,
	}, nil
}

func inverseMass(body *tagfile.Value) (string, error) {
	v, err := member(body, "mass", tagfile.KindReal)
	if err != nil {
		return "", err
	}

	text, err := transcode.Real(v)
	if err != nil {
		return "", err
	}

	mass, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", fmt.Errorf("%w: mass at %s: %w", diagnostic.ErrSchemaResolution, v.Path(), err)
	}

	if mass == staticMass {
		return "0", nil
	}

	return packed.FormatPackReal(1 / mass), nil
}

// compressedMassProperties follows body.shape -> properties ->
// entries[0].object -> compressedMassProperties.
func compressedMassProperties(ctx *Context, body *tagfile.Value) (*tagfile.Value, error) {
	rec := body
	for _, name := range []string{"shape", "properties"} {
		ptr, err := member(rec, name, tagfile.KindPointer)
		if err != nil {
			return nil, err
		}

		if rec, err = deref(ctx, ptr); err != nil {
			return nil, err
		}
	}

	entries, err := member(rec, "entries", tagfile.KindArray)
	if err != nil {
		return nil, err
	}

	if len(entries.Elements) == 0 || entries.Elements[0].Kind != tagfile.KindRecord {
		return nil, fmt.Errorf("%w: %s holds no property entry", diagnostic.ErrSchemaResolution, entries.Path())
	}

	ptr, err := member(entries.Elements[0], "object", tagfile.KindPointer)
	if err != nil {
		return nil, err
	}

	if rec, err = deref(ctx, ptr); err != nil {
		return nil, err
	}

	return member(rec, "compressedMassProperties", tagfile.KindRecord)
}

func deref(ctx *Context, ptr *tagfile.Value) (*tagfile.Value, error) {
	rec, err := ctx.Resolver.Document().Deref(ptr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", diagnostic.ErrSchemaResolution, err)
	}

	return rec, nil
}

func packedField(rec *tagfile.Value, name string) ([4]uint16, error) {
	v, ok := rec.Get(name)
	if !ok {
		return [4]uint16{}, fmt.Errorf("%w: %s has no field %s", diagnostic.ErrSchemaResolution, rec.Path(), name)
	}

	c, err := packed.Components(v)
	if err != nil {
		return c, fmt.Errorf("%w: %w", diagnostic.ErrSchemaResolution, err)
	}

	return c, nil
}

// realVector reads at least n reals from an array field.
func realVector(rec *tagfile.Value, name string, n int) ([]float32, error) {
	arr, err := member(rec, name, tagfile.KindArray)
	if err != nil {
		return nil, err
	}

	if len(arr.Elements) < n {
		return nil, fmt.Errorf("%w: %s has %d components, expected %d",
			diagnostic.ErrSchemaResolution, arr.Path(), len(arr.Elements), n)
	}

	out := make([]float32, n)
	for i := range out {
		text, err := transcode.Real(arr.Elements[i])
		if err != nil {
			return nil, err
		}

		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", diagnostic.ErrSchemaResolution, arr.Elements[i].Path(), err)
		}

		out[i] = float32(f)
	}

	return out, nil
}
