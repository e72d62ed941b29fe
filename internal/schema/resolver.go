package schema

import (
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/tagfile"
)

// DefaultArrayMarkers are the type names of generic container wrappers.
var DefaultArrayMarkers = []string{"hkArray", "hkRelArray"}

const (
	cacheSize = 4096
	// maxDepth bounds subtype and parent chains; deeper chains are cycles.
	maxDepth = 64
)

// Resolver answers type name queries against one document.
type Resolver struct {
	doc     *tagfile.Document
	markers []string
	cache   *lru.Cache[string, *tagfile.TypeDef]
}

// NewResolver creates a resolver for doc.
func NewResolver(doc *tagfile.Document) (*Resolver, error) {
	cache, err := lru.New[string, *tagfile.TypeDef](cacheSize)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		doc:     doc,
		markers: DefaultArrayMarkers,
		cache:   cache,
	}, nil
}

// Document returns the document the resolver reads.
func (r *Resolver) Document() *tagfile.Document {
	return r.doc
}

// TypeName returns the logical name of a type id, unwrapping arrays.
func (r *Resolver) TypeName(typeID string) (string, error) {
	t, err := r.leafType(typeID)
	if err != nil {
		return "", err
	}

	return t.Name, nil
}

// ElementTypeName returns the element type name of an array value.
func (r *Resolver) ElementTypeName(arr *tagfile.Value) (string, error) {
	if arr == nil || arr.Kind != tagfile.KindArray {
		return "", fmt.Errorf("%w: expected array, got %s", diagnostic.ErrSchemaResolution, arr.KindName())
	}

	if arr.ElementTypeID == "" {
		return "", fmt.Errorf("%w: array %s has no element type", diagnostic.ErrSchemaResolution, arr.Path())
	}

	return r.TypeName(arr.ElementTypeID)
}

// ObjectTypeName returns the class name of a top-level object.
func (r *Resolver) ObjectTypeName(obj *tagfile.Object) (string, error) {
	if name := commentTypeName(obj.Comment); name != "" {
		return name, nil
	}

	if obj.TypeID != "" {
		return r.TypeName(obj.TypeID)
	}

	return r.RecordTypeName(obj.Record)
}

// RecordTypeName returns the type name of a record, wherever it is nested.
func (r *Resolver) RecordTypeName(rec *tagfile.Value) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("%w: no record", diagnostic.ErrSchemaResolution)
	}

	if name := commentTypeName(rec.Comment); name != "" {
		return name, nil
	}

	if rec.TypeID != "" {
		return r.TypeName(rec.TypeID)
	}

	if arr := rec.Container(); arr != nil && arr.ElementTypeID != "" {
		return r.TypeName(arr.ElementTypeID)
	}

	if obj := rec.Object(); obj != nil {
		if name := commentTypeName(obj.Comment); name != "" {
			return name, nil
		}

		if obj.TypeID != "" {
			return r.TypeName(obj.TypeID)
		}
	}

	if f := rec.EnclosingField(); f != nil {
		return r.FieldTypeName(f)
	}

	return "", fmt.Errorf("%w: type of %s cannot be determined", diagnostic.ErrSchemaResolution, rec.Path())
}

// FieldTypeName returns the declared type name of a field.
func (r *Resolver) FieldTypeName(field *tagfile.Field) (string, error) {
	path := []string{field.Name}

	f := field
	for depth := 0; ; depth++ {
		if depth > maxDepth {
			return "", fmt.Errorf("%w: field %s is nested too deep", diagnostic.ErrSchemaResolution, field.Name)
		}

		ownerType, ok, err := r.typedRecord(f.Record())
		if err != nil {
			return "", err
		}

		if ok {
			return r.stepDown(ownerType, path, field)
		}

		f = f.Record().EnclosingField()
		if f == nil {
			return "", fmt.Errorf("%w: no typed ancestor for field %s", diagnostic.ErrSchemaResolution, field.Value.Path())
		}

		path = append([]string{f.Name}, path...)
	}
}

// typedRecord returns the type of a record whose type is known without
// consulting enclosing fields.
func (r *Resolver) typedRecord(rec *tagfile.Value) (*tagfile.TypeDef, bool, error) {
	typeID := rec.TypeID
	if typeID == "" {
		if obj := rec.Object(); obj != nil {
			typeID = obj.TypeID
		} else if arr := rec.Container(); arr != nil {
			typeID = arr.ElementTypeID
		}
	}

	if typeID == "" {
		return nil, false, nil
	}

	t, err := r.leafType(typeID)
	if err != nil {
		return nil, false, err
	}

	return t, true, nil
}

func (r *Resolver) stepDown(t *tagfile.TypeDef, path []string, field *tagfile.Field) (string, error) {
	for _, name := range path {
		member, ok := r.member(t, name)
		if !ok {
			return "", fmt.Errorf("%w: type %s has no field %q (resolving %s)",
				diagnostic.ErrSchemaResolution, t.Name, name, field.Value.Path())
		}

		next, err := r.leafType(member.TypeID)
		if err != nil {
			return "", err
		}

		t = next
	}

	return t.Name, nil
}

// member looks up a field declaration through the type's parent chain.
func (r *Resolver) member(t *tagfile.TypeDef, name string) (tagfile.TypeField, bool) {
	for depth := 0; t != nil && depth <= maxDepth; depth++ {
		if f, ok := t.Field(name); ok {
			return f, true
		}

		if t.ParentID == "" {
			break
		}

		parent, ok := r.doc.Type(t.ParentID)
		if !ok {
			break
		}

		t = parent
	}

	return tagfile.TypeField{}, false
}

// leafType looks up a type id and follows array wrappers to the element type.
func (r *Resolver) leafType(typeID string) (*tagfile.TypeDef, error) {
	if t, ok := r.cache.Get(typeID); ok {
		return t, nil
	}

	id := typeID
	for depth := 0; ; depth++ {
		if depth > maxDepth {
			return nil, fmt.Errorf("%w: array type chain from %s does not terminate", diagnostic.ErrSchemaResolution, typeID)
		}

		t, ok := r.doc.Type(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown type id %q", diagnostic.ErrSchemaResolution, id)
		}

		if !slices.Contains(r.markers, t.Name) {
			r.cache.Add(typeID, t)
			return t, nil
		}

		if t.SubtypeID == "" {
			return nil, fmt.Errorf("%w: array type %s has no element type", diagnostic.ErrSchemaResolution, id)
		}

		id = t.SubtypeID
	}
}

// commentTypeName extracts a type name from a "<!-- ArrayOfT -->" style comment.
func commentTypeName(comment string) string {
	return strings.TrimSpace(strings.ReplaceAll(comment, "ArrayOf", ""))
}
