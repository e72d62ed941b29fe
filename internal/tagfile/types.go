package tagfile

import (
	"fmt"
	"strconv"
	"strings"
)

// NullID is the object id a tagfile uses for "no reference".
const NullID = "object0"

// Kind identifies the shape of a value node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPointer
	KindInteger
	KindReal
	KindString
	KindBool
	KindArray
	KindRecord
)

// String returns the tagfile element name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPointer:
		return "pointer"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// TypeDef is one entry of the type table.
type TypeDef struct {
	ID        string
	Name      string
	ParentID  string
	SubtypeID string
	Fields    []TypeField
}

// TypeField declares the type of one member of a record type.
type TypeField struct {
	Name   string
	TypeID string
}

// Field returns the declared member with the given name.
func (t *TypeDef) Field(name string) (TypeField, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return TypeField{}, false
}

// Document is a parsed tagfile.
type Document struct {
	Version    string
	SDKVersion string
	Types      []*TypeDef
	Objects    []*Object

	typesByID   map[string]*TypeDef
	objectsByID map[string]*Object
}

// Type returns the type table entry with the given id.
func (d *Document) Type(id string) (*TypeDef, bool) {
	t, ok := d.typesByID[id]
	return t, ok
}

// Object returns the object with the given id.
func (d *Document) Object(id string) (*Object, bool) {
	o, ok := d.objectsByID[id]
	return o, ok
}

// Deref follows a pointer value to the record of the object it references.
func (d *Document) Deref(ptr *Value) (*Value, error) {
	if ptr == nil || ptr.Kind != KindPointer {
		return nil, fmt.Errorf("expected pointer, got %s", ptr.KindName())
	}

	if ptr.IsNull() {
		return nil, fmt.Errorf("null pointer in field %s", ptr.Path())
	}

	obj, ok := d.Object(ptr.Text)
	if !ok {
		return nil, fmt.Errorf("pointer %s in field %s references a missing object", ptr.Text, ptr.Path())
	}

	return obj.Record, nil
}

// Object is a top-level tagfile object.
type Object struct {
	ID      string
	TypeID  string
	Comment string
	Record  *Value
}

// Field is a named member of a record.
type Field struct {
	Name  string
	Value *Value

	record *Value
}

// Record returns the record that owns the field.
func (f *Field) Record() *Value {
	return f.record
}

// Value is one value node.
type Value struct {
	Kind Kind
	// Text is the pointer id, integer value, real decimal text, or string/bool value.
	Text string
	// Hex is the exact bit pattern of a real, when present.
	Hex string
	ElementTypeID string
	// TypeID is the explicit type of a record, when present.
	TypeID string
	// Comment is a leading type comment of a record.
	Comment  string
	Elements []*Value
	Fields   []*Field
	// Index is the position of the node within its containing array.
	Index int

	field  *Field
	array  *Value
	object *Object
}

// KindName returns the kind name, tolerating a nil receiver.
func (v *Value) KindName() string {
	if v == nil {
		return "nothing"
	}

	return v.Kind.String()
}

// Field returns the member with the given name of a record.
func (v *Value) Field(name string) (*Field, bool) {
	if v == nil {
		return nil, false
	}

	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// Get returns the value of the member with the given name of a record.
func (v *Value) Get(name string) (*Value, bool) {
	f, ok := v.Field(name)
	if !ok {
		return nil, false
	}

	return f.Value, true
}

// OwnerField returns the field that directly holds the node, or nil.
func (v *Value) OwnerField() *Field {
	return v.field
}

// Container returns the array that directly holds the node, or nil.
func (v *Value) Container() *Value {
	return v.array
}

// Object returns the object whose record the node is, or nil.
func (v *Value) Object() *Object {
	return v.object
}

// EnclosingField returns the nearest field above the node, skipping arrays.
func (v *Value) EnclosingField() *Field {
	for n := v; n != nil; n = n.array {
		if n.field != nil {
			return n.field
		}
	}

	return nil
}

// Root returns the object that contains the node.
func (v *Value) Root() *Object {
	n := v
	for n != nil {
		if n.object != nil {
			return n.object
		}

		switch {
		case n.array != nil:
			n = n.array
		case n.field != nil:
			n = n.field.record
		default:
			return nil
		}
	}

	return nil
}

// Path renders the field path of the node from its object, for messages.
func (v *Value) Path() string {
	var parts []string

	n := v
	for n != nil {
		switch {
		case n.array != nil:
			parts = append(parts, "["+strconv.Itoa(n.Index)+"]")
			n = n.array
		case n.field != nil:
			parts = append(parts, "."+n.field.Name)
			n = n.field.record
		default:
			if n.object != nil {
				parts = append(parts, n.object.ID)
			}

			n = nil
		}
	}

	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}

	return strings.TrimPrefix(b.String(), ".")
}

// IsNull reports whether a pointer node denotes "no reference".
func (v *Value) IsNull() bool {
	return v.Kind == KindPointer && (v.Text == "" || v.Text == NullID)
}
