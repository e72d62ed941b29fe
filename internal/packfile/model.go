package packfile

import (
	"slices"
	"strconv"
	"strings"
)

// Packfile header constants of the legacy revision.
const (
	ClassVersion    = "11"
	ContentsVersion = "hk_2014.1.0-r1"
	DataSection     = "__data__"

	// AttrName, AttrClass, AttrSignature and AttrNumElements are the attribute keys
	// the converter reads or rewrites.
	AttrName        = "name"
	AttrClass       = "class"
	AttrSignature   = "signature"
	AttrNumElements = "numelements"
)

// Attr is one XML attribute.
type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute list.
type Attrs []Attr

// Get returns the value of key.
func (a Attrs) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}

	return "", false
}

// With returns a copy with key set to value, keeping the position of an
// existing key.
func (a Attrs) With(key, value string) Attrs {
	out := slices.Clone(a)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}

	return append(out, Attr{Key: key, Value: value})
}

// ObjectTemplate is the skeleton of one packfile object.
type ObjectTemplate struct {
	Attrs  Attrs
	Fields []*FieldTemplate
}

// Class returns the class attribute, which is empty for embedded structs.
func (t *ObjectTemplate) Class() string {
	c, _ := t.Attrs.Get(AttrClass)
	return c
}

// Field returns the field template with the given name.
func (t *ObjectTemplate) Field(name string) (*FieldTemplate, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// FieldNames returns the names of all fields, in template order.
func (t *ObjectTemplate) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}

	return names
}

// FieldTemplate is the skeleton of one hkparam.
type FieldTemplate struct {
	Name string
	// Attrs holds the attributes other than name, e.g. numelements.
	Attrs       Attrs
	Placeholder string
	// Sub is the nested object skeleton of a record or array of records.
	Sub *ObjectTemplate
}

// IsVector reports whether the placeholder is written as bracketed vectors.
func (f *FieldTemplate) IsVector() bool {
	return strings.Contains(f.Placeholder, "(")
}

// Scalar builds a param holding text.
func (f *FieldTemplate) Scalar(value string) *Param {
	return &Param{Name: f.Name, Attrs: slices.Clone(f.Attrs), Value: value}
}

// Nested builds a param holding objects.
func (f *FieldTemplate) Nested(objects []*Object) *Param {
	return &Param{Name: f.Name, Attrs: slices.Clone(f.Attrs), Objects: objects}
}

// Object is one output object, top-level or embedded.
type Object struct {
	Attrs  Attrs
	Params []*Param
}

// NewObject starts an output object with the template's attributes.
func NewObject(t *ObjectTemplate) *Object {
	return &Object{Attrs: slices.Clone(t.Attrs), Params: make([]*Param, 0, len(t.Fields))}
}

// Name returns the object's packfile name.
func (o *Object) Name() string {
	n, _ := o.Attrs.Get(AttrName)
	return n
}

// Class returns the object's class.
func (o *Object) Class() string {
	c, _ := o.Attrs.Get(AttrClass)
	return c
}

// Param returns the param with the given name.
func (o *Object) Param(name string) (*Param, bool) {
	for _, p := range o.Params {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// Param is one populated hkparam.
type Param struct {
	Name    string
	Attrs   Attrs
	Value   string
	Objects []*Object
}

// SetCount rewrites numelements when the template declares it.
func (p *Param) SetCount(n int) {
	if _, ok := p.Attrs.Get(AttrNumElements); ok {
		p.Attrs = p.Attrs.With(AttrNumElements, strconv.Itoa(n))
	}
}

// Document is an output packfile.
type Document struct {
	ClassVersion    string
	ContentsVersion string
	TopLevelObject  string
	Objects         []*Object
}

// NewDocument creates an empty packfile of the legacy revision.
func NewDocument() *Document {
	return &Document{
		ClassVersion:    ClassVersion,
		ContentsVersion: ContentsVersion,
	}
}

// Append adds a fully built object to the data section.
func (d *Document) Append(o *Object) {
	d.Objects = append(d.Objects, o)
}
