package tagfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"tag2pack/internal/diagnostic"
	"tag2pack/internal/xmlio"
)

// RootTag is the root element name of a tagfile document.
const RootTag = "hktagfile"

// LoadFile reads and parses a tagfile from the given path. Zstandard
// compressed files are decompressed transparently.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tagfile %s: %w", path, err)
	}

	if IsZstd(data) {
		data, err = Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress tagfile %s: %w", path, err)
		}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Parse parses tagfile XML.
func Parse(data []byte) (*Document, error) {
	x := xmlio.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse tagfile XML: %w", err)
	}

	root := x.Root()
	if root == nil {
		return nil, errors.New("tagfile has no root element")
	}

	if root.Tag != RootTag {
		return nil, fmt.Errorf("expected <%s> root, got <%s>", RootTag, root.Tag)
	}

	doc := &Document{
		Version:     root.SelectAttrValue("version", ""),
		SDKVersion:  root.SelectAttrValue("sdkversion", ""),
		typesByID:   make(map[string]*TypeDef),
		objectsByID: make(map[string]*Object),
	}

	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "type":
			t := parseType(el)
			if _, dup := doc.typesByID[t.ID]; dup {
				return nil, fmt.Errorf("duplicate type id %q", t.ID)
			}

			doc.Types = append(doc.Types, t)
			doc.typesByID[t.ID] = t

		case "object":
			obj, err := parseObject(el)
			if err != nil {
				return nil, err
			}

			if _, dup := doc.objectsByID[obj.ID]; dup {
				return nil, fmt.Errorf("duplicate object id %q", obj.ID)
			}

			doc.Objects = append(doc.Objects, obj)
			doc.objectsByID[obj.ID] = obj
		}
	}

	return doc, nil
}

func parseType(el *etree.Element) *TypeDef {
	t := &TypeDef{
		ID:        el.SelectAttrValue("id", ""),
		Name:      childAttr(el, "name", "value"),
		ParentID:  childAttr(el, "parent", "id"),
		SubtypeID: childAttr(el, "subtype", "id"),
	}

	if fields := el.SelectElement("fields"); fields != nil {
		for _, f := range fields.SelectElements("field") {
			t.Fields = append(t.Fields, TypeField{
				Name:   f.SelectAttrValue("name", ""),
				TypeID: f.SelectAttrValue("typeid", ""),
			})
		}
	}

	return t
}

func parseObject(el *etree.Element) (*Object, error) {
	obj := &Object{
		ID:      el.SelectAttrValue("id", ""),
		TypeID:  el.SelectAttrValue("typeid", ""),
		Comment: leadingComment(el),
	}

	if obj.ID == "" {
		return nil, errors.New("object without id")
	}

	recEl := el.SelectElement("record")
	if recEl == nil {
		return nil, fmt.Errorf("object %s has no record", obj.ID)
	}

	rec, err := parseValue(recEl)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", obj.ID, err)
	}

	if rec.Kind != KindRecord {
		return nil, fmt.Errorf("object %s: expected record, got %s", obj.ID, rec.Kind)
	}

	rec.object = obj
	obj.Record = rec

	return obj, nil
}

func parseValue(el *etree.Element) (*Value, error) {
	v := &Value{}

	switch el.Tag {
	case "pointer":
		v.Kind = KindPointer
		v.Text = el.SelectAttrValue("id", "")

	case "integer":
		v.Kind = KindInteger
		v.Text = el.SelectAttrValue("value", "")

	case "real":
		v.Kind = KindReal
		v.Text = el.SelectAttrValue("dec", "")
		v.Hex = el.SelectAttrValue("hex", "")

	case "bool":
		v.Kind = KindBool
		v.Text = el.SelectAttrValue("value", "")

	case "string":
		v.Kind = KindString
		v.Text = el.SelectAttrValue("value", "")

	case "array":
		v.Kind = KindArray
		v.ElementTypeID = el.SelectAttrValue("elementtypeid", "")

		for i, child := range el.ChildElements() {
			elem, err := parseValue(child)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}

			elem.array = v
			elem.Index = i
			v.Elements = append(v.Elements, elem)
		}

		if raw := el.SelectAttrValue("count", ""); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid array count %q", diagnostic.ErrSchemaResolution, raw)
			}

			if n != len(v.Elements) {
				return nil, fmt.Errorf("%w: array count %d but %d elements",
					diagnostic.ErrSchemaResolution, n, len(v.Elements))
			}
		}

	case "record":
		v.Kind = KindRecord
		v.TypeID = el.SelectAttrValue("typeid", "")
		v.Comment = leadingComment(el)

		for _, fieldEl := range el.SelectElements("field") {
			f, err := parseField(fieldEl)
			if err != nil {
				return nil, err
			}

			f.record = v
			v.Fields = append(v.Fields, f)
		}

	default:
		if len(el.ChildElements()) > 0 {
			return nil, fmt.Errorf("unexpected element <%s>", el.Tag)
		}

		// Unknown scalar elements keep their value text.
		v.Kind = KindString
		v.Text = el.SelectAttrValue("value", "")
	}

	return v, nil
}

func parseField(el *etree.Element) (*Field, error) {
	f := &Field{Name: el.SelectAttrValue("name", "")}
	if f.Name == "" {
		return nil, errors.New("field without name")
	}

	children := el.ChildElements()
	if len(children) != 1 {
		return nil, fmt.Errorf("field %s: expected one value, got %d", f.Name, len(children))
	}

	v, err := parseValue(children[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}

	v.field = f
	f.Value = v

	return f, nil
}

func childAttr(el *etree.Element, tag, attr string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}

	return child.SelectAttrValue(attr, "")
}

// leadingComment returns the text of a comment that is the first
// non-whitespace child of el.
func leadingComment(el *etree.Element) string {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Comment:
			return strings.TrimSpace(t.Data)
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return ""
			}
		default:
			return ""
		}
	}

	return ""
}
