package packfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"

	"tag2pack/internal/xmlio"
)

const (
	tagObject = "hkobject"
	tagParam  = "hkparam"
)

// Dictionary maps class names to object templates.
type Dictionary struct {
	classes map[string]*ObjectTemplate
	order   []string
}

// LoadDictionary reads a template dictionary from the given path.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class dictionary %s: %w", path, err)
	}

	d, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// ParseDictionary parses a template dictionary: any root element holding
// one hkobject per class.
func ParseDictionary(data []byte) (*Dictionary, error) {
	x := xmlio.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse class dictionary XML: %w", err)
	}

	root := x.Root()
	if root == nil {
		return nil, errors.New("class dictionary has no root element")
	}

	d := &Dictionary{classes: make(map[string]*ObjectTemplate)}

	for _, el := range root.SelectElements(tagObject) {
		t, err := parseObjectTemplate(el)
		if err != nil {
			return nil, err
		}

		class := t.Class()
		if class == "" {
			return nil, errors.New("class dictionary entry without class attribute")
		}

		if _, dup := d.classes[class]; dup {
			return nil, fmt.Errorf("duplicate template for class %s", class)
		}

		d.classes[class] = t
		d.order = append(d.order, class)
	}

	return d, nil
}

// Class returns the template of a class.
func (d *Dictionary) Class(name string) (*ObjectTemplate, bool) {
	t, ok := d.classes[name]
	return t, ok
}

// Names returns all class names in dictionary order.
func (d *Dictionary) Names() []string {
	return append([]string(nil), d.order...)
}

// Len returns the number of classes.
func (d *Dictionary) Len() int {
	return len(d.order)
}

func parseObjectTemplate(el *etree.Element) (*ObjectTemplate, error) {
	t := &ObjectTemplate{Attrs: attrsOf(el)}

	for _, p := range el.SelectElements(tagParam) {
		name := p.SelectAttrValue(AttrName, "")
		if name == "" {
			return nil, fmt.Errorf("%s template has an hkparam without name", t.Class())
		}

		f := &FieldTemplate{
			Name:        name,
			Placeholder: strings.TrimSpace(p.Text()),
		}

		for _, a := range attrsOf(p) {
			if a.Key != AttrName {
				f.Attrs = append(f.Attrs, a)
			}
		}

		if sub := p.SelectElement(tagObject); sub != nil {
			st, err := parseObjectTemplate(sub)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Class(), name, err)
			}

			f.Sub = st
		}

		t.Fields = append(t.Fields, f)
	}

	return t, nil
}

func attrsOf(el *etree.Element) Attrs {
	attrs := make(Attrs, 0, len(el.Attr))
	for _, a := range el.Attr {
		attrs = append(attrs, Attr{Key: a.FullKey(), Value: a.Value})
	}

	return attrs
}
