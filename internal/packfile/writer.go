package packfile

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/beevik/etree"
)

const xmlDecl = `version="1.0" encoding="us-ascii"`

// Marshal renders the packfile as ASCII XML.
func Marshal(d *Document) ([]byte, error) {
	x := etree.NewDocument()
	x.CreateProcInst("xml", xmlDecl)

	root := x.CreateElement("hkpackfile")
	root.CreateAttr("classversion", d.ClassVersion)
	root.CreateAttr("contentsversion", d.ContentsVersion)

	if d.TopLevelObject != "" {
		root.CreateAttr("toplevelobject", d.TopLevelObject)
	}

	section := root.CreateElement("hksection")
	section.CreateAttr(AttrName, DataSection)

	for _, o := range d.Objects {
		writeObject(section, o)
	}

	return render(x)
}

// WriteFile writes the packfile to the given path.
func WriteFile(d *Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to render packfile: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write packfile %s: %w", path, err)
	}

	return nil
}

func writeObject(parent *etree.Element, o *Object) {
	el := parent.CreateElement(tagObject)
	for _, a := range o.Attrs {
		el.CreateAttr(a.Key, a.Value)
	}

	for _, p := range o.Params {
		pe := el.CreateElement(tagParam)
		pe.CreateAttr(AttrName, p.Name)

		for _, a := range p.Attrs {
			pe.CreateAttr(a.Key, a.Value)
		}

		if len(p.Objects) > 0 {
			for _, sub := range p.Objects {
				writeObject(pe, sub)
			}

			continue
		}

		pe.SetText(p.Value)
	}
}

func render(x *etree.Document) ([]byte, error) {
	x.WriteSettings.CanonicalEndTags = true
	x.Indent(2)

	var buf bytes.Buffer
	if _, err := x.WriteTo(&buf); err != nil {
		return nil, err
	}

	return asciiEscape(buf.Bytes()), nil
}

// asciiEscape replaces every non-ASCII rune with a numeric character
// reference. Markup is ASCII, so only text and attribute values change.
func asciiEscape(data []byte) []byte {
	ascii := true
	for _, b := range data {
		if b >= utf8.RuneSelf {
			ascii = false
			break
		}
	}

	if ascii {
		return data
	}

	out := make([]byte, 0, len(data)+16)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r < utf8.RuneSelf {
			out = append(out, data[0])
		} else {
			out = append(out, "&#"...)
			out = strconv.AppendInt(out, int64(r), 10)
			out = append(out, ';')
		}

		data = data[size:]
	}

	return out
}
