package packfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/beevik/etree"

	"tag2pack/internal/xmlio"
)

// DictionaryRoot is the root element name of a class dictionary.
const DictionaryRoot = "Classes"

// DumpClasses appends to the dictionary at dictPath the first object of every
// class found in the data section of the packfile at packPath that the
// dictionary does not hold yet. A missing dictionary is created. It returns
// the added class names.
func DumpClasses(packPath, dictPath string) ([]string, error) {
	pack := xmlio.NewDocument()
	if err := pack.ReadFromFile(packPath); err != nil {
		return nil, fmt.Errorf("failed to read packfile %s: %w", packPath, err)
	}

	dict := xmlio.NewDocument()
	if _, err := os.Stat(dictPath); err == nil {
		if err := dict.ReadFromFile(dictPath); err != nil {
			return nil, fmt.Errorf("failed to read class dictionary %s: %w", dictPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	added, err := MergeClasses(dict, pack)
	if err != nil {
		return nil, err
	}

	data, err := render(dict)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(dictPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write class dictionary %s: %w", dictPath, err)
	}

	return added, nil
}

// MergeClasses copies class templates from a packfile document into a
// dictionary document.
func MergeClasses(dict, pack *etree.Document) ([]string, error) {
	root := pack.Root()
	if root == nil {
		return nil, errors.New("packfile has no root element")
	}

	var data *etree.Element
	for _, s := range root.SelectElements("hksection") {
		if s.SelectAttrValue(AttrName, "") == DataSection {
			data = s
			break
		}
	}

	if data == nil {
		return nil, fmt.Errorf("packfile has no %s section", DataSection)
	}

	classes := dict.Root()
	if classes == nil {
		dict.CreateProcInst("xml", xmlDecl)
		classes = dict.CreateElement(DictionaryRoot)
	}

	known := make(map[string]bool)
	for _, o := range classes.SelectElements(tagObject) {
		known[o.SelectAttrValue(AttrClass, "")] = true
	}

	var added []string

	for _, o := range data.SelectElements(tagObject) {
		class := o.SelectAttrValue(AttrClass, "")
		if class == "" || known[class] {
			continue
		}

		classes.AddChild(o.Copy())
		known[class] = true
		added = append(added, class)
	}

	return added, nil
}
