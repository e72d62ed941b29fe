// Package xmlio sets up XML documents the way Havok files need them read.
package xmlio

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/htmlindex"
)

// NewDocument returns an empty document whose reader decodes declared
// non-UTF-8 encodings such as "ascii" or "windows-1252".
func NewDocument() *etree.Document {
	d := etree.NewDocument()
	d.ReadSettings.CharsetReader = CharsetReader

	return d
}

// CharsetReader converts input in the labelled encoding to UTF-8.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported XML encoding %q: %w", label, err)
	}

	return enc.NewDecoder().Reader(input), nil
}
