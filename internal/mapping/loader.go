package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads a YAML profile from the given path on top of the
// built-in profile.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Parse applies YAML data to a copy of the built-in profile. Tables are
// merged key by key, lists and scalars replace the built-in value.
func Parse(data []byte) (*Profile, error) {
	p := DefaultProfile()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	if p.ReferenceOffset < 0 {
		return nil, fmt.Errorf("referenceOffset must not be negative, got %d", p.ReferenceOffset)
	}

	return p, nil
}

// Marshal serializes a profile to YAML.
func Marshal(p *Profile) ([]byte, error) {
	return yaml.Marshal(p)
}

// WriteFile writes a profile to the given path.
func WriteFile(p *Profile, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", path, err)
	}

	return nil
}
