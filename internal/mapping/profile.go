package mapping

import (
	"maps"
	"slices"

	"tag2pack/internal/transcode"
)

// Profile holds the tables the mapping engine and patchers consult.
type Profile struct {
	// Renames maps output field names to the source field names they were renamed from.
	Renames map[string]string `yaml:"renames,omitempty"`
	// Defaults fills output fields the source no longer carries.
	Defaults map[string]string `yaml:"defaults,omitempty"`
	// IgnoredClasses are source classes that are dropped without a template.
	IgnoredClasses []string `yaml:"ignoredClasses,omitempty"`
	// SearchableArrayTypes are array element types the sibling tier looks into.
	SearchableArrayTypes []string `yaml:"searchableArrayTypes,omitempty"`
	// PackedVectorTypes are record types flattened by the indexed tier.
	PackedVectorTypes []string `yaml:"packedVectorTypes,omitempty"`
	// TransformTypes are records written as concatenated vector rows.
	TransformTypes []string `yaml:"transformTypes,omitempty"`
	// ReferenceOffset shifts the ids written by the referencedObjects patcher.
	ReferenceOffset int `yaml:"referenceOffset"`
	// StrictAmbiguity fails a field that more than one sibling record could fill.
	StrictAmbiguity bool `yaml:"strictAmbiguity"`
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() *Profile {
	return &Profile{
		Renames: map[string]string{
			"softContactSeperationVelocity": "softContactSeparationVelocity",
		},
		Defaults: map[string]string{
			"subSteps":     "0",
			"isShared":     "false",
			"batchSizeSpu": "512",
			"padding":      "0",
		},
		IgnoredClasses:       []string{"hclStateDependencyGraph"},
		SearchableArrayTypes: []string{"hclSimulateOperator::Config"},
		PackedVectorTypes:    []string{"hkPackedVector3"},
		TransformTypes:       slices.Clone(transcode.DefaultTransformTypes),
		ReferenceOffset:      89,
	}
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Renames = maps.Clone(p.Renames)
	c.Defaults = maps.Clone(p.Defaults)
	c.IgnoredClasses = slices.Clone(p.IgnoredClasses)
	c.SearchableArrayTypes = slices.Clone(p.SearchableArrayTypes)
	c.PackedVectorTypes = slices.Clone(p.PackedVectorTypes)
	c.TransformTypes = slices.Clone(p.TransformTypes)

	return &c
}

// IsIgnored reports whether a source class is dropped.
func (p *Profile) IsIgnored(class string) bool {
	return slices.Contains(p.IgnoredClasses, class)
}

// IsSearchable reports whether the sibling tier looks into arrays of elemType.
func (p *Profile) IsSearchable(elemType string) bool {
	return slices.Contains(p.SearchableArrayTypes, elemType)
}

// IsPackedVector reports whether records of typeName are packed vectors.
func (p *Profile) IsPackedVector(typeName string) bool {
	return slices.Contains(p.PackedVectorTypes, typeName)
}
