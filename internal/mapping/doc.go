// Package mapping builds packfile objects from tagfile records by filling
// each field of a class template with a value found in the source record.
//
// # Lookup tiers
//
// Every output field is resolved in this order; the first tier that
// produces a value wins:
//  0. Patches: a registered patcher for the field name.
//  1. Exact: a source field with the same name.
//  2. Alias: the source name the profile's renames table gives.
//  3. Indexed: "constraint3" is element 2 of the array "constraint".
//     Arrays of packed vectors are flattened into their components first.
//  4. Sibling: nested records of the source that no template field claims,
//     searched with tiers 1-4. Arrays whose element type is listed as
//     searchable contribute their first element.
//  5. Enclosing: when the record is held by a field of another record,
//     that record is searched with tiers 1-4.
//  6. Default: the profile's fixed value for the field name.
//
// A field no tier can fill fails the conversion with
// diagnostic.ErrUnmappedField.
//
// # Profile
//
// The tables the tiers consult form a Profile. The built-in profile covers
// the 2016 to 2014 cloth and physics classes; a YAML file can override it
// key by key:
//
//	renames:
//	  softContactSeperationVelocity: softContactSeparationVelocity
//	defaults:
//	  batchSizeSpu: "512"
//	ignoredClasses:
//	  - hclStateDependencyGraph
//	searchableArrayTypes:
//	  - hclSimulateOperator::Config
//	referenceOffset: 89
//	strictAmbiguity: true
package mapping
