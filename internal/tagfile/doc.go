// Package tagfile provides the immutable in-memory model of a Havok XML
// tagfile: the type table and the object table with its nested records,
// fields and value nodes.
//
// Every value node keeps a link to the field, array or object that owns it so
// that schema resolution can walk from any node up to a typed ancestor.
// Documents are built once by Parse or Load and never mutated afterwards.
package tagfile
