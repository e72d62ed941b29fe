// Package packfile provides the legacy packfile side of the conversion: the
// per-class template dictionary, the output object model, and the XML
// writer.
//
// Templates are read-only. Output objects are always built fresh from a
// template and never share nodes with it.
package packfile
