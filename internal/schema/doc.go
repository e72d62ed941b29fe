// Package schema resolves logical type names from a tagfile's type table.
//
// Array wrapper types (hkArray, hkRelArray) are unwrapped down to their leaf
// element type, so "array of array of real" resolves to "real". Fields
// without a usable type id are resolved by walking up to the nearest typed
// record and stepping back down that type's field table along the path.
//
// Every failure wraps diagnostic.ErrSchemaResolution. A wrong type name
// would silently select the wrong transcoding rule, so nothing defaults.
package schema
