// Package convert runs a whole tagfile through the mapping engine and
// assembles the packfile.
//
// Conversion pipeline:
//  1. Resolve each source object's class through the type table
//  2. Drop classes the profile ignores
//  3. Look up the class template; without one the object is skipped with a
//     warning, or the run fails in strict mode
//  4. Build the object (patchers first, then the lookup tiers)
//  5. Name it after its source id and append it in source order
package convert
