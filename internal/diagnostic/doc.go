// Package diagnostic provides the error kinds, structured warnings and the
// run report of a tagfile to packfile conversion.
//
// Key capabilities:
//   - Sentinel errors for every fatal condition (schema, template, unmapped field)
//   - Unknown class and structural warnings that let a conversion continue
//   - Info records for skipped classes
//   - A JSON run report for tooling
package diagnostic
