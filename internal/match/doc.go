// Package match ranks field and class names by similarity, for the
// "did you mean" hints attached to unmapped fields and unknown classes.
//
// Key functions:
//   - NormalizeIdent: folds Havok member and class names for comparison
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest candidates for a name
package match
