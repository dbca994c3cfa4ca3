// Package match ranks member names by similarity so configuration errors can suggest the
// member the author most likely meant.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - ScoreTypeCompatibility: scores how well one reflect.Type stands in for another
//   - Suggest: ranks candidate members against a missing one
package match
