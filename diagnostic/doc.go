// Package diagnostic collects configuration problems found while describing a type, so a
// single call can report every defect at once.
//
// Each Diagnostic carries a stable Code, the type it concerns, the member path inside that
// type and optional "did you mean" suggestions.
package diagnostic
