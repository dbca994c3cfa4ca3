// Package dynamic converts untyped rows into typed values when the target type is only known
// at run time.
//
// A Resolver picks one Strategy per (target type, Shape) and returns a reusable Converter.
// Strategies are tried in order: tuple flattening, a constructor taking the whole Row, a
// constructor taking one parameter per column, a zero value filled through setters matched
// by column name, and pass-through for untyped targets. Finding none is a normal outcome
// reported by Converter.OK, not an error.
package dynamic
