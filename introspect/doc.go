// Package introspect reports what a Go type offers for row binding: its fields (embedded
// structs flattened), the methods and funcs it registers, its declared constructors and
// every annotation attached to them.
//
// Annotations come from three independent sources, kept apart so conflicts between them can
// be reported:
//
//   - the `row` struct tag on fields
//   - a DescribeRow(*Hints) method on the type, the registration DSL
//   - an optional YAML overlay keyed by the type's package path and name
//
// Inspect never decides anything; describe applies the discovery rules on top.
package introspect
