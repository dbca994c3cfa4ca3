// Package member models a single column's read and write contract.
//
// A Serializable member reads a value out of a record (Getter) and writes it as text
// (Formatter); a Deserializable member parses text (Parser) and stores it into a record
// (Setter). Optional ShouldSerialize and Reset hooks refine both sides, and an
// InstanceProvider says how new records come to be.
//
// Every getter, setter and hook is backed by exactly one Backing variant: Field, Method,
// Func, ConstructorParameter or Codec. The set is closed so callers can switch over it
// exhaustively.
//
// Rows are always handled through a pointer: the row argument of Get, Set, Reset and
// ShouldSerialize is a reflect.Value of type *T.
//
// Shape templates (receiver excluded, Ctx is codec.Context):
//
//	Getter           method () V | (Ctx) V        func () V | (Ctx) V | (T) V | (T, Ctx) V
//	Setter           method (V) | (V, Ctx)        func (V) | (V, Ctx) | (*T, V) | (*T, V, Ctx)
//	Reset            method () | (Ctx)            func () | (Ctx) | (*T) | (*T, Ctx)
//	ShouldSerialize  method () bool | (Ctx) bool  func () bool | (Ctx) bool | (T) bool | (T, Ctx) bool
//	Formatter        func (V, Ctx, codec.Buffer) bool
//	Parser           func (string, Ctx) (V, bool)
//	Constructor      func (P1, ..., Pn) T | *T
//	Factory          func () (T, bool) | (Ctx) (T, bool), or *T in place of T
//
// Setter and Reset methods must have pointer receivers. Any mismatch is a *ShapeError
// carrying the specific Defect.
package member
