// Package tuple provides fixed-arity product types for rows read without a dedicated record
// type. Arities above seven nest: the eighth field of Of8 is itself a tuple holding the rest.
package tuple

import (
	"reflect"
	"strconv"
)

// Tuple is implemented by Of1 through Of8 only.
type Tuple interface {
	// Len is the flattened number of elements, counting those nested in Rest.
	Len() int

	tuple()
}

// MaxDirect is the number of elements a tuple holds before nesting the rest.
const MaxDirect = 7

// Of1 holds 1 element.
type Of1[T1 any] struct {
	V1 T1
}

// Of2 holds 2 elements.
type Of2[T1, T2 any] struct {
	V1 T1
	V2 T2
}

// Of3 holds 3 elements.
type Of3[T1, T2, T3 any] struct {
	V1 T1
	V2 T2
	V3 T3
}

// Of4 holds 4 elements.
type Of4[T1, T2, T3, T4 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
}

// Of5 holds 5 elements.
type Of5[T1, T2, T3, T4, T5 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
}

// Of6 holds 6 elements.
type Of6[T1, T2, T3, T4, T5, T6 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
}

// Of7 holds 7 elements.
type Of7[T1, T2, T3, T4, T5, T6, T7 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
	V7 T7
}

// Of8 holds seven elements and a nested tuple with the rest.
type Of8[T1, T2, T3, T4, T5, T6, T7 any, R Tuple] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
	V7 T7
	Rest R
}

func (Of1[T1]) tuple() {}
func (Of2[T1, T2]) tuple() {}
func (Of3[T1, T2, T3]) tuple() {}
func (Of4[T1, T2, T3, T4]) tuple() {}
func (Of5[T1, T2, T3, T4, T5]) tuple() {}
func (Of6[T1, T2, T3, T4, T5, T6]) tuple() {}
func (Of7[T1, T2, T3, T4, T5, T6, T7]) tuple() {}
func (Of8[T1, T2, T3, T4, T5, T6, T7, R]) tuple() {}

func (Of1[T1]) Len() int { return 1 }
func (Of2[T1, T2]) Len() int { return 2 }
func (Of3[T1, T2, T3]) Len() int { return 3 }
func (Of4[T1, T2, T3, T4]) Len() int { return 4 }
func (Of5[T1, T2, T3, T4, T5]) Len() int { return 5 }
func (Of6[T1, T2, T3, T4, T5, T6]) Len() int { return 6 }
func (Of7[T1, T2, T3, T4, T5, T6, T7]) Len() int { return 7 }

// Len is seven plus the length of Rest.
func (t Of8[T1, T2, T3, T4, T5, T6, T7, R]) Len() int {
	if rv := reflect.ValueOf(t.Rest); !rv.IsValid() {
		// R instantiated with an interface type and left nil
		return MaxDirect
	}

	return MaxDirect + t.Rest.Len()
}

// New2 builds an Of2.
func New2[T1, T2 any](v1 T1, v2 T2) Of2[T1, T2] {
	return Of2[T1, T2]{v1, v2}
}

// New3 builds an Of3.
func New3[T1, T2, T3 any](v1 T1, v2 T2, v3 T3) Of3[T1, T2, T3] {
	return Of3[T1, T2, T3]{v1, v2, v3}
}

// New4 builds an Of4.
func New4[T1, T2, T3, T4 any](v1 T1, v2 T2, v3 T3, v4 T4) Of4[T1, T2, T3, T4] {
	return Of4[T1, T2, T3, T4]{v1, v2, v3, v4}
}

// New5 builds an Of5.
func New5[T1, T2, T3, T4, T5 any](v1 T1, v2 T2, v3 T3, v4 T4, v5 T5) Of5[T1, T2, T3, T4, T5] {
	return Of5[T1, T2, T3, T4, T5]{v1, v2, v3, v4, v5}
}

// New6 builds an Of6.
func New6[T1, T2, T3, T4, T5, T6 any](v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6) Of6[T1, T2, T3, T4, T5, T6] {
	return Of6[T1, T2, T3, T4, T5, T6]{v1, v2, v3, v4, v5, v6}
}

// New7 builds an Of7.
func New7[T1, T2, T3, T4, T5, T6, T7 any](v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6, v7 T7) Of7[T1, T2, T3, T4, T5, T6, T7] {
	return Of7[T1, T2, T3, T4, T5, T6, T7]{v1, v2, v3, v4, v5, v6, v7}
}

var tupleType = reflect.TypeFor[Tuple]()

// Is reports whether t is one of the tuple types.
func Is(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct && t.Implements(tupleType)
}

// Elements returns the flattened element types of tuple type t in order, or nil when t is not
// a tuple or its Rest is not a concrete tuple type.
func Elements(t reflect.Type) []reflect.Type {
	if !Is(t) {
		return nil
	}

	var out []reflect.Type

	for i := range min(t.NumField(), MaxDirect) {
		out = append(out, t.Field(i).Type)
	}

	rest, ok := t.FieldByName("Rest")
	if !ok {
		return out
	}

	nested := Elements(rest.Type)
	if nested == nil {
		return nil
	}

	return append(out, nested...)
}

// Field returns the name of the i-th direct field: V1 through V7, then Rest.
func Field(i int) string {
	if i == MaxDirect {
		return "Rest"
	}

	return "V" + strconv.Itoa(i+1)
}
