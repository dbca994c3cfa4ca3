package member

import (
	"fmt"
	"reflect"

	"rowbinder/codec"
)

func expectContext(role Role, name string, row, got reflect.Type, pos int) error {
	switch got {
	case contextType:
		return nil
	case reflect.PointerTo(contextType):
		return shapeErr(role, name, row, DefectPointer, "parameter %d must be codec.Context by value", pos)
	default:
		return shapeErr(role, name, row, DefectParamType, "parameter %d must be codec.Context, found %s", pos, got)
	}
}

// expectRow checks the row parameter of a func; write side funcs take *Row.
func expectRow(role Role, name string, row, got reflect.Type, pointer bool) error {
	want, other := row, reflect.PointerTo(row)
	if pointer {
		want, other = other, want
	}

	switch got {
	case want:
		return nil
	case other:
		if pointer {
			return shapeErr(role, name, row, DefectPointer, "the row must be passed as %s, found %s", want, got)
		}

		return shapeErr(role, name, row, DefectPointer, "the row must be passed by value as %s, found %s", want, got)
	default:
		return shapeErr(role, name, row, DefectParamType, "parameter 1 must be %s, found %s", want, got)
	}
}

func optionalContext(takes bool, ctx codec.Context) []reflect.Value {
	if !takes {
		return nil
	}

	return []reflect.Value{reflect.ValueOf(ctx)}
}

// checkRow panics when row is not a *want; passing the wrong row is a bug in the caller.
func checkRow(want reflect.Type, row reflect.Value) {
	if !row.IsValid() || row.Kind() != reflect.Pointer || row.Type().Elem() != want || row.IsNil() {
		panic(fmt.Sprintf("member: row must be a non-nil *%s, got %s", want, describeValue(row)))
	}
}

func describeValue(v reflect.Value) string {
	if !v.IsValid() {
		return "invalid value"
	}

	return v.Type().String()
}

// assignable reports whether a value of type from can be passed where to is expected.
func assignable(from, to reflect.Type) bool {
	return from != nil && to != nil && from.AssignableTo(to)
}
