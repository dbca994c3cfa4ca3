package codec

import (
	"fmt"
	"reflect"
)

// FormatFunc writes the text of v, a value of the codec's type, into buf.
type FormatFunc func(v reflect.Value, buf Buffer) bool

// ParseFunc converts text into a value of the codec's type.
type ParseFunc func(text string) (reflect.Value, bool)

// Codec is an immutable format/parse pair for one Go type.
type Codec struct {
	name   string
	typ    reflect.Type
	bound  int
	format FormatFunc
	parse  ParseFunc
}

// NewReflect builds a codec from untyped functions. Bound is the largest number of bytes
// format requests for any value, or primitive.Unbounded when it depends on the value.
func NewReflect(name string, typ reflect.Type, bound int, format FormatFunc, parse ParseFunc) *Codec {
	if typ == nil || format == nil || parse == nil {
		panic("codec: type, format and parse are required")
	}

	if name == "" {
		name = typ.String()
	}

	return &Codec{name: name, typ: typ, bound: bound, format: format, parse: parse}
}

// New builds a codec for T from typed functions.
func New[T any](name string, bound int, format func(T, Buffer) bool, parse func(string) (T, bool)) *Codec {
	typ := reflect.TypeFor[T]()

	return NewReflect(name, typ, bound,
		func(v reflect.Value, buf Buffer) bool {
			return format(v.Interface().(T), buf)
		},
		func(text string) (reflect.Value, bool) {
			parsed, ok := parse(text)
			if !ok {
				return reflect.Zero(typ), false
			}

			return valueOf(parsed), true
		},
	)
}

// valueOf keeps the static type of v even when T is an interface type.
func valueOf[T any](v T) reflect.Value {
	return reflect.ValueOf(&v).Elem()
}

// Name identifies the codec in diagnostics.
func (c *Codec) Name() string { return c.name }

// Type is the type the codec formats and produces.
func (c *Codec) Type() reflect.Type { return c.typ }

// Bound is the declared upper bound of a formatted value, or a negative value when the
// length depends on the value.
func (c *Codec) Bound() int { return c.bound }

// Format writes v into buf. It reports false only when buf could not grow enough; the
// caller may retry with a larger buffer.
func (c *Codec) Format(v reflect.Value, buf Buffer) bool {
	if !v.IsValid() {
		panic(fmt.Sprintf("codec %s: formatting an invalid value", c.name))
	}

	if v.Type() != c.typ {
		if !v.Type().AssignableTo(c.typ) {
			panic(fmt.Sprintf("codec %s: cannot format %s", c.name, v.Type()))
		}

		converted := reflect.New(c.typ).Elem()
		converted.Set(v)
		v = converted
	}

	return c.format(v, buf)
}

// Parse converts text into a value of Type. On failure the returned value is the zero
// value of Type.
func (c *Codec) Parse(text string) (reflect.Value, bool) {
	return c.parse(text)
}

// FormatString is a convenience wrapper formatting v into a fresh unbounded buffer.
func (c *Codec) FormatString(v any) (string, bool) {
	var buf Growable
	if !c.Format(reflect.ValueOf(v), &buf) {
		return "", false
	}

	return buf.String(), true
}

// String implements fmt.Stringer.
func (c *Codec) String() string {
	return "codec(" + c.name + ")"
}
