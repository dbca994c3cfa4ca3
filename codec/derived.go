package codec

import (
	"encoding"
	"reflect"

	"rowbinder/primitive"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Converted adapts inner to a named type sharing its underlying type, such as
// type Celsius float64 over Float64.
func Converted(inner *Codec, typ reflect.Type) *Codec {
	if !typ.ConvertibleTo(inner.Type()) || !inner.Type().ConvertibleTo(typ) {
		panic("codec: " + typ.String() + " does not convert to " + inner.Type().String())
	}

	return NewReflect(typ.String(), typ, inner.Bound(),
		func(v reflect.Value, buf Buffer) bool {
			return inner.Format(v.Convert(inner.Type()), buf)
		},
		func(text string) (reflect.Value, bool) {
			parsed, ok := inner.Parse(text)
			if !ok {
				return reflect.Zero(typ), false
			}

			return parsed.Convert(typ), true
		},
	)
}

// IsText reports whether typ marshals itself to text and *typ unmarshals itself from it.
func IsText(typ reflect.Type) bool {
	return typ.Kind() != reflect.Pointer && typ.Kind() != reflect.Interface &&
		typ.Implements(textMarshalerType) && reflect.PointerTo(typ).Implements(textUnmarshalerType)
}

// Text builds a codec over encoding.TextMarshaler and encoding.TextUnmarshaler. A
// MarshalText error is reported as a formatting failure.
func Text(typ reflect.Type) *Codec {
	if !IsText(typ) {
		panic("codec: " + typ.String() + " is not a text marshaler")
	}

	return NewReflect("text "+typ.String(), typ, primitive.Unbounded,
		func(v reflect.Value, buf Buffer) bool {
			text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return false
			}

			return Append(buf, len(text), func(dst []byte) []byte { return append(dst, text...) })
		},
		func(text string) (reflect.Value, bool) {
			ptr := reflect.New(typ)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return reflect.Zero(typ), false
			}

			return ptr.Elem(), true
		},
	)
}
