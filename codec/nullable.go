package codec

import (
	"reflect"
)

// Nullable wraps inner into a codec for *T. The empty text parses to nil and nil formats
// to nothing; everything else is delegated to inner.
func Nullable(inner *Codec) *Codec {
	elem := inner.Type()
	typ := reflect.PointerTo(elem)

	return NewReflect("nullable "+inner.Name(), typ, inner.Bound(),
		func(v reflect.Value, buf Buffer) bool {
			if v.IsNil() {
				return true
			}

			return inner.Format(v.Elem(), buf)
		},
		func(text string) (reflect.Value, bool) {
			if text == "" {
				return reflect.Zero(typ), true
			}

			parsed, ok := inner.Parse(text)
			if !ok {
				return reflect.Zero(typ), false
			}

			ptr := reflect.New(elem)
			ptr.Elem().Set(parsed)

			return ptr, true
		},
	)
}
