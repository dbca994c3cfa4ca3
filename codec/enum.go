package codec

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Integer is the set of types an enum codec can be declared over.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// EnumMember is one declared name of an enum type.
type EnumMember[T Integer] struct {
	Name  string
	Value T
}

// decimalBound covers the decimal fallback of undeclared values.
const decimalBound = 20

// Enum builds a codec for a plain enum: the text must be exactly one declared name.
// Numeric text is rejected even when it matches a declared value. Undeclared values
// format as their decimal value, which the codec will not parse back.
//
// Enum panics on empty or duplicate names.
func Enum[T Integer](members ...EnumMember[T]) *Codec {
	checkMembers(members, false)

	byName := make(map[string]T, len(members))
	byValue := make(map[T]string, len(members))
	bound := decimalBound

	for _, m := range members {
		byName[m.Name] = m.Value
		if _, dup := byValue[m.Value]; !dup {
			byValue[m.Value] = m.Name
		}

		bound = max(bound, len(m.Name))
	}

	return New(enumName[T]("enum"), bound,
		func(v T, buf Buffer) bool {
			if name, ok := byValue[v]; ok {
				return WriteString(buf, name)
			}

			return Append(buf, decimalBound, func(dst []byte) []byte { return appendDecimal(dst, v) })
		},
		func(text string) (T, bool) {
			v, ok := byName[text]

			return v, ok
		},
	)
}

// Flags builds a codec for a bitwise combinable enum. Values format as the declared names
// of their set bits joined by ", "; parsing accepts any comma or space separated subset of
// declared names and rejects every other token.
//
// Flags panics on empty or duplicate names and on names containing separators.
func Flags[T Integer](members ...EnumMember[T]) *Codec {
	checkMembers(members, true)

	byName := make(map[string]T, len(members))
	total := 0

	for _, m := range members {
		byName[m.Name] = m.Value
		total += len(m.Name) + len(", ")
	}

	// largest values first so composite names win over their parts
	decompose := slices.Clone(members)
	slices.SortStableFunc(decompose, func(a, b EnumMember[T]) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return 0
		}
	})

	var zeroName string
	for _, m := range members {
		if m.Value == 0 {
			zeroName = m.Name

			break
		}
	}

	bound := max(total, decimalBound)

	return New(enumName[T]("flags"), bound,
		func(v T, buf Buffer) bool {
			if v == 0 && zeroName != "" {
				return WriteString(buf, zeroName)
			}

			names, ok := flagNames(decompose, v)
			if !ok {
				return Append(buf, decimalBound, func(dst []byte) []byte { return appendDecimal(dst, v) })
			}

			return WriteString(buf, strings.Join(names, ", "))
		},
		func(text string) (T, bool) {
			tokens := strings.FieldsFunc(text, isFlagSeparator)
			if len(tokens) == 0 {
				return 0, false
			}

			var v T
			for _, tok := range tokens {
				bit, ok := byName[tok]
				if !ok {
					return 0, false
				}

				v |= bit
			}

			return v, true
		},
	)
}

func flagNames[T Integer](decompose []EnumMember[T], v T) ([]string, bool) {
	var picked []EnumMember[T]

	rest := v
	for _, m := range decompose {
		if m.Value == 0 || rest&m.Value != m.Value {
			continue
		}

		picked = append(picked, m)
		rest &^= m.Value
	}

	if rest != 0 || len(picked) == 0 {
		return nil, false
	}

	names := make([]string, len(picked))
	for i := range picked {
		// ascending value order
		names[i] = picked[len(picked)-1-i].Name
	}

	return names, true
}

func isFlagSeparator(r rune) bool {
	return r == ',' || r == ' '
}

func checkMembers[T Integer](members []EnumMember[T], flags bool) {
	if len(members) == 0 {
		panic(fmt.Sprintf("codec: %s declares no members", reflect.TypeFor[T]()))
	}

	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Name == "" {
			panic(fmt.Sprintf("codec: %s declares an empty member name", reflect.TypeFor[T]()))
		}

		if _, dup := seen[m.Name]; dup {
			panic(fmt.Sprintf("codec: %s declares %q more than once", reflect.TypeFor[T](), m.Name))
		}

		if flags && strings.ContainsFunc(m.Name, isFlagSeparator) {
			panic(fmt.Sprintf("codec: flags member %q of %s contains a separator", m.Name, reflect.TypeFor[T]()))
		}

		seen[m.Name] = struct{}{}
	}
}

func enumName[T Integer](prefix string) string {
	return prefix + " " + reflect.TypeFor[T]().String()
}

func appendDecimal[T Integer](dst []byte, v T) []byte {
	if reflect.TypeFor[T]().Kind() >= reflect.Uint && reflect.TypeFor[T]().Kind() <= reflect.Uintptr {
		return strconv.AppendUint(dst, uint64(v), 10)
	}

	return strconv.AppendInt(dst, int64(v), 10)
}
