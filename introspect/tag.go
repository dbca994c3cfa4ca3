package introspect

import (
	"fmt"
	"strconv"
	"strings"
)

// TagKey is the struct tag key read by Inspect.
const TagKey = "row"

// ParseTag parses a `row` struct tag value:
//
//	row:"name,order=N,required[=bool],emitdefault[=bool],omitdefault,include,codec=NAME,
//	     getter=METHOD,setter=METHOD,reset=METHOD,should=METHOD"
//
// The name may be empty. A lone "-" excludes the field. Every key may appear once;
// omitdefault counts as emitdefault=false.
func ParseTag(tag string) (Annotation, error) {
	a := Annotation{Source: SourceTag}

	if tag == "-" {
		a.Exclude = true

		return a, nil
	}

	parts := strings.Split(tag, ",")
	a.Name = strings.TrimSpace(parts[0])

	seen := make(map[string]bool, len(parts))

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")

		slot := key
		if key == "omitdefault" {
			slot = "emitdefault"
		}

		if seen[slot] {
			return Annotation{}, fmt.Errorf("key %q given more than once", slot)
		}

		seen[slot] = true

		if err := a.applyTagKey(key, value, hasValue); err != nil {
			return Annotation{}, err
		}
	}

	return a, nil
}

func (a *Annotation) applyTagKey(key, value string, hasValue bool) error {
	needValue := func() error {
		if !hasValue || value == "" {
			return fmt.Errorf("key %q needs a value", key)
		}

		return nil
	}

	switch key {
	case "order":
		if err := needValue(); err != nil {
			return err
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("order %q is not an integer", value)
		}

		a.Order = &n
	case "required", "emitdefault":
		b := true

		if hasValue {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s %q is not a bool", key, value)
			}

			b = parsed
		}

		if key == "required" {
			a.Required = &b
		} else {
			a.EmitDefault = &b
		}
	case "omitdefault":
		if hasValue {
			return fmt.Errorf("key %q takes no value", key)
		}

		b := false
		a.EmitDefault = &b
	case "include":
		if hasValue {
			return fmt.Errorf("key %q takes no value", key)
		}

		a.Include = true
	case "codec":
		if err := needValue(); err != nil {
			return err
		}

		a.Codec = value
	case "getter", "setter", "reset", "should":
		if err := needValue(); err != nil {
			return err
		}

		ref := Ref{Method: value}

		switch key {
		case "getter":
			a.Getter = ref
		case "setter":
			a.Setter = ref
		case "reset":
			a.Reset = ref
		default:
			a.ShouldSerialize = ref
		}
	default:
		return fmt.Errorf("unknown key %q", key)
	}

	return nil
}
