package match

import "reflect"

// TypeCompatibility represents how well a value of one type can stand in for another.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means a pointer must be dereferenced or taken first.
	TypeNeedsTransform
	// TypeConvertible means a Go conversion bridges the types.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return "identical"
	case TypeAssignable:
		return "assignable"
	case TypeConvertible:
		return "convertible"
	case TypeNeedsTransform:
		return "needs_transform"
	case TypeIncompatible:
		return "incompatible"
	default:
		return "unknown"
	}
}

// ScoreTypeCompatibility grades source against target, looking through one level of
// pointer on either side.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibility {
	if direct := scoreDirect(source, target); direct != TypeIncompatible {
		return direct
	}

	if source.Kind() == reflect.Pointer && scoreDirect(source.Elem(), target) >= TypeConvertible {
		return TypeNeedsTransform
	}

	if target.Kind() == reflect.Pointer && scoreDirect(source, target.Elem()) >= TypeConvertible {
		return TypeNeedsTransform
	}

	return TypeIncompatible
}

func scoreDirect(source, target reflect.Type) TypeCompatibility {
	switch {
	case source == nil || target == nil:
		return TypeIncompatible
	case source == target:
		return TypeIdentical
	case source.AssignableTo(target):
		return TypeAssignable
	case source.ConvertibleTo(target):
		return TypeConvertible
	default:
		return TypeIncompatible
	}
}
