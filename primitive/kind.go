package primitive

import (
	"math"
	"net/netip"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum enumerates the scalar kinds that have a built-in textual representation.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindTime
	KindDuration
	KindUUID
	KindAddr
	KindURL
	KindNamed // named type over any bool, integer, float or string kind

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// Unbounded is returned by MaxLength for kinds whose text grows with the value.
const Unbounded = -1

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}

		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt64, KindUint64:
		return 64
	case KindFloat32:
		return 32
	case KindFloat64:
		return 64
	}
}

// MaxLength is the upper bound, in bytes, of the invariant text of any value of the kind.
//
// Floating point bounds cover the shortest round-trip form produced by strconv with the 'g'
// verb: a sign, 9 (float32) or 17 (float64) significant digits, a decimal point and the
// exponent. Kinds that grow with the value report Unbounded.
func (k KindEnum) MaxLength() int {
	switch k {
	default:
		return Unbounded
	case KindBool:
		return len("false")
	case KindInt8:
		return len("-128")
	case KindInt16:
		return len("-32768")
	case KindInt32:
		return len("-2147483648")
	case KindInt, KindInt64:
		return len("-9223372036854775808")
	case KindUint8:
		return len("255")
	case KindUint16:
		return len("65535")
	case KindUint32:
		return len("4294967295")
	case KindUint, KindUint64:
		return len("18446744073709551615")
	case KindFloat32:
		return len("-1.17549435e-38")
	case KindFloat64:
		return len("-2.2250738585072014e-308")
	case KindTime:
		// RFC 3339 with nanoseconds and a numeric zone; the year may take up to 12 digits and a sign
		return len("-292277026596-01-02T15:04:05.999999999-07:00")
	case KindDuration:
		return len("-2562047h47m16.854775808s")
	case KindUUID:
		return 36
	case KindAddr:
		// IPv6 with an embedded IPv4 tail; a zone adds its own length
		return 45
	}
}

var (
	typeTime     = reflect.TypeFor[time.Time]()
	typeDuration = reflect.TypeFor[time.Duration]()
	typeUUID     = reflect.TypeFor[uuid.UUID]()
	typeAddr     = reflect.TypeFor[netip.Addr]()
	typeURL      = reflect.TypeFor[url.URL]()
	typeBytes    = reflect.TypeFor[[]byte]()
)

// FromReflectType maps a type to its scalar kind, or 0 when the type is not a scalar.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	// check if true primitive type
	switch rtype {
	case reflect.TypeOf(false):
		return KindBool
	case reflect.TypeOf(int(0)):
		return KindInt
	case reflect.TypeOf(int8(0)):
		return KindInt8
	case reflect.TypeOf(int16(0)):
		return KindInt16
	case reflect.TypeOf(int32(0)):
		return KindInt32
	case reflect.TypeOf(int64(0)):
		return KindInt64
	case reflect.TypeOf(uint(0)):
		return KindUint
	case reflect.TypeOf(uint8(0)):
		return KindUint8
	case reflect.TypeOf(uint16(0)):
		return KindUint16
	case reflect.TypeOf(uint32(0)):
		return KindUint32
	case reflect.TypeOf(uint64(0)):
		return KindUint64
	case reflect.TypeOf(float32(0)):
		return KindFloat32
	case reflect.TypeOf(float64(0)):
		return KindFloat64
	case reflect.TypeOf(""):
		return KindString
	case typeBytes:
		return KindBytes
	case typeTime:
		return KindTime
	case typeDuration:
		return KindDuration
	case typeUUID:
		return KindUUID
	case typeAddr:
		return KindAddr
	case typeURL:
		return KindURL
	}

	// check if it's a named type over a primitive kind
	if Underlying(rtype) != 0 {
		return KindNamed
	}

	return 0
}

// Underlying maps a type to the kind of its underlying bool, number or string, ignoring the
// type name. Other types map to 0.
func Underlying(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.Bool:
		return KindBool
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.String:
		return KindString
	}
}
