package codec

import (
	"encoding/base64"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rowbinder/primitive"
)

// Built-in codecs, one per scalar kind.
var (
	Bool     = New("bool", primitive.KindBool.MaxLength(), formatBool, parseBool)
	Int      = signed[int](primitive.KindInt)
	Int8     = signed[int8](primitive.KindInt8)
	Int16    = signed[int16](primitive.KindInt16)
	Int32    = signed[int32](primitive.KindInt32)
	Int64    = signed[int64](primitive.KindInt64)
	Uint     = unsigned[uint](primitive.KindUint)
	Uint8    = unsigned[uint8](primitive.KindUint8)
	Uint16   = unsigned[uint16](primitive.KindUint16)
	Uint32   = unsigned[uint32](primitive.KindUint32)
	Uint64   = unsigned[uint64](primitive.KindUint64)
	Float32  = float[float32](primitive.KindFloat32)
	Float64  = float[float64](primitive.KindFloat64)
	String   = New("string", primitive.Unbounded, formatString, parseString)
	Bytes    = New("bytes", primitive.Unbounded, formatBytes, parseBytes)
	Time     = New("time", primitive.KindTime.MaxLength(), formatTime, parseTime)
	Duration = New("duration", primitive.KindDuration.MaxLength(), formatDuration, parseDuration)
	UUID     = New("uuid", primitive.KindUUID.MaxLength(), formatUUID, parseUUID)
	Addr     = New("addr", primitive.KindAddr.MaxLength(), formatAddr, parseAddr)
	URL      = New("url", primitive.Unbounded, formatURL, parseURL)
)

// Builtins lists the built-in codecs.
func Builtins() []*Codec {
	return []*Codec{
		Bool,
		Int, Int8, Int16, Int32, Int64,
		Uint, Uint8, Uint16, Uint32, Uint64,
		Float32, Float64,
		String, Bytes, Time, Duration, UUID, Addr, URL,
	}
}

type signedInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type floating interface {
	~float32 | ~float64
}

func signed[T signedInt](kind primitive.KindEnum) *Codec {
	bound := kind.MaxLength()
	bits := kind.Bits()

	return New(kindName(kind), bound,
		func(v T, buf Buffer) bool {
			return Append(buf, bound, func(dst []byte) []byte {
				return strconv.AppendInt(dst, int64(v), 10)
			})
		},
		func(text string) (T, bool) {
			n, err := strconv.ParseInt(text, 10, bits)
			if err != nil {
				return 0, false
			}

			return T(n), true
		},
	)
}

func unsigned[T unsignedInt](kind primitive.KindEnum) *Codec {
	bound := kind.MaxLength()
	bits := kind.Bits()

	return New(kindName(kind), bound,
		func(v T, buf Buffer) bool {
			return Append(buf, bound, func(dst []byte) []byte {
				return strconv.AppendUint(dst, uint64(v), 10)
			})
		},
		func(text string) (T, bool) {
			n, err := strconv.ParseUint(text, 10, bits)
			if err != nil {
				return 0, false
			}

			return T(n), true
		},
	)
}

func float[T floating](kind primitive.KindEnum) *Codec {
	bound := kind.MaxLength()
	bits := kind.Bits()

	return New(kindName(kind), bound,
		func(v T, buf Buffer) bool {
			return Append(buf, bound, func(dst []byte) []byte {
				return strconv.AppendFloat(dst, float64(v), 'g', -1, bits)
			})
		},
		func(text string) (T, bool) {
			f, err := strconv.ParseFloat(text, bits)
			if err != nil {
				return 0, false
			}

			return T(f), true
		},
	)
}

func formatBool(v bool, buf Buffer) bool {
	return Append(buf, primitive.KindBool.MaxLength(), func(dst []byte) []byte {
		return strconv.AppendBool(dst, v)
	})
}

func parseBool(text string) (bool, bool) {
	b, err := strconv.ParseBool(text)

	return b, err == nil
}

func formatString(v string, buf Buffer) bool {
	return WriteString(buf, v)
}

func parseString(text string) (string, bool) {
	return text, true
}

func formatBytes(v []byte, buf Buffer) bool {
	return Append(buf, base64.StdEncoding.EncodedLen(len(v)), func(dst []byte) []byte {
		return base64.StdEncoding.AppendEncode(dst, v)
	})
}

func parseBytes(text string) ([]byte, bool) {
	b, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, false
	}

	return b, true
}

// formatTime writes RFC 3339 with nanoseconds. Offsets with a seconds part cannot be written,
// so such values are written in UTC. Years outside 0000-9999 keep their sign and every digit.
func formatTime(v time.Time, buf Buffer) bool {
	if _, offset := v.Zone(); offset%60 != 0 {
		v = v.UTC()
	}

	return Append(buf, primitive.KindTime.MaxLength(), func(dst []byte) []byte {
		return v.AppendFormat(dst, time.RFC3339Nano)
	})
}

// leapYear is a stand-in year used to parse the text after an extended year.
const leapYear = 2000

func parseTime(text string) (time.Time, bool) {
	year, rest, extended := splitYear(text)
	if !extended {
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return time.Time{}, false
		}

		return t, true
	}

	t, err := time.Parse(time.RFC3339Nano, strconv.Itoa(leapYear)+rest)
	if err != nil {
		return time.Time{}, false
	}

	if t.Month() == time.February && t.Day() == 29 && !isLeap(year) {
		return time.Time{}, false
	}

	loc := time.UTC
	if _, offset := t.Zone(); t.Location() != time.UTC {
		loc = time.FixedZone("", offset)
	}

	out := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	if out.Year() != year {
		return time.Time{}, false
	}

	return out, true
}

// splitYear separates a year outside 0000-9999 from the rest of text. Such a year is either
// negative with at least four digits or positive with more than four and no leading zero.
func splitYear(text string) (year int, rest string, extended bool) {
	digits := text
	negative := strings.HasPrefix(text, "-")
	if negative {
		digits = text[1:]
	}

	end := strings.IndexByte(digits, '-')
	if end < 4 || end > 12 {
		return 0, "", false
	}

	if !negative && (end == 4 || digits[0] == '0') {
		return 0, "", false
	}

	for i := range end {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, "", false
		}
	}

	year, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0, "", false
	}

	if negative {
		if year == 0 {
			return 0, "", false
		}

		year = -year
	}

	return year, digits[end:], true
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func formatDuration(v time.Duration, buf Buffer) bool {
	return Append(buf, primitive.KindDuration.MaxLength(), func(dst []byte) []byte {
		return append(dst, v.String()...)
	})
}

func parseDuration(text string) (time.Duration, bool) {
	d, err := time.ParseDuration(text)
	if err != nil {
		return 0, false
	}

	return d, true
}

func formatUUID(v uuid.UUID, buf Buffer) bool {
	return Append(buf, primitive.KindUUID.MaxLength(), func(dst []byte) []byte {
		return append(dst, v.String()...)
	})
}

func parseUUID(text string) (uuid.UUID, bool) {
	if len(text) != primitive.KindUUID.MaxLength() {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// formatAddr writes nothing for the zero Addr, which parseAddr maps back from "".
func formatAddr(v netip.Addr, buf Buffer) bool {
	return Append(buf, primitive.KindAddr.MaxLength()+len(v.Zone()), v.AppendTo)
}

func parseAddr(text string) (netip.Addr, bool) {
	if text == "" {
		return netip.Addr{}, true
	}

	a, err := netip.ParseAddr(text)
	if err != nil {
		return netip.Addr{}, false
	}

	return a, true
}

func formatURL(v url.URL, buf Buffer) bool {
	return WriteString(buf, v.String())
}

func parseURL(text string) (url.URL, bool) {
	u, err := url.Parse(text)
	if err != nil {
		return url.URL{}, false
	}

	return *u, true
}

func kindName(kind primitive.KindEnum) string {
	return strings.ToLower(strings.TrimPrefix(kind.String(), "Kind"))
}
