package codec_test

import (
	"math"
	"net/netip"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowbinder/codec"
)

func TestBuiltinRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		codec  *codec.Codec
		values []any
	}{
		{"bool", codec.Bool, []any{true, false}},
		{"int", codec.Int, []any{0, -1, math.MaxInt, math.MinInt}},
		{"int8", codec.Int8, []any{int8(math.MinInt8), int8(math.MaxInt8), int8(0)}},
		{"int16", codec.Int16, []any{int16(math.MinInt16), int16(math.MaxInt16)}},
		{"int32", codec.Int32, []any{int32(math.MinInt32), int32(math.MaxInt32)}},
		{"int64", codec.Int64, []any{int64(math.MinInt64), int64(math.MaxInt64)}},
		{"uint", codec.Uint, []any{uint(0), uint(math.MaxUint)}},
		{"uint8", codec.Uint8, []any{uint8(0), uint8(math.MaxUint8)}},
		{"uint16", codec.Uint16, []any{uint16(math.MaxUint16)}},
		{"uint32", codec.Uint32, []any{uint32(math.MaxUint32)}},
		{"uint64", codec.Uint64, []any{uint64(math.MaxUint64)}},
		{"float32", codec.Float32, []any{
			float32(0), float32(-1.5), float32(math.MaxFloat32), float32(math.SmallestNonzeroFloat32),
			float32(-1.17549435e-38), float32(math.Inf(-1)),
		}},
		{"float64", codec.Float64, []any{
			0.1, -2.2250738585072014e-308, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1),
		}},
		{"string", codec.String, []any{"", "hello", "héllo, \"world\""}},
		{"bytes", codec.Bytes, []any{[]byte{}, []byte{0, 1, 2, 255}}},
		{"duration", codec.Duration, []any{time.Duration(0), time.Duration(-1 << 62), 90 * time.Minute}},
		{"uuid", codec.UUID, []any{uuid.Nil, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")}},
		{"addr", codec.Addr, []any{
			netip.Addr{}, netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("fe80::1%eth0"),
			netip.MustParseAddr("::ffff:255.255.255.255"),
		}},
		{"url", codec.URL, []any{*mustURL(t, "https://example.com/a/b?c=d#e")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, v := range tt.values {
				text := format(t, tt.codec, v)
				if tt.codec.Bound() >= 0 {
					assert.LessOrEqual(t, len(text), tt.codec.Bound(), "value %v", v)
				}

				parsed, ok := tt.codec.Parse(text)
				require.True(t, ok, "parse %q", text)
				assert.Equal(t, v, parsed.Interface())
			}
		})
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	values := []time.Time{
		{},
		time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC),
		time.Date(1999, 12, 31, 1, 2, 3, 4, time.FixedZone("", -7*60*60)),
		time.Date(12000, 1, 2, 3, 4, 5, 0, time.UTC),
		time.Date(-5, 1, 2, 3, 4, 5, 6, time.UTC),
		time.Date(10000, 2, 29, 0, 0, 0, 0, time.FixedZone("", 90*60)),
		time.Date(1880, 6, 1, 12, 0, 0, 0, time.FixedZone("LMT", 4*60*60+30)),
	}

	for _, v := range values {
		text := format(t, codec.Time, v)
		assert.LessOrEqual(t, len(text), codec.Time.Bound())

		parsed, ok := codec.Time.Parse(text)
		require.True(t, ok, text)
		assert.True(t, v.Equal(parsed.Interface().(time.Time)), "%s != %s", v, parsed)
	}
}

func TestTimeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value time.Time
		text  string
	}{
		{time.Date(12000, 1, 2, 3, 4, 5, 0, time.UTC), "12000-01-02T03:04:05Z"},
		{time.Date(-5, 1, 2, 3, 4, 5, 0, time.UTC), "-0005-01-02T03:04:05Z"},
		{time.Date(1880, 6, 1, 12, 0, 30, 0, time.FixedZone("LMT", 30)), "1880-06-01T12:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.text, format(t, codec.Time, tt.value))
		})
	}

	for _, text := range []string{
		"01000-01-02T03:04:05Z",
		"-0000-01-02T03:04:05Z",
		"10001-02-29T00:00:00Z",
		"12000",
		"12000-13-01T00:00:00Z",
	} {
		_, ok := codec.Time.Parse(text)
		assert.False(t, ok, text)
	}
}

func TestFloatNaN(t *testing.T) {
	t.Parallel()

	parsed, ok := codec.Float64.Parse(format(t, codec.Float64, math.NaN()))
	require.True(t, ok)
	assert.True(t, math.IsNaN(parsed.Float()))
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		codec *codec.Codec
		text  string
	}{
		{codec.Bool, "yes"},
		{codec.Int8, "128"},
		{codec.Int, "1.0"},
		{codec.Int, " 1"},
		{codec.Uint, "-1"},
		{codec.Float64, "1,5"},
		{codec.Bytes, "%%%"},
		{codec.Time, "2024-02-30T00:00:00Z"},
		{codec.Duration, "5 minutes"},
		{codec.UUID, "6ba7b8109dad11d180b400c04fd430c8"},
		{codec.Addr, "300.1.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.codec.Name()+"/"+tt.text, func(t *testing.T) {
			t.Parallel()

			v, ok := tt.codec.Parse(tt.text)
			assert.False(t, ok)
			assert.True(t, v.IsZero(), "failed parse must not produce partial output")
		})
	}
}

func TestFormatFailsOnlyOnCapacity(t *testing.T) {
	t.Parallel()

	buf := codec.Growable{Max: codec.Int64.Bound() - 1}
	assert.False(t, codec.Int64.Format(reflect.ValueOf(int64(1)), &buf), "bound cannot be requested")
	assert.Zero(t, buf.Len())

	buf = codec.Growable{Max: codec.Int64.Bound()}
	require.True(t, codec.Int64.Format(reflect.ValueOf(int64(math.MinInt64)), &buf))
	assert.Equal(t, "-9223372036854775808", buf.String())
}

func TestBuiltinsAreUniquePerType(t *testing.T) {
	t.Parallel()

	seen := map[reflect.Type]string{}
	for _, c := range codec.Builtins() {
		prev, dup := seen[c.Type()]
		assert.False(t, dup, "%s and %s share %s", prev, c.Name(), c.Type())
		seen[c.Type()] = c.Name()
	}
}

func format(t *testing.T, c *codec.Codec, v any) string {
	t.Helper()

	text, ok := c.FormatString(v)
	require.True(t, ok, "format %v", v)

	return text
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u
}
