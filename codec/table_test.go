package codec_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowbinder/codec"
)

type celsius float64

type point struct{ X, Y int }

func (p point) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d;%d", p.X, p.Y)), nil
}

func (p *point) UnmarshalText(text []byte) error {
	_, err := fmt.Sscanf(string(text), "%d;%d", &p.X, &p.Y)

	return err
}

func TestNullable(t *testing.T) {
	t.Parallel()

	table := codec.NewTable()

	for _, typ := range []reflect.Type{
		reflect.TypeFor[*int](), reflect.TypeFor[*string](), reflect.TypeFor[*celsius](),
		reflect.TypeFor[*point](), reflect.TypeFor[*json.Number](),
	} {
		c, ok := table.Lookup(typ)
		require.True(t, ok, typ.String())

		v, ok := c.Parse("")
		require.True(t, ok)
		assert.True(t, v.IsNil(), "%s: empty text is no value", typ)

		var buf codec.Growable
		require.True(t, c.Format(reflect.Zero(typ), &buf))
		assert.Zero(t, buf.Len(), "%s: no value writes nothing", typ)
	}

	c, _ := table.Lookup(reflect.TypeFor[*int]())
	v, ok := c.Parse("42")
	require.True(t, ok)
	assert.Equal(t, 42, v.Elem().Interface())

	_, ok = c.Parse("x")
	assert.False(t, ok)

	_, ok = table.Lookup(reflect.TypeFor[**int]())
	assert.False(t, ok, "only one level of nullability")
}

func TestTableDerived(t *testing.T) {
	t.Parallel()

	table := codec.NewTable()

	c, ok := table.Lookup(reflect.TypeFor[celsius]())
	require.True(t, ok)
	v, ok := c.Parse("21.5")
	require.True(t, ok)
	assert.Equal(t, celsius(21.5), v.Interface())

	c, ok = table.Lookup(reflect.TypeFor[point]())
	require.True(t, ok)
	assert.Equal(t, "3;4", format(t, c, point{3, 4}))
	v, ok = c.Parse("5;6")
	require.True(t, ok)
	assert.Equal(t, point{5, 6}, v.Interface())

	_, ok = table.Lookup(reflect.TypeFor[struct{ A int }]())
	assert.False(t, ok)
	_, ok = table.Lookup(reflect.TypeFor[[]int]())
	assert.False(t, ok)
}

func TestTableRegister(t *testing.T) {
	t.Parallel()

	table := codec.NewTable()

	before, ok := table.Lookup(reflect.TypeFor[*color]())
	require.True(t, ok)
	_, ok = before.Parse("Red")
	assert.False(t, ok, "before registration color is a named int")

	table.Register(colors())

	after, ok := table.Lookup(reflect.TypeFor[*color]())
	require.True(t, ok)
	v, ok := after.Parse("Red")
	require.True(t, ok)
	assert.Equal(t, red, v.Elem().Interface())

	upper := codec.New("upper", -1,
		func(v string, buf codec.Buffer) bool { return codec.WriteString(buf, strings.ToUpper(v)) },
		func(text string) (string, bool) { return strings.ToLower(text), true })
	table.RegisterNamed("upper", upper)

	named, ok := table.Named("upper")
	require.True(t, ok)
	assert.Same(t, upper, named)

	plain, _ := table.Lookup(reflect.TypeFor[string]())
	assert.Same(t, codec.String, plain, "named registration does not replace the default")
}

func TestTableConcurrentLookup(t *testing.T) {
	t.Parallel()

	table := codec.NewTable()
	typ := reflect.TypeFor[*celsius]()

	var wg sync.WaitGroup
	results := make([]*codec.Codec, 16)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], _ = table.Lookup(typ)
		}()
	}

	wg.Wait()

	for _, c := range results {
		require.NotNil(t, c)
		assert.Equal(t, typ, c.Type())
	}
}

func TestGrowable(t *testing.T) {
	t.Parallel()

	var buf codec.Growable

	require.True(t, codec.WriteString(&buf, "abc"))
	require.True(t, codec.WriteString(&buf, strings.Repeat("x", 200)))
	assert.Equal(t, 203, buf.Len())

	buf.Reset()
	assert.Zero(t, buf.Len())

	limited := codec.Growable{Max: 4}
	assert.True(t, codec.WriteString(&limited, "abcd"))
	assert.False(t, codec.WriteString(&limited, "e"))
	assert.Equal(t, "abcd", limited.String())

	assert.Panics(t, func() { limited.Advance(1) })
}
