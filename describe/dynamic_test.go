package describe_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowbinder/codec"
	"rowbinder/describe"
	"rowbinder/dynamic"
	"rowbinder/introspect"
	"rowbinder/tuple"
)

type person struct {
	Name string
	Age  int
}

type vec struct {
	X, Y, Z int
}

func (vec) DescribeRow(h *introspect.Hints) {
	h.Constructor(func(x, y, z int) vec { return vec{X: x * 10, Y: y * 10, Z: z * 10} })
}

type parsed struct {
	Width int
}

func (parsed) DescribeRow(h *introspect.Hints) {
	h.Constructor(func(row dynamic.Row) *parsed { return &parsed{Width: row.Width()} })
}

type nine = tuple.Of8[int, int, int, int, int, int, int, tuple.Of2[int, int]]

func TestDynamicStrategies(t *testing.T) {
	t.Parallel()

	d := describe.NewDefault(describe.DefaultOptions())

	tests := []struct {
		name     string
		target   reflect.Type
		row      *dynamic.Record
		strategy dynamic.Strategy
		want     any
	}{
		{
			name:     "tuple",
			target:   reflect.TypeFor[tuple.Of2[int, string]](),
			row:      dynamic.NewRecord(nil, []string{"1", "a"}),
			strategy: dynamic.StrategyTuple,
			want:     tuple.New2(1, "a"),
		},
		{
			name:     "row constructor",
			target:   reflect.TypeFor[parsed](),
			row:      dynamic.NewRecord(nil, []string{"a", "b", "c", "d"}),
			strategy: dynamic.StrategyRowConstructor,
			want:     parsed{Width: 4},
		},
		{
			name:     "positional constructor over matching names",
			target:   reflect.TypeFor[vec](),
			row:      dynamic.NewRecord([]string{"X", "Y", "Z"}, []string{"1", "2", "3"}),
			strategy: dynamic.StrategyPositionalConstructor,
			want:     vec{X: 10, Y: 20, Z: 30},
		},
		{
			name:     "zero and setters ignore extra columns",
			target:   reflect.TypeFor[person](),
			row:      dynamic.NewRecord([]string{"Age", "Extra", "Name"}, []string{"30", "zzz", "ann"}),
			strategy: dynamic.StrategyZeroAndSetters,
			want:     person{Name: "ann", Age: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := d.DynamicRowConverter(tt.row.Shape(), tt.target)
			require.Equal(t, tt.strategy, c.Strategy())

			got, ok := c.Convert(tt.row, codec.Context{})
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDynamicNineTuple(t *testing.T) {
	t.Parallel()

	d := describe.NewDefault(describe.DefaultOptions())

	cells := make([]string, 9)
	for i := range cells {
		cells[i] = strconv.Itoa(i + 1)
	}

	row := dynamic.NewRecord(nil, cells)

	c := d.DynamicRowConverter(row.Shape(), reflect.TypeFor[nine]())
	require.Equal(t, dynamic.StrategyTuple, c.Strategy())

	got, ok := c.Convert(row, codec.Context{})
	require.True(t, ok)

	n := got.(nine)
	assert.Equal(t, 1, n.V1)
	assert.Equal(t, 7, n.V7)
	assert.Equal(t, tuple.New2(8, 9), n.Rest)
	assert.Equal(t, 9, n.Len())

	short := dynamic.NewRecord(nil, cells[:8])
	assert.False(t, d.DynamicRowConverter(short.Shape(), reflect.TypeFor[nine]()).OK())
}

func TestDynamicFailures(t *testing.T) {
	t.Parallel()

	d := describe.NewDefault(describe.DefaultOptions())

	row := dynamic.NewRecord([]string{"Name", "Age"}, []string{"bob", "old"})

	c := d.DynamicRowConverter(row.Shape(), reflect.TypeFor[person]())
	require.True(t, c.OK())

	_, col, ok := c.ConvertRow(row, codec.Context{})
	assert.False(t, ok)
	assert.Equal(t, 1, col)

	unnamed := dynamic.NewRecord(nil, []string{"bob", "30"})
	assert.Equal(t, dynamic.StrategyNone, d.DynamicRowConverter(unnamed.Shape(), reflect.TypeFor[person]()).Strategy())

	assert.Panics(t, func() {
		c.ConvertRow(dynamic.NewRecord([]string{"Name"}, []string{"bob"}), codec.Context{})
	})
}

func TestDynamicPassThrough(t *testing.T) {
	t.Parallel()

	d := describe.NewDefault(describe.DefaultOptions())
	row := dynamic.NewRecord([]string{"a"}, []string{"1"})

	for _, target := range []reflect.Type{reflect.TypeFor[any](), reflect.TypeFor[dynamic.Row]()} {
		c := d.DynamicRowConverter(row.Shape(), target)
		require.Equal(t, dynamic.StrategyPassThrough, c.Strategy())

		got, ok := c.Convert(row, codec.Context{})
		require.True(t, ok)
		assert.Same(t, row, got)
	}
}

func TestDynamicCells(t *testing.T) {
	t.Parallel()

	d := describe.NewDefault(describe.DefaultOptions())

	cells, err := d.DynamicCells(dynamic.Map{"b": nil, "a": 12, "c": "x"})
	require.NoError(t, err)
	require.Len(t, cells, 3)

	assert.Equal(t, "a", cells[0].Name)
	assert.Equal(t, "b", cells[1].Name)
	assert.Nil(t, cells[1].Formatter.Backing)

	var buf codec.Growable
	require.True(t, cells[0].Formatter.Format(reflect.ValueOf(cells[0].Value), codec.Context{}, &buf))
	assert.Equal(t, "12", buf.String())

	_, err = d.DynamicCells(dynamic.Map{"ch": make(chan int)})
	assert.ErrorIs(t, err, describe.ErrNoCodec)

	parser, ok := d.DynamicCellParser(reflect.TypeFor[int]())
	require.True(t, ok)

	v, ok := parser.Parse("-3", codec.Context{})
	require.True(t, ok)
	assert.Equal(t, -3, v.Interface())
}
