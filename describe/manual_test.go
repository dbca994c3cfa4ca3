package describe_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowbinder/codec"
	"rowbinder/describe"
	"rowbinder/dynamic"
	"rowbinder/member"
)

type invoice struct {
	Number int
	Memo   string
}

type bare struct{}

func invoiceNumber(t *testing.T, column string) (member.Serializable, member.Deserializable) {
	t.Helper()

	typ := reflect.TypeFor[invoice]()

	sf, ok := typ.FieldByName("Number")
	require.True(t, ok)

	f := member.FieldOf(typ, sf)

	s, err := member.NewSerializable(column, member.FieldGetter(f), member.CodecFormatter(codec.Int))
	require.NoError(t, err)

	d, err := member.NewDeserializable(column, member.FieldSetter(f), member.CodecParser(codec.Int))
	require.NoError(t, err)

	return s, d
}

func TestManual(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[invoice]()
	s, d := invoiceNumber(t, "no")

	build := func(policy describe.Policy) *describe.Manual {
		m, err := describe.NewManualBuilder(policy, nil).
			WithSerializableMember(typ, s).
			WithDeserializableMember(typ, d).
			WithExplicitType(reflect.TypeFor[bare]()).
			Build()
		require.NoError(t, err)

		return m
	}

	t.Run("registered", func(t *testing.T) {
		t.Parallel()

		m := build(describe.PolicyThrow)

		assert.Equal(t, []string{"no"}, writeNames(t, m, typ))
		assert.Equal(t, []string{"no"}, readNames(t, m, typ))

		written, err := m.SerializableMembers(typ)
		require.NoError(t, err)
		assert.Equal(t, "12", write(t, written[0], &invoice{Number: 12}))
	})

	t.Run("throw", func(t *testing.T) {
		t.Parallel()

		m := build(describe.PolicyThrow)
		other := reflect.TypeFor[ledger]()

		_, err := m.SerializableMembers(other)
		assert.ErrorIs(t, err, describe.ErrNotRegistered)

		_, err = m.DeserializableMembers(other)
		assert.ErrorIs(t, err, describe.ErrNotRegistered)

		_, err = m.InstanceProvider(typ)
		assert.ErrorIs(t, err, describe.ErrNotRegistered)

		assert.Empty(t, m.Constructors(other))
	})

	t.Run("use fallback", func(t *testing.T) {
		t.Parallel()

		m := build(describe.PolicyUseFallback)

		assert.Equal(t, []string{"zero", "first", "seven", "last", "Loose"}, writeNames(t, m, reflect.TypeFor[ledger]()))

		p, err := m.InstanceProvider(typ)
		require.NoError(t, err)
		assert.Equal(t, member.ProviderZero, p.Kind)
	})

	t.Run("explicit type", func(t *testing.T) {
		t.Parallel()

		m := build(describe.PolicyUseFallback)
		typ := reflect.TypeFor[bare]()

		assert.Empty(t, writeNames(t, m, typ))
		assert.Empty(t, readNames(t, m, typ))

		_, err := m.InstanceProvider(typ)
		assert.ErrorIs(t, err, describe.ErrNoInstanceProvider)
	})

	t.Run("dynamic queries use the fallback", func(t *testing.T) {
		t.Parallel()

		m := build(describe.PolicyThrow)
		row := dynamic.NewRecord(nil, []string{"x"})

		assert.Equal(t, dynamic.StrategyPassThrough, m.DynamicRowConverter(row.Shape(), reflect.TypeFor[any]()).Strategy())

		_, ok := m.DynamicCellParser(reflect.TypeFor[int]())
		assert.True(t, ok)
	})
}

func TestManualInstanceProvider(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[invoice]()

	f, err := member.FuncOf(member.RoleConstructor, typ, "newInvoice", func(n int) invoice { return invoice{Number: n} })
	require.NoError(t, err)

	p, err := member.ConstructorProvider(typ, f, []string{"no"})
	require.NoError(t, err)

	_, d := invoiceNumber(t, "no")

	bound, err := d.WithSetter(member.ParameterSetter(typ, member.ConstructorParameter{Index: 0, Type: p.Params[0]}))
	require.NoError(t, err)

	m, err := describe.NewManualBuilder(describe.PolicyThrow, nil).
		WithInstanceProvider(typ, p).
		WithDeserializableMember(typ, bound).
		Build()
	require.NoError(t, err)

	got, err := m.InstanceProvider(typ)
	require.NoError(t, err)
	assert.True(t, got.Equal(p))
	assert.Len(t, m.Constructors(typ), 1)

	_, err = describe.NewManualBuilder(describe.PolicyThrow, nil).
		WithInstanceProvider(typ, p).
		Build()
	assert.ErrorIs(t, err, describe.ErrConfiguration)
}

func TestManualBuildErrors(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[invoice]()
	s, d := invoiceNumber(t, "no")

	zero, err := member.ZeroProvider(reflect.TypeFor[ledger]())
	require.NoError(t, err)

	tests := []struct {
		name    string
		builder *describe.ManualBuilder
	}{
		{
			name: "duplicate column",
			builder: describe.NewManualBuilder(describe.PolicyThrow, nil).
				WithSerializableMember(typ, s).
				WithSerializableMember(typ, s),
		},
		{
			name: "member of another type",
			builder: describe.NewManualBuilder(describe.PolicyThrow, nil).
				WithDeserializableMember(reflect.TypeFor[ledger](), d),
		},
		{
			name: "provider of another type",
			builder: describe.NewManualBuilder(describe.PolicyThrow, nil).
				WithInstanceProvider(typ, zero),
		},
		{
			name: "empty provider",
			builder: describe.NewManualBuilder(describe.PolicyThrow, nil).
				WithInstanceProvider(typ, member.InstanceProvider{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.builder.Build()
			configError(t, err)
		})
	}
}
