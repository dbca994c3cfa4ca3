package member_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowbinder/codec"
	"rowbinder/member"
)

type account struct {
	ID      int
	Owner   string
	balance float64
	resets  int
}

func (a account) Label() string { return "#" + a.Owner }
func (a account) Tagged(ctx codec.Context) string { return ctx.ColumnName + ":" + a.Owner }
func (a *account) SetOwner(s string) { a.Owner = strings.ToUpper(s) }
func (a account) SetByValue(string) {}
func (a *account) Clear() {
	a.resets++
	a.Owner = ""
}

func (a account) HasOwner() bool { return a.Owner != "" }
func (a account) TwoResults() (string, error) { return a.Owner, nil }

var accountType = reflect.TypeFor[account]()

func field(t *testing.T, name string) member.Field {
	t.Helper()

	sf, ok := accountType.FieldByName(name)
	require.True(t, ok)

	return member.FieldOf(accountType, sf)
}

func method(t *testing.T, name string) member.Method {
	t.Helper()

	m, err := member.MethodOf(member.RoleGetter, accountType, name)
	require.NoError(t, err)

	return m
}

func fn(t *testing.T, f any) member.Func {
	t.Helper()

	out, err := member.FuncOf(member.RoleGetter, accountType, "fn", f)
	require.NoError(t, err)

	return out
}

func defectOf(t *testing.T, err error) member.Defect {
	t.Helper()

	var se *member.ShapeError
	require.True(t, errors.As(err, &se), "expected a shape error, got %v", err)

	return se.Defect
}

func TestGetters(t *testing.T) {
	t.Parallel()

	row := &account{ID: 7, Owner: "ann", balance: 1.5}
	ctx := codec.Context{ColumnName: "owner"}

	tagged, err := member.MethodGetter(method(t, "Tagged"))
	require.NoError(t, err)

	label, err := member.MethodGetter(method(t, "Label"))
	require.NoError(t, err)

	byRow, err := member.FuncGetter(accountType, fn(t, func(a account) int { return a.ID * 2 }))
	require.NoError(t, err)

	withCtx, err := member.FuncGetter(accountType, fn(t, func(a account, c codec.Context) string { return c.ColumnName }))
	require.NoError(t, err)

	constant, err := member.FuncGetter(accountType, fn(t, func() string { return "k" }))
	require.NoError(t, err)

	tests := []struct {
		name   string
		getter member.Getter
		want   any
	}{
		{"exported field", member.FieldGetter(field(t, "ID")), 7},
		{"unexported field", member.FieldGetter(field(t, "balance")), 1.5},
		{"method", label, "#ann"},
		{"method with context", tagged, "owner:ann"},
		{"func of row", byRow, 14},
		{"func of row and context", withCtx, "owner"},
		{"func without row", constant, "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.getter.Get(reflect.ValueOf(row), ctx).Interface())
		})
	}
}

func TestGetterShapeDefects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   any
		want member.Defect
	}{
		{"row by pointer", func(*account) int { return 0 }, member.DefectPointer},
		{"context by pointer", func(account, *codec.Context) int { return 0 }, member.DefectPointer},
		{"wrong parameter", func(int) int { return 0 }, member.DefectParamType},
		{"too many parameters", func(account, codec.Context, int) int { return 0 }, member.DefectArity},
		{"no result", func(account) {}, member.DefectReturn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := member.FuncGetter(accountType, fn(t, tt.fn))
			assert.Equal(t, tt.want, defectOf(t, err))
		})
	}

	_, err := member.MethodGetter(method(t, "TwoResults"))
	assert.Equal(t, member.DefectReturn, defectOf(t, err))
}

func TestLookupDefects(t *testing.T) {
	t.Parallel()

	_, err := member.MethodOf(member.RoleSetter, accountType, "Missing")
	assert.Equal(t, member.DefectNotFound, defectOf(t, err))

	_, err = member.MethodOf(member.RoleSetter, accountType, "hidden")
	assert.Equal(t, member.DefectInaccessible, defectOf(t, err))

	_, err = member.FuncOf(member.RoleParser, accountType, "x", 42)
	assert.Equal(t, member.DefectNotFunc, defectOf(t, err))

	_, err = member.FuncOf(member.RoleParser, accountType, "x", func(...string) {})
	assert.Equal(t, member.DefectVariadic, defectOf(t, err))

	var nilFunc func()
	_, err = member.FuncOf(member.RoleParser, accountType, "x", nilFunc)
	assert.Equal(t, member.DefectNotFunc, defectOf(t, err))

	assert.Contains(t, err.Error(), "parser x on member_test.account")
}

func TestSetters(t *testing.T) {
	t.Parallel()

	m, err := member.MethodOf(member.RoleSetter, accountType, "SetOwner")
	require.NoError(t, err)
	require.True(t, m.PointerReceiver)

	viaMethod, err := member.MethodSetter(m)
	require.NoError(t, err)

	viaFunc, err := member.FuncSetter(accountType, fn(t, func(a *account, id int, c codec.Context) { a.ID = id + c.Row }))
	require.NoError(t, err)

	row := &account{}
	rv := reflect.ValueOf(row)

	viaMethod.Set(rv, reflect.ValueOf("bob"), codec.Context{})
	viaFunc.Set(rv, reflect.ValueOf(40), codec.Context{Row: 2})
	member.FieldSetter(field(t, "balance")).Set(rv, reflect.ValueOf(2.5), codec.Context{})

	assert.Equal(t, account{ID: 42, Owner: "BOB", balance: 2.5}, *row)

	byValue, err := member.MethodOf(member.RoleSetter, accountType, "SetByValue")
	require.NoError(t, err)

	_, err = member.MethodSetter(byValue)
	assert.Equal(t, member.DefectPointer, defectOf(t, err))

	_, err = member.FuncSetter(accountType, fn(t, func(account, int) {}))
	assert.Equal(t, member.DefectPointer, defectOf(t, err))

	_, err = member.FuncSetter(accountType, fn(t, func(int) bool { return true }))
	assert.Equal(t, member.DefectReturn, defectOf(t, err))

	param := member.ParameterSetter(accountType, member.ConstructorParameter{Index: 0, Type: reflect.TypeFor[int]()})
	assert.True(t, param.IsConstructorParameter())
	assert.Panics(t, func() { param.Set(rv, reflect.ValueOf(1), codec.Context{}) })
}

func TestHooks(t *testing.T) {
	t.Parallel()

	clearMethod, err := member.MethodOf(member.RoleReset, accountType, "Clear")
	require.NoError(t, err)

	reset, err := member.MethodReset(clearMethod)
	require.NoError(t, err)

	has, err := member.MethodOf(member.RoleShouldSerialize, accountType, "HasOwner")
	require.NoError(t, err)

	should, err := member.MethodShouldSerialize(has)
	require.NoError(t, err)

	row := &account{Owner: "x"}
	rv := reflect.ValueOf(row)

	assert.True(t, should.Should(rv, codec.Context{}))
	reset.Run(rv, codec.Context{})
	assert.False(t, should.Should(rv, codec.Context{}))
	assert.Equal(t, 1, row.resets)

	_, err = member.MethodShouldSerialize(method(t, "Label"))
	assert.Equal(t, member.DefectReturn, defectOf(t, err))

	_, err = member.FuncReset(accountType, fn(t, func(account) {}))
	assert.Equal(t, member.DefectPointer, defectOf(t, err))

	_, err = member.FuncShouldSerialize(accountType, fn(t, func(*account) bool { return true }))
	assert.Equal(t, member.DefectPointer, defectOf(t, err))
}

func TestFormatterAndParser(t *testing.T) {
	t.Parallel()

	upper, err := member.FuncFormatter(accountType, fn(t, func(s string, _ codec.Context, buf codec.Buffer) bool {
		return codec.WriteString(buf, strings.ToUpper(s))
	}))
	require.NoError(t, err)

	var buf codec.Growable
	require.True(t, upper.Format(reflect.ValueOf("abc"), codec.Context{}, &buf))
	assert.Equal(t, "ABC", buf.String())

	short, err := member.FuncParser(accountType, fn(t, func(s string, _ codec.Context) (int, bool) { return len(s), s != "" }))
	require.NoError(t, err)

	v, ok := short.Parse("four", codec.Context{})
	require.True(t, ok)
	assert.Equal(t, 4, v.Interface())

	v, ok = short.Parse("", codec.Context{})
	assert.False(t, ok)
	assert.True(t, v.IsZero())

	tests := []struct {
		name   string
		fn     any
		parser bool
		want   member.Defect
	}{
		{"formatter arity", func(string, codec.Context) bool { return true }, false, member.DefectArity},
		{"formatter buffer by pointer", func(string, codec.Context, *codec.Buffer) bool { return true }, false, member.DefectPointer},
		{"formatter return", func(string, codec.Context, codec.Buffer) {}, false, member.DefectReturn},
		{"parser text type", func([]byte, codec.Context) (int, bool) { return 0, true }, true, member.DefectParamType},
		{"parser context", func(string, *codec.Context) (int, bool) { return 0, true }, true, member.DefectPointer},
		{"parser return", func(string, codec.Context) int { return 0 }, true, member.DefectReturn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err error
			if tt.parser {
				_, err = member.FuncParser(accountType, fn(t, tt.fn))
			} else {
				_, err = member.FuncFormatter(accountType, fn(t, tt.fn))
			}

			assert.Equal(t, tt.want, defectOf(t, err))
		})
	}
}

func TestProviders(t *testing.T) {
	t.Parallel()

	zero, err := member.ZeroProvider(accountType)
	require.NoError(t, err)

	row, ok := zero.Produce(codec.Context{})
	require.True(t, ok)
	assert.Equal(t, &account{}, row.Interface())

	_, err = member.ZeroProvider(reflect.TypeFor[any]())
	require.Error(t, err)

	ctor, err := member.ConstructorProvider(accountType,
		fn(t, func(id int, owner string) account { return account{ID: id, Owner: owner} }),
		[]string{"ID", "Owner"})
	require.NoError(t, err)
	assert.Equal(t, 1, ctor.ParamIndex("Owner"))

	built := ctor.Construct([]reflect.Value{reflect.ValueOf(3), reflect.ValueOf("z")})
	assert.Equal(t, &account{ID: 3, Owner: "z"}, built.Interface())
	assert.Panics(t, func() { ctor.Construct(nil) })

	_, err = member.ConstructorProvider(accountType, fn(t, func(int) account { return account{} }), []string{"ID", "Owner"})
	assert.Equal(t, member.DefectArity, defectOf(t, err))

	_, err = member.ConstructorProvider(accountType, fn(t, func(int) string { return "" }), []string{"ID"})
	assert.Equal(t, member.DefectReturn, defectOf(t, err))

	factory, err := member.FactoryProvider(accountType, fn(t, func(c codec.Context) (*account, bool) {
		return &account{ID: c.Row}, c.Row >= 0
	}))
	require.NoError(t, err)

	row, ok = factory.Produce(codec.Context{Row: 5})
	require.True(t, ok)
	assert.Equal(t, 5, row.Interface().(*account).ID)

	_, ok = factory.Produce(codec.Context{Row: -1})
	assert.False(t, ok)

	_, err = member.FactoryProvider(accountType, fn(t, func() account { return account{} }))
	assert.Equal(t, member.DefectReturn, defectOf(t, err))

	assert.False(t, member.InstanceProvider{}.OK())
	assert.True(t, zero.Equal(zero))
	assert.False(t, zero.Equal(ctor))
}

func TestDescriptors(t *testing.T) {
	t.Parallel()

	owner := member.FieldGetter(field(t, "Owner"))
	ser, err := member.NewSerializable("owner", owner, member.CodecFormatter(codec.String))
	require.NoError(t, err)
	assert.True(t, ser.EmitDefault)

	has, err := member.MethodOf(member.RoleShouldSerialize, accountType, "HasOwner")
	require.NoError(t, err)

	should, err := member.MethodShouldSerialize(has)
	require.NoError(t, err)

	guarded, err := ser.WithShouldSerialize(should)
	require.NoError(t, err)

	var buf codec.Growable
	require.True(t, guarded.Write(reflect.ValueOf(&account{}), codec.Context{}, &buf))
	assert.Zero(t, buf.Len())

	require.True(t, guarded.Write(reflect.ValueOf(&account{Owner: "q"}), codec.Context{}, &buf))
	assert.Equal(t, "q", buf.String())

	id := member.FieldGetter(field(t, "ID"))
	quiet, err := member.NewSerializable("id", id, member.CodecFormatter(codec.Int))
	require.NoError(t, err)

	buf.Reset()
	require.True(t, quiet.WithEmitDefault(false).Write(reflect.ValueOf(&account{}), codec.Context{}, &buf))
	assert.Zero(t, buf.Len())

	_, err = member.NewSerializable("id", id, member.CodecFormatter(codec.String))
	assert.Equal(t, member.DefectMismatch, defectOf(t, err))

	_, err = member.NewSerializable("", id, member.CodecFormatter(codec.Int))
	assert.Equal(t, member.DefectMismatch, defectOf(t, err))

	assert.True(t, ser.Equal(ser))
	assert.False(t, ser.Equal(ser.WithOrder(1)))
	assert.False(t, ser.Equal(guarded))

	clearMethod, err := member.MethodOf(member.RoleReset, accountType, "Clear")
	require.NoError(t, err)

	reset, err := member.MethodReset(clearMethod)
	require.NoError(t, err)

	des, err := member.NewDeserializable("id", member.FieldSetter(field(t, "ID")), member.CodecParser(codec.Int))
	require.NoError(t, err)

	des, err = des.WithReset(reset)
	require.NoError(t, err)

	row := &account{Owner: "gone"}
	require.True(t, des.Read(reflect.ValueOf(row), "12", codec.Context{}))
	assert.Equal(t, account{ID: 12, resets: 1}, *row)

	assert.False(t, des.Read(reflect.ValueOf(row), "twelve", codec.Context{}))
	assert.Equal(t, 12, row.ID)

	_, err = member.NewDeserializable("id", member.FieldSetter(field(t, "ID")), member.CodecParser(codec.String))
	assert.Equal(t, member.DefectMismatch, defectOf(t, err))

	param := member.ParameterSetter(accountType, member.ConstructorParameter{Index: 0, Type: reflect.TypeFor[int]()})
	_, err = des.WithSetter(param)
	assert.Equal(t, member.DefectMismatch, defectOf(t, err))

	plain, err := member.NewDeserializable("id", member.FieldSetter(field(t, "ID")), member.CodecParser(codec.Int))
	require.NoError(t, err)

	bound, err := plain.WithSetter(param)
	require.NoError(t, err)
	assert.True(t, bound.Setter.IsConstructorParameter())

	_, err = bound.WithReset(reset)
	assert.Equal(t, member.DefectMismatch, defectOf(t, err))

	assert.True(t, des.Equal(des))
	assert.False(t, des.Equal(bound))
	assert.False(t, des.Equal(des.WithRequired(true)))
}

func TestSameBacking(t *testing.T) {
	t.Parallel()

	f := func() int { return 1 }

	assert.True(t, member.SameBacking(fn(t, f), fn(t, f)))
	assert.False(t, member.SameBacking(fn(t, f), fn(t, func() int { return 2 })))
	assert.True(t, member.SameBacking(field(t, "ID"), field(t, "ID")))
	assert.False(t, member.SameBacking(field(t, "ID"), method(t, "Label")))
	assert.True(t, member.SameBacking(member.Codec{Codec: codec.Int}, member.Codec{Codec: codec.Int}))
	assert.True(t, member.SameBacking(nil, nil))
}
