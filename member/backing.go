package member

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
	"unsafe"

	"rowbinder/codec"
)

// Backing is what a getter, setter, hook or provider is implemented by. The variants are
// Field, Method, Func, ConstructorParameter and Codec.
type Backing interface {
	// Identity is a stable description used for equality and diagnostics.
	Identity() string

	backing()
}

// Field is a struct field, possibly promoted from an embedded struct.
type Field struct {
	Name     string
	Index    []int
	Type     reflect.Type
	Owner    reflect.Type
	Exported bool
}

// Method is a method in the method set of *Owner.
type Method struct {
	Name  string
	Owner reflect.Type
	// PointerReceiver is false when the method is also in the method set of Owner.
	PointerReceiver bool

	fn reflect.Value
}

// Func is a free function: the counterpart of static methods and delegates.
type Func struct {
	Name string
	Fn   reflect.Value
}

// ConstructorParameter is parameter Index of the instance provider's constructor.
type ConstructorParameter struct {
	Index int
	Type  reflect.Type
}

// Codec is a formatter or parser backed directly by a scalar codec.
type Codec struct {
	Codec *codec.Codec
}

func (Field) backing()                {}
func (Method) backing()               {}
func (Func) backing()                 {}
func (ConstructorParameter) backing() {}
func (Codec) backing()                {}

func (f Field) Identity() string {
	return "field " + typeName(f.Owner) + "." + f.Name
}

func (m Method) Identity() string {
	return "method " + typeName(m.Owner) + "." + m.Name
}

func (f Func) Identity() string {
	if !f.Fn.IsValid() {
		return "func " + f.Name
	}

	return "func " + f.Name + " " + f.Fn.Type().String()
}

func (p ConstructorParameter) Identity() string {
	return "constructor parameter " + strconv.Itoa(p.Index) + " " + typeName(p.Type)
}

func (c Codec) Identity() string {
	return "codec " + c.Codec.Name()
}

// SameBacking reports whether a and b are the same backing. Funcs compare by code pointer.
func SameBacking(a, b Backing) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case Field:
		b, ok := b.(Field)

		return ok && a.Owner == b.Owner && a.Name == b.Name && slices.Equal(a.Index, b.Index)
	case Method:
		b, ok := b.(Method)

		return ok && a.Owner == b.Owner && a.Name == b.Name
	case Func:
		b, ok := b.(Func)

		return ok && a.Fn.IsValid() == b.Fn.IsValid() &&
			(!a.Fn.IsValid() || a.Fn.Type() == b.Fn.Type() && a.Fn.Pointer() == b.Fn.Pointer())
	case ConstructorParameter:
		b, ok := b.(ConstructorParameter)

		return ok && a == b
	case Codec:
		b, ok := b.(Codec)

		return ok && a.Codec == b.Codec
	default:
		panic("member: unknown backing " + a.Identity())
	}
}

// FieldOf builds the Field backing for sf, a field of owner found through
// reflect.Type.FieldByName or an index path.
func FieldOf(owner reflect.Type, sf reflect.StructField) Field {
	return Field{
		Name:     sf.Name,
		Index:    slices.Clone(sf.Index),
		Type:     sf.Type,
		Owner:    owner,
		Exported: sf.IsExported(),
	}
}

// value returns the addressable field inside row, a *Owner. Unexported fields are reached
// through unsafe so explicitly included private fields can be read and written.
func (f Field) value(row reflect.Value) reflect.Value {
	v := row.Elem().FieldByIndex(f.Index)
	if f.Exported {
		return v
	}

	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// MethodOf finds the method name in the method set of *owner.
func MethodOf(role Role, owner reflect.Type, name string) (Method, error) {
	if !isExportedName(name) {
		return Method{}, shapeErr(role, name, owner, DefectInaccessible, "method %s is not exported", name)
	}

	m, ok := reflect.PointerTo(owner).MethodByName(name)
	if !ok {
		return Method{}, shapeErr(role, name, owner, DefectNotFound, "%s has no method %s", owner, name)
	}

	_, onValue := owner.MethodByName(name)

	return Method{Name: name, Owner: owner, PointerReceiver: !onValue, fn: m.Func}, nil
}

// FuncOf wraps fn, reporting DefectNotFunc for anything that is not a non-nil function.
func FuncOf(role Role, row reflect.Type, name string, fn any) (Func, error) {
	var v reflect.Value

	switch fn := fn.(type) {
	case reflect.Value:
		v = fn
	default:
		v = reflect.ValueOf(fn)
	}

	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Func{}, shapeErr(role, name, row, DefectNotFunc, "%T is not a function", fn)
	}

	if v.Type().IsVariadic() {
		return Func{}, shapeErr(role, name, row, DefectVariadic, "%s is variadic", v.Type())
	}

	return Func{Name: name, Fn: v}, nil
}

// params lists the parameters of m, without the receiver.
func (m Method) params() []reflect.Type {
	t := m.fn.Type()

	out := make([]reflect.Type, 0, t.NumIn()-1)
	for i := 1; i < t.NumIn(); i++ {
		out = append(out, t.In(i))
	}

	return out
}

func (m Method) results() []reflect.Type {
	return results(m.fn.Type())
}

// Signature describes the method's parameters and results, excluding the receiver.
func (m Method) Signature() string {
	return signature(m.params(), m.results())
}

func (m Method) call(row reflect.Value, args ...reflect.Value) []reflect.Value {
	return m.fn.Call(append([]reflect.Value{row}, args...))
}

func (f Func) params() []reflect.Type {
	t := f.Fn.Type()

	out := make([]reflect.Type, t.NumIn())
	for i := range out {
		out[i] = t.In(i)
	}

	return out
}

func (f Func) results() []reflect.Type {
	return results(f.Fn.Type())
}

func results(t reflect.Type) []reflect.Type {
	out := make([]reflect.Type, t.NumOut())
	for i := range out {
		out[i] = t.Out(i)
	}

	return out
}

func signature(params, results []reflect.Type) string {
	s := "(" + typeList(params) + ")"

	switch len(results) {
	case 0:
		return s
	case 1:
		return s + " " + results[0].String()
	default:
		return s + " (" + typeList(results) + ")"
	}
}

func typeList(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	return strings.Join(names, ", ")
}

func isExportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)

	return unicode.IsUpper(r)
}

var (
	contextType = reflect.TypeFor[codec.Context]()
	bufferType  = reflect.TypeFor[codec.Buffer]()
	boolType    = reflect.TypeFor[bool]()
	stringType  = reflect.TypeFor[string]()
)
