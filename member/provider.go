package member

import (
	"fmt"
	"reflect"
	"slices"

	"rowbinder/codec"
)

//go:generate go tool stringer -type=ProviderKind -output=provider_string.go

// ProviderKind tells how an InstanceProvider obtains new rows.
type ProviderKind int

const (
	ProviderNone        ProviderKind = iota // no way to build the row
	ProviderZero                            // reflect.New, the parameterless constructor
	ProviderConstructor                     // a func taking some deserializable members as parameters
	ProviderFactory                         // a func producing a row, optionally from the context
)

// InstanceProvider describes how to obtain a new row. The zero value provides nothing.
type InstanceProvider struct {
	Kind ProviderKind
	Row  reflect.Type
	// Backing is the Func behind constructors and factories, nil otherwise.
	Backing Backing
	// Params are the constructor parameter types; ParamNames the deserializable members bound
	// to them, in the same order.
	Params     []reflect.Type
	ParamNames []string

	ReturnsPointer bool
	TakesContext   bool
}

// ZeroProvider builds rows with reflect.New. Interfaces have no zero-value provider.
func ZeroProvider(row reflect.Type) (InstanceProvider, error) {
	if row.Kind() == reflect.Interface {
		return InstanceProvider{}, shapeErr(RoleConstructor, row.String(), row, DefectMismatch,
			"interface types have no parameterless constructor")
	}

	return InstanceProvider{Kind: ProviderZero, Row: row}, nil
}

// ConstructorProvider builds rows through f, shaped (P1, ..., Pn) Row or (P1, ..., Pn) *Row,
// with names[i] being the member bound to parameter i.
func ConstructorProvider(row reflect.Type, f Func, names []string) (InstanceProvider, error) {
	params, outs := f.params(), f.results()

	ptr, err := returnsRow(RoleConstructor, f.Name, row, outs, 1)
	if err != nil {
		return InstanceProvider{}, err
	}

	if len(names) != len(params) {
		return InstanceProvider{}, shapeErr(RoleConstructor, f.Name, row, DefectArity,
			"constructor takes %d parameters but %d member names are bound", len(params), len(names))
	}

	for i, name := range names {
		if name == "" {
			return InstanceProvider{}, shapeErr(RoleConstructor, f.Name, row, DefectParamType,
				"parameter %d is not bound to a member name", i+1)
		}

		if slices.Index(names, name) != i {
			return InstanceProvider{}, shapeErr(RoleConstructor, f.Name, row, DefectParamType,
				"member %q is bound to more than one parameter", name)
		}
	}

	return InstanceProvider{
		Kind:           ProviderConstructor,
		Row:            row,
		Backing:        f,
		Params:         params,
		ParamNames:     slices.Clone(names),
		ReturnsPointer: ptr,
	}, nil
}

// FactoryProvider builds rows through f, shaped () (Row, bool) or (Ctx) (Row, bool), with *Row
// allowed in place of Row.
func FactoryProvider(row reflect.Type, f Func) (InstanceProvider, error) {
	params, outs := f.params(), f.results()

	p := InstanceProvider{Kind: ProviderFactory, Row: row, Backing: f}

	switch len(params) {
	case 0:
	case 1:
		if err := expectContext(RoleFactory, f.Name, row, params[0], 1); err != nil {
			return InstanceProvider{}, err
		}

		p.TakesContext = true
	default:
		return InstanceProvider{}, shapeErr(RoleFactory, f.Name, row, DefectArity,
			"factories take no parameters or a codec.Context, found %d", len(params))
	}

	if len(outs) != 2 || outs[1] != boolType {
		return InstanceProvider{}, shapeErr(RoleFactory, f.Name, row, DefectReturn,
			"factories return (%s, bool), found %s", row, signature(params, outs))
	}

	ptr, err := returnsRow(RoleFactory, f.Name, row, outs[:1], 1)
	if err != nil {
		return InstanceProvider{}, err
	}

	p.ReturnsPointer = ptr

	return p, nil
}

func returnsRow(role Role, name string, row reflect.Type, outs []reflect.Type, want int) (bool, error) {
	if len(outs) != want {
		return false, shapeErr(role, name, row, DefectReturn, "must return %s or *%s", row, row)
	}

	switch outs[0] {
	case row:
		return false, nil
	case reflect.PointerTo(row):
		return true, nil
	default:
		return false, shapeErr(role, name, row, DefectReturn, "must return %s or *%s, found %s", row, row, outs[0])
	}
}

// OK reports whether the provider can build rows at all.
func (p InstanceProvider) OK() bool {
	return p.Kind != ProviderNone
}

// Produce builds a row without constructor arguments and returns it as *Row. It reports false
// when a factory declines. Constructors need Construct.
func (p InstanceProvider) Produce(ctx codec.Context) (reflect.Value, bool) {
	switch p.Kind {
	case ProviderZero:
		return reflect.New(p.Row), true
	case ProviderFactory:
		out := p.Backing.(Func).Fn.Call(optionalContext(p.TakesContext, ctx))
		if !out[1].Bool() {
			return reflect.Value{}, false
		}

		return p.pointer(out[0]), true
	case ProviderConstructor:
		if len(p.Params) == 0 {
			return p.Construct(nil), true
		}

		panic(fmt.Sprintf("member: constructor of %s needs %d arguments", p.Row, len(p.Params)))
	default:
		panic(fmt.Sprintf("member: %s has no instance provider", typeName(p.Row)))
	}
}

// Construct calls the constructor with args, one per parameter, and returns the row as *Row.
func (p InstanceProvider) Construct(args []reflect.Value) reflect.Value {
	if p.Kind != ProviderConstructor {
		panic(fmt.Sprintf("member: %s provider of %s is not a constructor", p.Kind, typeName(p.Row)))
	}

	if len(args) != len(p.Params) {
		panic(fmt.Sprintf("member: constructor of %s takes %d arguments, got %d", p.Row, len(p.Params), len(args)))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = convertTo(a, p.Params[i])
	}

	return p.pointer(p.Backing.(Func).Fn.Call(in)[0])
}

// ParamIndex returns the constructor parameter bound to member name, or -1.
func (p InstanceProvider) ParamIndex(name string) int {
	return slices.Index(p.ParamNames, name)
}

func (p InstanceProvider) pointer(v reflect.Value) reflect.Value {
	if p.ReturnsPointer {
		if v.IsNil() {
			panic(fmt.Sprintf("member: %s returned a nil *%s", p.Backing.Identity(), p.Row))
		}

		return v
	}

	ptr := reflect.New(p.Row)
	ptr.Elem().Set(v)

	return ptr
}

// Equal reports whether both providers build rows the same way.
func (p InstanceProvider) Equal(o InstanceProvider) bool {
	if p.Kind != o.Kind || p.Row != o.Row || p.ReturnsPointer != o.ReturnsPointer || p.TakesContext != o.TakesContext {
		return false
	}

	if (p.Backing == nil) != (o.Backing == nil) || p.Backing != nil && !SameBacking(p.Backing, o.Backing) {
		return false
	}

	return slices.Equal(p.Params, o.Params) && slices.Equal(p.ParamNames, o.ParamNames)
}
