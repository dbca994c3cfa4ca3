package member

import (
	"reflect"

	"rowbinder/codec"
)

// Setter stores a value into a row, or hands it to the instance provider's constructor.
type Setter struct {
	Backing      Backing
	Row          reflect.Type
	Takes        reflect.Type
	TakesRow     bool
	TakesContext bool
}

// FieldSetter writes field f.
func FieldSetter(f Field) Setter {
	return Setter{Backing: f, Row: f.Owner, Takes: f.Type}
}

// ParameterSetter binds the value to constructor parameter p of row's instance provider.
func ParameterSetter(row reflect.Type, p ConstructorParameter) Setter {
	return Setter{Backing: p, Row: row, Takes: p.Type}
}

// MethodSetter writes through m, which needs a pointer receiver and the shape (V) or (V, Ctx).
func MethodSetter(m Method) (Setter, error) {
	if !m.PointerReceiver {
		return Setter{}, shapeErr(RoleSetter, m.Name, m.Owner, DefectPointer,
			"setter methods need a pointer receiver to modify the row")
	}

	params, outs := m.params(), m.results()

	s := Setter{Backing: m, Row: m.Owner}

	switch len(params) {
	case 1:
	case 2:
		if err := expectContext(RoleSetter, m.Name, m.Owner, params[1], 2); err != nil {
			return Setter{}, err
		}

		s.TakesContext = true
	default:
		return Setter{}, shapeErr(RoleSetter, m.Name, m.Owner, DefectArity,
			"setter methods take a value and optionally a codec.Context, found %s", m.Signature())
	}

	if len(outs) != 0 {
		return Setter{}, shapeErr(RoleSetter, m.Name, m.Owner, DefectReturn,
			"setter methods return nothing, found %s", m.Signature())
	}

	s.Takes = params[0]

	return s, nil
}

// FuncSetter writes through f, shaped (V), (V, Ctx), (*T, V) or (*T, V, Ctx).
func FuncSetter(row reflect.Type, f Func) (Setter, error) {
	params, outs := f.params(), f.results()
	ptr := reflect.PointerTo(row)

	s := Setter{Backing: f, Row: row}

	switch len(params) {
	case 1:
		s.Takes = params[0]
	case 2:
		switch {
		case params[0] == ptr:
			if params[1] == contextType {
				return Setter{}, shapeErr(RoleSetter, f.Name, row, DefectArity,
					"setter funcs taking the row need a value parameter after it")
			}

			s.TakesRow, s.Takes = true, params[1]
		case params[0] == row:
			return Setter{}, shapeErr(RoleSetter, f.Name, row, DefectPointer,
				"the row must be passed as %s, found %s", ptr, row)
		default:
			if err := expectContext(RoleSetter, f.Name, row, params[1], 2); err != nil {
				return Setter{}, err
			}

			s.TakesContext, s.Takes = true, params[0]
		}
	case 3:
		if err := expectRow(RoleSetter, f.Name, row, params[0], true); err != nil {
			return Setter{}, err
		}

		if err := expectContext(RoleSetter, f.Name, row, params[2], 3); err != nil {
			return Setter{}, err
		}

		s.TakesRow, s.TakesContext, s.Takes = true, true, params[1]
	default:
		return Setter{}, shapeErr(RoleSetter, f.Name, row, DefectArity,
			"setter funcs take one to three parameters, found %d", len(params))
	}

	if len(outs) != 0 {
		return Setter{}, shapeErr(RoleSetter, f.Name, row, DefectReturn,
			"setter funcs return nothing, found %d results", len(outs))
	}

	return s, nil
}

// IsConstructorParameter reports whether the value goes to the constructor instead of a
// built row.
func (s Setter) IsConstructorParameter() bool {
	_, ok := s.Backing.(ConstructorParameter)

	return ok
}

// Set stores v into row, a *Row. Constructor parameters cannot be set on a built row.
func (s Setter) Set(row, v reflect.Value, ctx codec.Context) {
	checkRow(s.Row, row)

	switch b := s.Backing.(type) {
	case Field:
		b.value(row).Set(v)
	case Method:
		b.call(row, append([]reflect.Value{v}, optionalContext(s.TakesContext, ctx)...)...)
	case Func:
		args := make([]reflect.Value, 0, 3)
		if s.TakesRow {
			args = append(args, row)
		}

		args = append(args, v)
		args = append(args, optionalContext(s.TakesContext, ctx)...)
		b.Fn.Call(args)
	case ConstructorParameter:
		panic("member: constructor parameter " + s.Backing.Identity() + " cannot be set on a built row")
	default:
		panic("member: setter cannot be backed by " + s.Backing.Identity())
	}
}

// Equal reports whether both setters write the same thing the same way.
func (s Setter) Equal(o Setter) bool {
	return s.Row == o.Row && s.Takes == o.Takes && s.TakesRow == o.TakesRow &&
		s.TakesContext == o.TakesContext && SameBacking(s.Backing, o.Backing)
}
