package member

import (
	"reflect"

	"rowbinder/codec"
)

// Getter reads a value out of a row.
type Getter struct {
	Backing Backing
	Row     reflect.Type
	Returns reflect.Type
	// TakesRow and TakesContext describe which of the optional arguments a Func or Method
	// backing expects.
	TakesRow     bool
	TakesContext bool
}

// FieldGetter reads field f.
func FieldGetter(f Field) Getter {
	return Getter{Backing: f, Row: f.Owner, Returns: f.Type}
}

// MethodGetter reads through m, which must be shaped () V or (Ctx) V.
func MethodGetter(m Method) (Getter, error) {
	params, outs := m.params(), m.results()

	g := Getter{Backing: m, Row: m.Owner}

	switch len(params) {
	case 0:
	case 1:
		if err := expectContext(RoleGetter, m.Name, m.Owner, params[0], 1); err != nil {
			return Getter{}, err
		}

		g.TakesContext = true
	default:
		return Getter{}, shapeErr(RoleGetter, m.Name, m.Owner, DefectArity,
			"getter methods take no parameters or a codec.Context, found %s", m.Signature())
	}

	if len(outs) != 1 {
		return Getter{}, shapeErr(RoleGetter, m.Name, m.Owner, DefectReturn,
			"getter methods return exactly one value, found %s", m.Signature())
	}

	g.Returns = outs[0]

	return g, nil
}

// FuncGetter reads through f, which must be shaped () V, (Ctx) V, (T) V or (T, Ctx) V.
func FuncGetter(row reflect.Type, f Func) (Getter, error) {
	params, outs := f.params(), f.results()

	g := Getter{Backing: f, Row: row}

	switch len(params) {
	case 0:
	case 1:
		switch {
		case params[0] == contextType:
			g.TakesContext = true
		case params[0] == row:
			g.TakesRow = true
		case params[0] == reflect.PointerTo(row):
			return Getter{}, shapeErr(RoleGetter, f.Name, row, DefectPointer,
				"getter funcs take the row by value, found %s", params[0])
		default:
			return Getter{}, shapeErr(RoleGetter, f.Name, row, DefectParamType,
				"parameter must be %s or codec.Context, found %s", row, params[0])
		}
	case 2:
		if err := expectRow(RoleGetter, f.Name, row, params[0], false); err != nil {
			return Getter{}, err
		}

		if err := expectContext(RoleGetter, f.Name, row, params[1], 2); err != nil {
			return Getter{}, err
		}

		g.TakesRow, g.TakesContext = true, true
	default:
		return Getter{}, shapeErr(RoleGetter, f.Name, row, DefectArity,
			"getter funcs take at most two parameters, found %d", len(params))
	}

	if len(outs) != 1 {
		return Getter{}, shapeErr(RoleGetter, f.Name, row, DefectReturn,
			"getter funcs return exactly one value, found %d", len(outs))
	}

	g.Returns = outs[0]

	return g, nil
}

// Get reads the value out of row, a *Row.
func (g Getter) Get(row reflect.Value, ctx codec.Context) reflect.Value {
	checkRow(g.Row, row)

	switch b := g.Backing.(type) {
	case Field:
		return b.value(row)
	case Method:
		return b.call(row, optionalContext(g.TakesContext, ctx)...)[0]
	case Func:
		args := make([]reflect.Value, 0, 2)
		if g.TakesRow {
			args = append(args, row.Elem())
		}

		args = append(args, optionalContext(g.TakesContext, ctx)...)

		return b.Fn.Call(args)[0]
	default:
		panic("member: getter cannot be backed by " + g.Backing.Identity())
	}
}

// Equal reports whether both getters read the same thing the same way.
func (g Getter) Equal(o Getter) bool {
	return g.Row == o.Row && g.Returns == o.Returns && g.TakesRow == o.TakesRow &&
		g.TakesContext == o.TakesContext && SameBacking(g.Backing, o.Backing)
}
