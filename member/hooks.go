package member

import (
	"reflect"

	"rowbinder/codec"
)

// Reset runs before a member's value is stored.
type Reset struct {
	Backing      Backing
	Row          reflect.Type
	TakesRow     bool
	TakesContext bool
}

// MethodReset resets through m, which needs a pointer receiver and the shape () or (Ctx).
func MethodReset(m Method) (Reset, error) {
	if !m.PointerReceiver {
		return Reset{}, shapeErr(RoleReset, m.Name, m.Owner, DefectPointer,
			"reset methods need a pointer receiver to modify the row")
	}

	r := Reset{Backing: m, Row: m.Owner}

	ctx, err := optionalContextParam(RoleReset, m.Name, m.Owner, m.params())
	if err != nil {
		return Reset{}, err
	}

	r.TakesContext = ctx

	if len(m.results()) != 0 {
		return Reset{}, shapeErr(RoleReset, m.Name, m.Owner, DefectReturn,
			"reset methods return nothing, found %s", m.Signature())
	}

	return r, nil
}

// FuncReset resets through f, shaped (), (Ctx), (*T) or (*T, Ctx).
func FuncReset(row reflect.Type, f Func) (Reset, error) {
	r := Reset{Backing: f, Row: row}

	takesRow, takesCtx, err := rowAndContext(RoleReset, f.Name, row, f.params(), true)
	if err != nil {
		return Reset{}, err
	}

	r.TakesRow, r.TakesContext = takesRow, takesCtx

	if len(f.results()) != 0 {
		return Reset{}, shapeErr(RoleReset, f.Name, row, DefectReturn,
			"reset funcs return nothing, found %d results", len(f.results()))
	}

	return r, nil
}

// Run invokes the reset against row, a *Row.
func (r Reset) Run(row reflect.Value, ctx codec.Context) {
	checkRow(r.Row, row)

	switch b := r.Backing.(type) {
	case Method:
		b.call(row, optionalContext(r.TakesContext, ctx)...)
	case Func:
		var args []reflect.Value
		if r.TakesRow {
			args = append(args, row)
		}

		b.Fn.Call(append(args, optionalContext(r.TakesContext, ctx)...))
	default:
		panic("member: reset cannot be backed by " + r.Backing.Identity())
	}
}

// Equal reports whether both resets are the same.
func (r Reset) Equal(o Reset) bool {
	return r.Row == o.Row && r.TakesRow == o.TakesRow && r.TakesContext == o.TakesContext &&
		SameBacking(r.Backing, o.Backing)
}

// ShouldSerialize decides per row whether a member is written at all.
type ShouldSerialize struct {
	Backing      Backing
	Row          reflect.Type
	TakesRow     bool
	TakesContext bool
}

// MethodShouldSerialize decides through m, shaped () bool or (Ctx) bool.
func MethodShouldSerialize(m Method) (ShouldSerialize, error) {
	s := ShouldSerialize{Backing: m, Row: m.Owner}

	ctx, err := optionalContextParam(RoleShouldSerialize, m.Name, m.Owner, m.params())
	if err != nil {
		return ShouldSerialize{}, err
	}

	s.TakesContext = ctx

	if outs := m.results(); len(outs) != 1 || outs[0] != boolType {
		return ShouldSerialize{}, shapeErr(RoleShouldSerialize, m.Name, m.Owner, DefectReturn,
			"should serialize methods return bool, found %s", m.Signature())
	}

	return s, nil
}

// FuncShouldSerialize decides through f, shaped () bool, (Ctx) bool, (T) bool or (T, Ctx) bool.
func FuncShouldSerialize(row reflect.Type, f Func) (ShouldSerialize, error) {
	s := ShouldSerialize{Backing: f, Row: row}

	takesRow, takesCtx, err := rowAndContext(RoleShouldSerialize, f.Name, row, f.params(), false)
	if err != nil {
		return ShouldSerialize{}, err
	}

	s.TakesRow, s.TakesContext = takesRow, takesCtx

	if outs := f.results(); len(outs) != 1 || outs[0] != boolType {
		return ShouldSerialize{}, shapeErr(RoleShouldSerialize, f.Name, row, DefectReturn,
			"should serialize funcs return bool, found %s", signature(f.params(), outs))
	}

	return s, nil
}

// Should reports whether the member is written for row, a *Row.
func (s ShouldSerialize) Should(row reflect.Value, ctx codec.Context) bool {
	checkRow(s.Row, row)

	switch b := s.Backing.(type) {
	case Method:
		return b.call(row, optionalContext(s.TakesContext, ctx)...)[0].Bool()
	case Func:
		var args []reflect.Value
		if s.TakesRow {
			args = append(args, row.Elem())
		}

		return b.Fn.Call(append(args, optionalContext(s.TakesContext, ctx)...))[0].Bool()
	default:
		panic("member: should serialize cannot be backed by " + s.Backing.Identity())
	}
}

// Equal reports whether both hooks are the same.
func (s ShouldSerialize) Equal(o ShouldSerialize) bool {
	return s.Row == o.Row && s.TakesRow == o.TakesRow && s.TakesContext == o.TakesContext &&
		SameBacking(s.Backing, o.Backing)
}

func optionalContextParam(role Role, name string, row reflect.Type, params []reflect.Type) (bool, error) {
	switch len(params) {
	case 0:
		return false, nil
	case 1:
		if err := expectContext(role, name, row, params[0], 1); err != nil {
			return false, err
		}

		return true, nil
	default:
		return false, shapeErr(role, name, row, DefectArity,
			"methods take no parameters or a codec.Context, found %d parameters", len(params))
	}
}

// rowAndContext matches (), (Ctx), (Row) and (Row, Ctx), with Row a pointer when pointer is set.
func rowAndContext(role Role, name string, row reflect.Type, params []reflect.Type, pointer bool) (bool, bool, error) {
	switch len(params) {
	case 0:
		return false, false, nil
	case 1:
		if params[0] == contextType {
			return false, true, nil
		}

		if err := expectRow(role, name, row, params[0], pointer); err != nil {
			return false, false, err
		}

		return true, false, nil
	case 2:
		if err := expectRow(role, name, row, params[0], pointer); err != nil {
			return false, false, err
		}

		if err := expectContext(role, name, row, params[1], 2); err != nil {
			return false, false, err
		}

		return true, true, nil
	default:
		return false, false, shapeErr(role, name, row, DefectArity,
			"funcs take at most the row and a codec.Context, found %d parameters", len(params))
	}
}
