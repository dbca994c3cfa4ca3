package dynamic

import (
	"fmt"
	"reflect"

	"rowbinder/codec"
)

// convertFunc builds a value from row, or reports the failing column (-1 when the failure is
// not tied to a column).
type convertFunc func(row Row, ctx codec.Context) (reflect.Value, int, bool)

// Converter turns rows of one shape into values of one type. It is immutable and may be used
// for any number of rows concurrently.
type Converter struct {
	strategy Strategy
	target   reflect.Type
	width    int
	convert  convertFunc
}

// Strategy reports how the converter builds values.
func (c Converter) Strategy() Strategy { return c.strategy }

// Target is the type of the values built.
func (c Converter) Target() reflect.Type { return c.target }

// OK reports whether a strategy was found. Converting with a converter that is not OK is a
// bug in the caller.
func (c Converter) OK() bool { return c.strategy != StrategyNone }

// ConvertRow builds a value of Target from row. When a cell is rejected it reports false and
// the index of the offending column, or -1 when no single column is to blame.
func (c Converter) ConvertRow(row Row, ctx codec.Context) (reflect.Value, int, bool) {
	if !c.OK() {
		panic(fmt.Sprintf("dynamic: no strategy converts rows into %s", c.target))
	}

	if row.Width() != c.width {
		panic(fmt.Sprintf("dynamic: converter for %d columns got a row of %d", c.width, row.Width()))
	}

	ctx.Mode = codec.ModeRead

	v, col, ok := c.convert(row, ctx)
	if !ok {
		return reflect.Zero(c.target), col, false
	}

	return v, -1, true
}

// Convert is ConvertRow returning the value as any.
func (c Converter) Convert(row Row, ctx codec.Context) (any, bool) {
	v, _, ok := c.ConvertRow(row, ctx)
	if !ok {
		return nil, false
	}

	return v.Interface(), true
}

// cellContext points ctx at column col of row.
func cellContext(ctx codec.Context, row Row, col int) codec.Context {
	ctx.Column = col
	ctx.ColumnName, _ = row.Name(col)

	return ctx
}

// value turns the result of a constructor into a value of target.
func value(out reflect.Value, target reflect.Type) reflect.Value {
	if out.Type() == target {
		return out
	}

	if out.IsNil() {
		panic(fmt.Sprintf("dynamic: constructor of %s returned nil", target))
	}

	return out.Elem()
}
