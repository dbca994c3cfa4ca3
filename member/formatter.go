package member

import (
	"reflect"

	"rowbinder/codec"
)

// Formatter writes a member's value as text.
type Formatter struct {
	Backing Backing
	Takes   reflect.Type
}

// CodecFormatter formats through c.
func CodecFormatter(c *codec.Codec) Formatter {
	return Formatter{Backing: Codec{Codec: c}, Takes: c.Type()}
}

// FuncFormatter formats through f, which must be shaped (V, Ctx, codec.Buffer) bool.
func FuncFormatter(row reflect.Type, f Func) (Formatter, error) {
	params, outs := f.params(), f.results()

	if len(params) != 3 {
		return Formatter{}, shapeErr(RoleFormatter, f.Name, row, DefectArity,
			"formatters take (value, codec.Context, codec.Buffer), found %d parameters", len(params))
	}

	if err := expectContext(RoleFormatter, f.Name, row, params[1], 2); err != nil {
		return Formatter{}, err
	}

	if params[2] != bufferType {
		d := DefectParamType
		if params[2].Kind() == reflect.Pointer && params[2].Elem() == bufferType {
			d = DefectPointer
		}

		return Formatter{}, shapeErr(RoleFormatter, f.Name, row, d,
			"parameter 3 must be codec.Buffer, found %s", params[2])
	}

	if len(outs) != 1 || outs[0] != boolType {
		return Formatter{}, shapeErr(RoleFormatter, f.Name, row, DefectReturn,
			"formatters return bool, found %s", signature(params, outs))
	}

	return Formatter{Backing: f, Takes: params[0]}, nil
}

// Format writes v into buf, reporting false only when buf could not grow enough.
func (f Formatter) Format(v reflect.Value, ctx codec.Context, buf codec.Buffer) bool {
	switch b := f.Backing.(type) {
	case Codec:
		return b.Codec.Format(v, buf)
	case Func:
		return b.Fn.Call([]reflect.Value{convertTo(v, f.Takes), reflect.ValueOf(ctx), reflect.ValueOf(&buf).Elem()})[0].Bool()
	default:
		panic("member: formatter cannot be backed by " + f.Backing.Identity())
	}
}

// Equal reports whether both formatters are the same.
func (f Formatter) Equal(o Formatter) bool {
	return f.Takes == o.Takes && SameBacking(f.Backing, o.Backing)
}

// Parser turns text into a member's value.
type Parser struct {
	Backing  Backing
	Produces reflect.Type
}

// CodecParser parses through c.
func CodecParser(c *codec.Codec) Parser {
	return Parser{Backing: Codec{Codec: c}, Produces: c.Type()}
}

// FuncParser parses through f, which must be shaped (string, Ctx) (V, bool).
func FuncParser(row reflect.Type, f Func) (Parser, error) {
	params, outs := f.params(), f.results()

	if len(params) != 2 {
		return Parser{}, shapeErr(RoleParser, f.Name, row, DefectArity,
			"parsers take (string, codec.Context), found %d parameters", len(params))
	}

	if params[0] != stringType {
		return Parser{}, shapeErr(RoleParser, f.Name, row, DefectParamType,
			"parameter 1 must be string, found %s", params[0])
	}

	if err := expectContext(RoleParser, f.Name, row, params[1], 2); err != nil {
		return Parser{}, err
	}

	if len(outs) != 2 || outs[1] != boolType {
		return Parser{}, shapeErr(RoleParser, f.Name, row, DefectReturn,
			"parsers return (value, bool), found %s", signature(params, outs))
	}

	return Parser{Backing: f, Produces: outs[0]}, nil
}

// Parse converts text. On failure the value is the zero value of Produces.
func (p Parser) Parse(text string, ctx codec.Context) (reflect.Value, bool) {
	switch b := p.Backing.(type) {
	case Codec:
		return b.Codec.Parse(text)
	case Func:
		out := b.Fn.Call([]reflect.Value{reflect.ValueOf(text), reflect.ValueOf(ctx)})
		if !out[1].Bool() {
			return reflect.Zero(p.Produces), false
		}

		return out[0], true
	default:
		panic("member: parser cannot be backed by " + p.Backing.Identity())
	}
}

// Equal reports whether both parsers are the same.
func (p Parser) Equal(o Parser) bool {
	return p.Produces == o.Produces && SameBacking(p.Backing, o.Backing)
}

// convertTo passes v where typ is expected, keeping interface targets typed.
func convertTo(v reflect.Value, typ reflect.Type) reflect.Value {
	if v.Type() == typ {
		return v
	}

	out := reflect.New(typ).Elem()
	out.Set(v)

	return out
}
