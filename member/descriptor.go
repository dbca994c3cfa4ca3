package member

import (
	"reflect"

	"rowbinder/codec"
)

// Serializable is the read side of a column: a record value turned into text.
type Serializable struct {
	Name            string
	Getter          Getter
	Formatter       Formatter
	ShouldSerialize *ShouldSerialize
	// EmitDefault writes zero values; when false they are written as an empty cell.
	EmitDefault bool
	Order       int
	Ordered     bool
}

// NewSerializable pairs a getter with a formatter. The getter's result must be assignable to
// the formatter's input.
func NewSerializable(name string, g Getter, f Formatter) (Serializable, error) {
	if name == "" {
		return Serializable{}, shapeErr(RoleMember, name, g.Row, DefectMismatch, "member name is empty")
	}

	if !assignable(g.Returns, f.Takes) {
		return Serializable{}, shapeErr(RoleFormatter, name, g.Row, DefectMismatch,
			"getter returns %s, formatter takes %s", typeName(g.Returns), typeName(f.Takes))
	}

	return Serializable{Name: name, Getter: g, Formatter: f, EmitDefault: true}, nil
}

// WithShouldSerialize returns a copy that consults s before writing.
func (m Serializable) WithShouldSerialize(s ShouldSerialize) (Serializable, error) {
	if s.Row != m.Getter.Row {
		return Serializable{}, shapeErr(RoleShouldSerialize, m.Name, m.Getter.Row, DefectMismatch,
			"hook is declared for %s", typeName(s.Row))
	}

	m.ShouldSerialize = &s

	return m, nil
}

// WithEmitDefault returns a copy with EmitDefault set.
func (m Serializable) WithEmitDefault(emit bool) Serializable {
	m.EmitDefault = emit

	return m
}

// WithOrder returns a copy with an explicit order.
func (m Serializable) WithOrder(order int) Serializable {
	m.Order, m.Ordered = order, true

	return m
}

// Write formats the member of row, a *Row, into buf. Skipped values write nothing. It
// reports false only when buf could not grow enough.
func (m Serializable) Write(row reflect.Value, ctx codec.Context, buf codec.Buffer) bool {
	if m.ShouldSerialize != nil && !m.ShouldSerialize.Should(row, ctx) {
		return true
	}

	v := m.Getter.Get(row, ctx)
	if !m.EmitDefault && v.IsZero() {
		return true
	}

	return m.Formatter.Format(v, ctx, buf)
}

// Equal compares names, flags and the identity of every backing.
func (m Serializable) Equal(o Serializable) bool {
	if m.Name != o.Name || m.EmitDefault != o.EmitDefault || m.Ordered != o.Ordered || m.Order != o.Order {
		return false
	}

	if (m.ShouldSerialize == nil) != (o.ShouldSerialize == nil) ||
		m.ShouldSerialize != nil && !m.ShouldSerialize.Equal(*o.ShouldSerialize) {
		return false
	}

	return m.Getter.Equal(o.Getter) && m.Formatter.Equal(o.Formatter)
}

// Deserializable is the write side of a column: text parsed and stored into a record.
type Deserializable struct {
	Name     string
	Setter   Setter
	Parser   Parser
	Reset    *Reset
	Required bool
	Order    int
	Ordered  bool
}

// NewDeserializable pairs a parser with a setter. The parser's result must be assignable to
// the setter's input.
func NewDeserializable(name string, s Setter, p Parser) (Deserializable, error) {
	if name == "" {
		return Deserializable{}, shapeErr(RoleMember, name, s.Row, DefectMismatch, "member name is empty")
	}

	if !assignable(p.Produces, s.Takes) {
		return Deserializable{}, shapeErr(RoleParser, name, s.Row, DefectMismatch,
			"parser produces %s, setter takes %s", typeName(p.Produces), typeName(s.Takes))
	}

	return Deserializable{Name: name, Setter: s, Parser: p}, nil
}

// WithReset returns a copy that runs r before storing a value. Constructor parameters cannot
// be reset.
func (m Deserializable) WithReset(r Reset) (Deserializable, error) {
	if r.Row != m.Setter.Row {
		return Deserializable{}, shapeErr(RoleReset, m.Name, m.Setter.Row, DefectMismatch,
			"reset is declared for %s", typeName(r.Row))
	}

	if m.Setter.IsConstructorParameter() {
		return Deserializable{}, shapeErr(RoleReset, m.Name, m.Setter.Row, DefectMismatch,
			"members bound to constructor parameters cannot be reset")
	}

	m.Reset = &r

	return m, nil
}

// WithRequired returns a copy with Required set.
func (m Deserializable) WithRequired(required bool) Deserializable {
	m.Required = required

	return m
}

// WithOrder returns a copy with an explicit order.
func (m Deserializable) WithOrder(order int) Deserializable {
	m.Order, m.Ordered = order, true

	return m
}

// WithSetter returns a copy storing through s instead, typically a ConstructorParameter. A
// member with a reset cannot move onto a constructor parameter.
func (m Deserializable) WithSetter(s Setter) (Deserializable, error) {
	if !assignable(m.Parser.Produces, s.Takes) {
		return Deserializable{}, shapeErr(RoleSetter, m.Name, s.Row, DefectMismatch,
			"parser produces %s, setter takes %s", typeName(m.Parser.Produces), typeName(s.Takes))
	}

	if s.IsConstructorParameter() && m.Reset != nil {
		return Deserializable{}, shapeErr(RoleReset, m.Name, s.Row, DefectMismatch,
			"members bound to constructor parameters cannot be reset")
	}

	m.Setter = s

	return m, nil
}

// Read resets, parses text and stores the value into row, a *Row. It reports false when the
// text is rejected; the reset has run by then.
func (m Deserializable) Read(row reflect.Value, text string, ctx codec.Context) bool {
	if m.Reset != nil {
		m.Reset.Run(row, ctx)
	}

	v, ok := m.Parser.Parse(text, ctx)
	if !ok {
		return false
	}

	m.Setter.Set(row, v, ctx)

	return true
}

// Equal compares names, flags and the identity of every backing.
func (m Deserializable) Equal(o Deserializable) bool {
	if m.Name != o.Name || m.Required != o.Required || m.Ordered != o.Ordered || m.Order != o.Order {
		return false
	}

	if (m.Reset == nil) != (o.Reset == nil) || m.Reset != nil && !m.Reset.Equal(*o.Reset) {
		return false
	}

	return m.Setter.Equal(o.Setter) && m.Parser.Equal(o.Parser)
}
