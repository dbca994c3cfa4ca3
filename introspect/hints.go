package introspect

import (
	"fmt"
	"reflect"
)

// Describable is implemented by types that register their row binding in code. Inspect calls
// DescribeRow on a zero value of the type, or on a new pointer when only *T implements it.
type Describable interface {
	DescribeRow(h *Hints)
}

// MemberKind tells what a Member is backed by.
type MemberKind int

const (
	MemberField MemberKind = iota + 1
	MemberMethod
	MemberFunc
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberFunc:
		return "func"
	default:
		return "member"
	}
}

// ProviderKind tells how a marked instance provider builds rows.
type ProviderKind int

const (
	ProviderConstructor ProviderKind = iota + 1
	ProviderFactory
)

func (k ProviderKind) String() string {
	if k == ProviderFactory {
		return "factory"
	}

	return "constructor"
}

// Provider is an instance provider marked by an annotation source.
type Provider struct {
	Kind ProviderKind
	Func any
	// Names binds constructor parameters to member names, in parameter order.
	Names  []string
	Source Source
}

// Hints is the registration DSL handed to DescribeRow.
type Hints struct {
	members      []*MemberHints
	byKey        map[string]*MemberHints
	providers    []Provider
	constructors []any
	problems     []hintProblem
}

type hintProblem struct {
	kind    MemberKind
	target  string
	message string
}

// MemberHints annotates one member. Every setter may be called once per member.
type MemberHints struct {
	kind   MemberKind
	target string
	ann    Annotation
	set    map[string]bool
	owner  *Hints
}

func newHints() *Hints {
	return &Hints{byKey: make(map[string]*MemberHints)}
}

func (h *Hints) member(kind MemberKind, target string) *MemberHints {
	key := kind.String() + ":" + target
	if m, ok := h.byKey[key]; ok {
		return m
	}

	m := &MemberHints{
		kind:   kind,
		target: target,
		ann:    Annotation{Source: SourceHints},
		set:    make(map[string]bool),
		owner:  h,
	}

	h.byKey[key] = m
	h.members = append(h.members, m)

	return m
}

// Field annotates the struct field with the given Go name.
func (h *Hints) Field(name string) *MemberHints {
	return h.member(MemberField, name)
}

// Method makes the method with the given name a member read through it. Give it a setter
// with SetterMethod to make it writable too.
func (h *Hints) Method(name string) *MemberHints {
	return h.member(MemberMethod, name)
}

// Getter registers a func-backed member named column, read through fn.
func (h *Hints) Getter(column string, fn any) *MemberHints {
	m := h.member(MemberFunc, column)
	m.ref("getter", &m.ann.Getter, fn)

	return m
}

// Setter registers a func-backed member named column, written through fn. Pair it with
// Getter under the same column to make the member readable too.
func (h *Hints) Setter(column string, fn any) *MemberHints {
	m := h.member(MemberFunc, column)
	m.ref("setter", &m.ann.Setter, fn)

	return m
}

// InstanceProvider marks constructor fn as the way to build rows, binding its parameters to
// the named members in order.
func (h *Hints) InstanceProvider(fn any, names ...string) {
	h.providers = append(h.providers, Provider{Kind: ProviderConstructor, Func: fn, Names: names, Source: SourceHints})
}

// Factory marks fn as the way to build rows.
func (h *Hints) Factory(fn any) {
	h.providers = append(h.providers, Provider{Kind: ProviderFactory, Func: fn, Source: SourceHints})
}

// Constructor declares fn as a constructor of the type without making it the instance
// provider. Dynamic row conversion considers declared constructors.
func (h *Hints) Constructor(fn any) {
	h.constructors = append(h.constructors, fn)
}

func (m *MemberHints) once(key string) bool {
	if m.set[key] {
		m.owner.problems = append(m.owner.problems, hintProblem{
			kind:    m.kind,
			target:  m.target,
			message: fmt.Sprintf("%s given more than once", key),
		})

		return false
	}

	m.set[key] = true

	return true
}

func (m *MemberHints) ref(key string, dst *Ref, ref any) {
	if !m.once(key) {
		return
	}

	if name, ok := ref.(string); ok {
		*dst = Ref{Method: name}

		return
	}

	*dst = Ref{Func: ref}
}

// Name overrides the column name.
func (m *MemberHints) Name(name string) *MemberHints {
	if m.once("name") {
		m.ann.Name = name
	}

	return m
}

// Order gives the member an explicit position.
func (m *MemberHints) Order(order int) *MemberHints {
	if m.once("order") {
		m.ann.Order = &order
	}

	return m
}

// Required marks whether the column must be present when reading.
func (m *MemberHints) Required(required bool) *MemberHints {
	if m.once("required") {
		m.ann.Required = &required
	}

	return m
}

// EmitDefault sets whether zero values are written.
func (m *MemberHints) EmitDefault(emit bool) *MemberHints {
	if m.once("emit default") {
		m.ann.EmitDefault = &emit
	}

	return m
}

// Include forces the member in, even when it is unexported or has no default codec.
func (m *MemberHints) Include() *MemberHints {
	if m.once("include") {
		m.ann.Include = true
	}

	return m
}

// Exclude keeps the member out. Exclusion wins over every inclusion.
func (m *MemberHints) Exclude() *MemberHints {
	if m.once("exclude") {
		m.ann.Exclude = true
	}

	return m
}

// Codec selects a codec registered under name.
func (m *MemberHints) Codec(name string) *MemberHints {
	if m.once("codec") {
		m.ann.Codec = name
	}

	return m
}

// Formatter writes the member through fn, shaped func(V, codec.Context, codec.Buffer) bool.
func (m *MemberHints) Formatter(fn any) *MemberHints {
	if m.once("formatter") {
		m.ann.Formatter = fn
	}

	return m
}

// Parser reads the member through fn, shaped func(string, codec.Context) (V, bool).
func (m *MemberHints) Parser(fn any) *MemberHints {
	if m.once("parser") {
		m.ann.Parser = fn
	}

	return m
}

// Reset runs ref, a method name or a func, before the member is stored.
func (m *MemberHints) Reset(ref any) *MemberHints {
	m.ref("reset", &m.ann.Reset, ref)

	return m
}

// ShouldSerialize consults ref, a method name or a func, before the member is written.
func (m *MemberHints) ShouldSerialize(ref any) *MemberHints {
	m.ref("should serialize", &m.ann.ShouldSerialize, ref)

	return m
}

// SetterMethod writes the member through the named method instead of the field.
func (m *MemberHints) SetterMethod(name string) *MemberHints {
	m.ref("setter", &m.ann.Setter, name)

	return m
}

// GetterMethod reads the member through the named method instead of the field.
func (m *MemberHints) GetterMethod(name string) *MemberHints {
	m.ref("getter", &m.ann.Getter, name)

	return m
}

var describableType = reflect.TypeFor[Describable]()

// collectHints runs DescribeRow for t, or returns nil when t does not implement it.
func collectHints(t reflect.Type) *Hints {
	var d Describable

	switch {
	case t.Kind() == reflect.Interface:
		return nil
	case t.Implements(describableType):
		d = reflect.Zero(t).Interface().(Describable)
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(describableType):
		d = reflect.New(t).Interface().(Describable)
	default:
		return nil
	}

	h := newHints()
	d.DescribeRow(h)

	return h
}
