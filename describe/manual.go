package describe

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"rowbinder/diagnostic"
	"rowbinder/dynamic"
	"rowbinder/internal/common"
	"rowbinder/member"
)

// registration is what a Manual knows about one type. Each part is served only when it was
// registered; the others miss.
type registration struct {
	hasProvider       bool
	hasSerializable   bool
	hasDeserializable bool
	descriptor
}

// ManualBuilder collects explicit registrations for a Manual.
type ManualBuilder struct {
	policy   Policy
	fallback Describer
	logger   *zap.Logger
	types    map[reflect.Type]*registration
	order    []reflect.Type
	diags    map[reflect.Type]*diagnostic.Diagnostics
}

// NewManualBuilder starts a Manual. A nil fallback is replaced by a Default with default
// options; dynamic queries always go to the fallback.
func NewManualBuilder(policy Policy, fallback Describer) *ManualBuilder {
	if fallback == nil {
		fallback = NewDefault(DefaultOptions())
	}

	return &ManualBuilder{
		policy:   policy,
		fallback: fallback,
		logger:   zap.NewNop(),
		types:    make(map[reflect.Type]*registration),
		diags:    make(map[reflect.Type]*diagnostic.Diagnostics),
	}
}

// WithLogger sets the logger of the Manual.
func (b *ManualBuilder) WithLogger(logger *zap.Logger) *ManualBuilder {
	if logger != nil {
		b.logger = logger
	}

	return b
}

func (b *ManualBuilder) entry(t reflect.Type) *registration {
	r, ok := b.types[t]
	if !ok {
		r = &registration{}
		b.types[t] = r
		b.order = append(b.order, t)
	}

	return r
}

func (b *ManualBuilder) fail(t reflect.Type, code, memberName, format string, args ...any) {
	b.entry(t)

	d, ok := b.diags[t]
	if !ok {
		d = &diagnostic.Diagnostics{}
		b.diags[t] = d
	}

	d.AddErrorf(code, typeString(t), memberName, format, args...)
}

// WithExplicitType registers t with no members and no instance provider, so lookups for it
// never reach the fallback.
func (b *ManualBuilder) WithExplicitType(t reflect.Type) *ManualBuilder {
	r := b.entry(t)
	r.hasProvider = true
	r.hasSerializable = true
	r.hasDeserializable = true

	return b
}

// WithSerializableMember appends m to the members written for t.
func (b *ManualBuilder) WithSerializableMember(t reflect.Type, m member.Serializable) *ManualBuilder {
	if m.Getter.Row != nil && m.Getter.Row != t {
		b.fail(t, diagnostic.CodeShape, m.Name, "getter reads %s, not %s", m.Getter.Row, t)

		return b
	}

	r := b.entry(t)
	r.hasSerializable = true
	r.serializable = append(r.serializable, m)

	return b
}

// WithDeserializableMember appends m to the members read for t.
func (b *ManualBuilder) WithDeserializableMember(t reflect.Type, m member.Deserializable) *ManualBuilder {
	if m.Setter.Row != nil && m.Setter.Row != t {
		b.fail(t, diagnostic.CodeShape, m.Name, "setter writes %s, not %s", m.Setter.Row, t)

		return b
	}

	r := b.entry(t)
	r.hasDeserializable = true
	r.deserializable = append(r.deserializable, m)

	return b
}

// WithInstanceProvider sets how values of t are created.
func (b *ManualBuilder) WithInstanceProvider(t reflect.Type, p member.InstanceProvider) *ManualBuilder {
	r := b.entry(t)

	switch {
	case !p.OK():
		b.fail(t, diagnostic.CodeProvider, "", "instance provider is empty")
	case p.Row != t:
		b.fail(t, diagnostic.CodeProvider, "", "instance provider creates %s, not %s", p.Row, t)
	case r.hasProvider && r.provider.OK():
		b.fail(t, diagnostic.CodeProvider, "", "instance provider registered twice")
	default:
		r.hasProvider = true
		r.provider = p
	}

	return b
}

// Build validates the registrations: column names must be unique per direction and every
// constructor parameter must be bound to a registered member.
func (b *ManualBuilder) Build() (*Manual, error) {
	types := make(map[reflect.Type]*registration, len(b.types))

	for _, t := range b.order {
		r := *b.types[t]
		r.serializable = slices.Clone(r.serializable)
		r.deserializable = slices.Clone(r.deserializable)

		b.validate(t, &r)
		sortMembers(&r.descriptor)

		if r.provider.Kind == member.ProviderConstructor {
			r.constructors = []reflect.Value{r.provider.Backing.(member.Func).Fn}
		}

		types[t] = &r
	}

	var errs []error

	for _, t := range b.order {
		if d, ok := b.diags[t]; ok && d.HasErrors() {
			errs = append(errs, &ConfigError{Type: t, Diagnostics: *d})
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Manual{policy: b.policy, fallback: b.fallback, logger: b.logger, types: types}, nil
}

func (b *ManualBuilder) validate(t reflect.Type, r *registration) {
	written := common.Duplicates(r.serializable, func(m member.Serializable) string { return m.Name })
	for _, name := range written {
		b.fail(t, diagnostic.CodeDuplicateName, name, "more than one member is written as column %q", name)
	}

	read := common.Duplicates(r.deserializable, func(m member.Deserializable) string { return m.Name })
	for _, name := range read {
		b.fail(t, diagnostic.CodeDuplicateName, name, "more than one member is read from column %q", name)
	}

	bound := make(map[int]bool)

	for _, d := range r.deserializable {
		p, ok := d.Setter.Backing.(member.ConstructorParameter)
		if !ok {
			continue
		}

		if r.provider.Kind != member.ProviderConstructor || p.Index >= len(r.provider.Params) {
			b.fail(t, diagnostic.CodeProvider, d.Name, "member is bound to constructor parameter %d, which does not exist", p.Index+1)

			continue
		}

		bound[p.Index] = true
	}

	if r.provider.Kind == member.ProviderConstructor {
		for i := range r.provider.Params {
			if !bound[i] {
				b.fail(t, diagnostic.CodeProvider, "", "constructor parameter %d is not bound to a member", i+1)
			}
		}
	}
}

// Manual describes only the types registered with a ManualBuilder. Misses follow its Policy.
type Manual struct {
	policy   Policy
	fallback Describer
	logger   *zap.Logger
	types    map[reflect.Type]*registration
}

func (m *Manual) miss(t reflect.Type, what string) error {
	if m.policy == PolicyThrow {
		return fmt.Errorf("%w: %s has no registered %s", ErrNotRegistered, typeString(t), what)
	}

	m.logger.Debug("delegating to fallback", zap.Stringer("type", t), zap.String("query", what))

	return nil
}

// InstanceProvider returns the registered instance provider of t.
func (m *Manual) InstanceProvider(t reflect.Type) (member.InstanceProvider, error) {
	r, ok := m.types[t]
	if ok && r.hasProvider {
		if !r.provider.OK() {
			return member.InstanceProvider{}, fmt.Errorf("%w: %s", ErrNoInstanceProvider, t)
		}

		return r.provider, nil
	}

	if err := m.miss(t, "instance provider"); err != nil {
		return member.InstanceProvider{}, err
	}

	return m.fallback.InstanceProvider(t)
}

// SerializableMembers returns the registered members written for t.
func (m *Manual) SerializableMembers(t reflect.Type) ([]member.Serializable, error) {
	r, ok := m.types[t]
	if ok && r.hasSerializable {
		return slices.Clone(r.serializable), nil
	}

	if err := m.miss(t, "serializable members"); err != nil {
		return nil, err
	}

	return m.fallback.SerializableMembers(t)
}

// DeserializableMembers returns the registered members read for t.
func (m *Manual) DeserializableMembers(t reflect.Type) ([]member.Deserializable, error) {
	r, ok := m.types[t]
	if ok && r.hasDeserializable {
		return slices.Clone(r.deserializable), nil
	}

	if err := m.miss(t, "deserializable members"); err != nil {
		return nil, err
	}

	return m.fallback.DeserializableMembers(t)
}

// DynamicCellParser asks the fallback.
func (m *Manual) DynamicCellParser(t reflect.Type) (member.Parser, bool) {
	return m.fallback.DynamicCellParser(t)
}

// DynamicRowConverter asks the fallback.
func (m *Manual) DynamicRowConverter(shape dynamic.Shape, t reflect.Type) dynamic.Converter {
	return m.fallback.DynamicRowConverter(shape, t)
}

// DynamicCells asks the fallback.
func (m *Manual) DynamicCells(obj dynamic.Object) ([]dynamic.Cell, error) {
	return m.fallback.DynamicCells(obj)
}

// Constructors returns the registered constructor of t, if any.
func (m *Manual) Constructors(t reflect.Type) []reflect.Value {
	if r, ok := m.types[t]; ok && r.hasProvider {
		return slices.Clone(r.constructors)
	}

	if m.policy == PolicyThrow {
		return nil
	}

	return m.fallback.Constructors(t)
}

// Clear clears the fallback. Registrations are not cached and stay.
func (m *Manual) Clear() {
	m.fallback.Clear()
}
