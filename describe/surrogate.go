package describe

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"rowbinder/diagnostic"
	"rowbinder/dynamic"
	"rowbinder/internal/cache"
	"rowbinder/internal/match"
	"rowbinder/member"
)

// SurrogateBuilder collects target/stand-in pairs for a Surrogate.
type SurrogateBuilder struct {
	policy   Policy
	fallback Describer
	opts     Options
	pairs    map[reflect.Type]reflect.Type
	errs     []error
}

// NewSurrogateBuilder starts a Surrogate. A nil fallback is replaced by a Default with
// default options.
func NewSurrogateBuilder(policy Policy, fallback Describer) *SurrogateBuilder {
	if fallback == nil {
		fallback = NewDefault(DefaultOptions())
	}

	return &SurrogateBuilder{
		policy:   policy,
		fallback: fallback,
		opts:     DefaultOptions(),
		pairs:    make(map[reflect.Type]reflect.Type),
	}
}

// WithOptions sets the options used to discover stand-in types.
func (b *SurrogateBuilder) WithOptions(opts Options) *SurrogateBuilder {
	b.opts = opts.withDefaults()

	return b
}

// WithSurrogate describes target as if it were standIn.
func (b *SurrogateBuilder) WithSurrogate(target, standIn reflect.Type) *SurrogateBuilder {
	switch {
	case target == nil || standIn == nil:
		b.errs = append(b.errs, fmt.Errorf("%w: surrogate pair has a nil type", ErrConfiguration))
	case target == standIn:
		b.errs = append(b.errs, fmt.Errorf("%w: %s cannot be its own surrogate", ErrConfiguration, target))
	default:
		if prev, dup := b.pairs[target]; dup {
			b.errs = append(b.errs, fmt.Errorf("%w: %s already has surrogate %s", ErrConfiguration, target, prev))

			break
		}

		b.pairs[target] = standIn
	}

	return b
}

// Build returns the Surrogate. Remapping happens lazily, on the first query for a target.
func (b *SurrogateBuilder) Build() (*Surrogate, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}

	s := &Surrogate{
		policy:      b.policy,
		fallback:    b.fallback,
		opts:        b.opts,
		standIns:    NewDefault(b.opts),
		pairs:       maps.Clone(b.pairs),
		descriptors: cache.New[reflect.Type, *descriptor](cache.TypeKey),
	}
	s.resolver = dynamic.NewResolver(s, b.opts.Logger)

	return s, nil
}

// Surrogate describes target types with the annotations of stand-in types: the stand-in is
// discovered and every binding is moved onto the target by name and signature.
type Surrogate struct {
	policy      Policy
	fallback    Describer
	opts        Options
	standIns    *Default
	pairs       map[reflect.Type]reflect.Type
	descriptors *cache.Cache[reflect.Type, *descriptor]
	resolver    *dynamic.Resolver
}

// describe returns the remapped descriptor of t, or false when t has no stand-in.
func (s *Surrogate) describe(t reflect.Type) (*descriptor, bool, error) {
	standIn, ok := s.pairs[t]
	if !ok {
		return nil, false, nil
	}

	desc, err := s.descriptors.GetOrCompute(t, func() (*descriptor, error) {
		src, err := s.standIns.describe(standIn)
		if err != nil {
			return nil, err
		}

		return remap(s.opts, src, standIn, t)
	})

	return desc, true, err
}

func (s *Surrogate) miss(t reflect.Type, what string) error {
	if s.policy == PolicyThrow {
		return fmt.Errorf("%w: %s has no surrogate", ErrNotRegistered, typeString(t))
	}

	s.opts.Logger.Debug("delegating to fallback", zap.Stringer("type", t), zap.String("query", what))

	return nil
}

// InstanceProvider returns the remapped instance provider of t.
func (s *Surrogate) InstanceProvider(t reflect.Type) (member.InstanceProvider, error) {
	desc, ok, err := s.describe(t)

	switch {
	case err != nil:
		return member.InstanceProvider{}, err
	case ok && !desc.provider.OK():
		return member.InstanceProvider{}, fmt.Errorf("%w: %s: %s", ErrNoInstanceProvider, t, desc.noProvider)
	case ok:
		return desc.provider, nil
	}

	if err := s.miss(t, "instance provider"); err != nil {
		return member.InstanceProvider{}, err
	}

	return s.fallback.InstanceProvider(t)
}

// SerializableMembers returns the remapped members written for t.
func (s *Surrogate) SerializableMembers(t reflect.Type) ([]member.Serializable, error) {
	desc, ok, err := s.describe(t)

	switch {
	case err != nil:
		return nil, err
	case ok:
		return slices.Clone(desc.serializable), nil
	}

	if err := s.miss(t, "serializable members"); err != nil {
		return nil, err
	}

	return s.fallback.SerializableMembers(t)
}

// DeserializableMembers returns the remapped members read for t.
func (s *Surrogate) DeserializableMembers(t reflect.Type) ([]member.Deserializable, error) {
	desc, ok, err := s.describe(t)

	switch {
	case err != nil:
		return nil, err
	case ok:
		return slices.Clone(desc.deserializable), nil
	}

	if err := s.miss(t, "deserializable members"); err != nil {
		return nil, err
	}

	return s.fallback.DeserializableMembers(t)
}

// DynamicCellParser returns the default parser of t.
func (s *Surrogate) DynamicCellParser(t reflect.Type) (member.Parser, bool) {
	return cellParser(s.opts.Codecs, t)
}

// DynamicRowConverter resolves converters against the remapped descriptors.
func (s *Surrogate) DynamicRowConverter(shape dynamic.Shape, t reflect.Type) dynamic.Converter {
	return s.resolver.Resolve(t, shape)
}

// DynamicCells splits obj into cells formatted with their default codecs.
func (s *Surrogate) DynamicCells(obj dynamic.Object) ([]dynamic.Cell, error) {
	return cells(s.opts.Codecs, obj)
}

// Constructors is empty for targets: constructors of the stand-in build the stand-in.
func (s *Surrogate) Constructors(t reflect.Type) []reflect.Value {
	if _, ok := s.pairs[t]; ok || s.policy == PolicyThrow {
		return nil
	}

	return s.fallback.Constructors(t)
}

// Clear drops the remapped descriptors, the stand-in descriptions and the fallback's caches.
func (s *Surrogate) Clear() {
	s.descriptors.Clear()
	s.resolver.Clear()
	s.standIns.Clear()
	s.fallback.Clear()
}

type remapper struct {
	standIn reflect.Type
	target  reflect.Type
	diags   diagnostic.Diagnostics
	stop    bool
}

func remap(opts Options, src *descriptor, standIn, target reflect.Type) (*descriptor, error) {
	r := &remapper{standIn: standIn, target: target, stop: opts.StopAtFirstError}
	out := &descriptor{noProvider: src.noProvider}

	out.provider = r.provider(src.provider)

	for _, m := range src.serializable {
		if r.stopped() {
			break
		}

		if s, ok := r.serializable(m); ok {
			out.serializable = append(out.serializable, s)
		}
	}

	for _, m := range src.deserializable {
		if r.stopped() {
			break
		}

		if d, ok := r.deserializable(m); ok {
			out.deserializable = append(out.deserializable, d)
		}
	}

	if r.diags.HasErrors() {
		diags := r.diags
		if r.stop {
			diags.Errors = diags.Errors[:1]
		}

		return nil, &ConfigError{Type: target, Diagnostics: diags}
	}

	opts.Logger.Debug("surrogate remapped",
		zap.Stringer("target", target),
		zap.Stringer("stand_in", standIn),
		zap.Int("serializable", len(out.serializable)),
		zap.Int("deserializable", len(out.deserializable)))

	return out, nil
}

func (r *remapper) stopped() bool {
	return r.stop && r.diags.HasErrors()
}

func (r *remapper) fail(code, memberName string, suggestions []string, format string, args ...any) {
	if r.stopped() {
		return
	}

	r.diags.AddError(code, fmt.Sprintf(format, args...), r.target.String(), memberName, suggestions...)
}

func (r *remapper) provider(p member.InstanceProvider) member.InstanceProvider {
	switch p.Kind {
	case member.ProviderNone:
		return member.InstanceProvider{}
	case member.ProviderZero:
		out, err := member.ZeroProvider(r.target)
		if err != nil {
			r.fail(diagnostic.CodeSurrogateShape, "", nil, "%v", err)
		}

		return out
	default:
		r.fail(diagnostic.CodeSurrogateShape, "", nil, "%s %s of %s builds the stand-in and cannot be remapped",
			p.Kind, p.Backing.Identity(), r.standIn)

		return member.InstanceProvider{}
	}
}

func (r *remapper) serializable(m member.Serializable) (member.Serializable, bool) {
	g, ok := r.getter(m.Name, m.Getter)
	if !ok {
		return member.Serializable{}, false
	}

	f, ok := r.formatter(m.Name, m.Formatter)
	if !ok {
		return member.Serializable{}, false
	}

	out := m
	out.Getter, out.Formatter = g, f

	if m.ShouldSerialize != nil {
		hook, ok := r.shouldSerialize(m.Name, *m.ShouldSerialize)
		if !ok {
			return member.Serializable{}, false
		}

		out.ShouldSerialize = &hook
	}

	return out, true
}

func (r *remapper) deserializable(m member.Deserializable) (member.Deserializable, bool) {
	s, ok := r.setter(m.Name, m.Setter)
	if !ok {
		return member.Deserializable{}, false
	}

	p, ok := r.parser(m.Name, m.Parser)
	if !ok {
		return member.Deserializable{}, false
	}

	out := m
	out.Setter, out.Parser = s, p

	if m.Reset != nil {
		reset, ok := r.reset(m.Name, *m.Reset)
		if !ok {
			return member.Deserializable{}, false
		}

		out.Reset = &reset
	}

	return out, true
}

// field finds the target field equivalent to f: same name, same type, same exportedness.
func (r *remapper) field(column string, f member.Field) (member.Field, bool) {
	if r.target.Kind() != reflect.Struct {
		r.fail(diagnostic.CodeSurrogate, column, nil,
			"%s is not a struct and has no field %s to stand in for %s.%s", r.target, f.Name, r.standIn, f.Name)

		return member.Field{}, false
	}

	sf, ok := r.target.FieldByName(f.Name)
	if !ok || sf.Type != f.Type || sf.IsExported() != f.Exported {
		var candidates []match.Member
		for _, tf := range reflect.VisibleFields(r.target) {
			if tf.Type == f.Type && tf.IsExported() == f.Exported {
				candidates = append(candidates, match.Member{Name: tf.Name, Type: tf.Type})
			}
		}

		r.fail(diagnostic.CodeSurrogate, column, match.Suggest(f.Name, f.Type, candidates, 2),
			"%s has no field %s of type %s to stand in for %s.%s", r.target, f.Name, f.Type, r.standIn, f.Name)

		return member.Field{}, false
	}

	return member.FieldOf(r.target, sf), true
}

// method finds the target method equivalent to m: same name, same signature.
func (r *remapper) method(role member.Role, column string, m member.Method) (member.Method, bool) {
	out, err := member.MethodOf(role, r.target, m.Name)
	if err == nil && out.Signature() == m.Signature() && out.PointerReceiver == m.PointerReceiver {
		return out, true
	}

	pt := reflect.PointerTo(r.target)

	candidates := make([]match.Member, 0, pt.NumMethod())
	for i := range pt.NumMethod() {
		candidates = append(candidates, match.Member{Name: pt.Method(i).Name})
	}

	r.fail(diagnostic.CodeSurrogate, column, match.Suggest(m.Name, nil, candidates, 2),
		"%s has no method %s%s to stand in for %s.%s", r.target, m.Name, m.Signature(), r.standIn, m.Name)

	return member.Method{}, false
}

// function keeps f when it does not take the row.
func (r *remapper) function(column string, f member.Func, takesRow bool) bool {
	if takesRow {
		r.fail(diagnostic.CodeSurrogateShape, column, nil, "%s takes the stand-in %s and cannot be remapped",
			f.Identity(), r.standIn)
	}

	return !takesRow
}

func (r *remapper) check(column string, err error) bool {
	if err != nil {
		r.fail(diagnostic.CodeSurrogateShape, column, nil, "%v", err)
	}

	return err == nil
}

func (r *remapper) getter(column string, g member.Getter) (member.Getter, bool) {
	switch b := g.Backing.(type) {
	case member.Field:
		f, ok := r.field(column, b)
		if !ok {
			return member.Getter{}, false
		}

		return member.FieldGetter(f), true
	case member.Method:
		m, ok := r.method(member.RoleGetter, column, b)
		if !ok {
			return member.Getter{}, false
		}

		out, err := member.MethodGetter(m)

		return out, r.check(column, err)
	case member.Func:
		if !r.function(column, b, g.TakesRow) {
			return member.Getter{}, false
		}

		out, err := member.FuncGetter(r.target, b)

		return out, r.check(column, err)
	default:
		panic(fmt.Sprintf("describe: unexpected getter backing %T", b))
	}
}

func (r *remapper) setter(column string, s member.Setter) (member.Setter, bool) {
	switch b := s.Backing.(type) {
	case member.Field:
		f, ok := r.field(column, b)
		if !ok {
			return member.Setter{}, false
		}

		return member.FieldSetter(f), true
	case member.Method:
		m, ok := r.method(member.RoleSetter, column, b)
		if !ok {
			return member.Setter{}, false
		}

		out, err := member.MethodSetter(m)

		return out, r.check(column, err)
	case member.Func:
		if !r.function(column, b, s.TakesRow) {
			return member.Setter{}, false
		}

		out, err := member.FuncSetter(r.target, b)

		return out, r.check(column, err)
	case member.ConstructorParameter:
		// the provider already failed to remap
		return member.Setter{}, false
	default:
		panic(fmt.Sprintf("describe: unexpected setter backing %T", b))
	}
}

func (r *remapper) formatter(column string, f member.Formatter) (member.Formatter, bool) {
	b, ok := f.Backing.(member.Func)
	if !ok {
		return f, true
	}

	out, err := member.FuncFormatter(r.target, b)

	return out, r.check(column, err)
}

func (r *remapper) parser(column string, p member.Parser) (member.Parser, bool) {
	b, ok := p.Backing.(member.Func)
	if !ok {
		return p, true
	}

	out, err := member.FuncParser(r.target, b)

	return out, r.check(column, err)
}

func (r *remapper) reset(column string, h member.Reset) (member.Reset, bool) {
	switch b := h.Backing.(type) {
	case member.Method:
		m, ok := r.method(member.RoleReset, column, b)
		if !ok {
			return member.Reset{}, false
		}

		out, err := member.MethodReset(m)

		return out, r.check(column, err)
	case member.Func:
		if !r.function(column, b, h.TakesRow) {
			return member.Reset{}, false
		}

		out, err := member.FuncReset(r.target, b)

		return out, r.check(column, err)
	default:
		panic(fmt.Sprintf("describe: unexpected reset backing %T", b))
	}
}

func (r *remapper) shouldSerialize(column string, h member.ShouldSerialize) (member.ShouldSerialize, bool) {
	switch b := h.Backing.(type) {
	case member.Method:
		m, ok := r.method(member.RoleShouldSerialize, column, b)
		if !ok {
			return member.ShouldSerialize{}, false
		}

		out, err := member.MethodShouldSerialize(m)

		return out, r.check(column, err)
	case member.Func:
		if !r.function(column, b, h.TakesRow) {
			return member.ShouldSerialize{}, false
		}

		out, err := member.FuncShouldSerialize(r.target, b)

		return out, r.check(column, err)
	default:
		panic(fmt.Sprintf("describe: unexpected should serialize backing %T", b))
	}
}
