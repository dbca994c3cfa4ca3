package describe

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"rowbinder/codec"
	"rowbinder/diagnostic"
	"rowbinder/internal/common"
	"rowbinder/internal/match"
	"rowbinder/introspect"
	"rowbinder/member"
)

// descriptor is the description of one type. It is never modified once built.
type descriptor struct {
	provider       member.InstanceProvider
	noProvider     string
	serializable   []member.Serializable
	deserializable []member.Deserializable
	constructors   []reflect.Value
}

// plan is a member with its annotations merged.
type plan struct {
	member *introspect.Member
	name   string

	order       *int
	required    *bool
	emitDefault *bool

	codec     string
	formatter any
	parser    any

	getter introspect.Ref
	setter introspect.Ref
	reset  introspect.Ref
	should introspect.Ref
}

type discovery struct {
	opts     Options
	t        reflect.Type
	info     *introspect.TypeInfo
	diags    diagnostic.Diagnostics
	typeName string
}

func discover(opts Options, inspector *introspect.Inspector, t reflect.Type) (*descriptor, error) {
	if t == nil {
		panic("describe: nil type")
	}

	d := &discovery{opts: opts, t: t, typeName: t.String()}

	if t.Kind() == reflect.Pointer {
		d.fail(diagnostic.CodeMalformed, "", "describe %s instead of the pointer type", t.Elem())

		return nil, d.err()
	}

	d.info = inspector.Inspect(t)
	d.diags.Merge(d.info.Diagnostics)

	var plans []plan

	for i := range d.info.Members {
		if d.stopped() {
			break
		}

		if p, ok := d.plan(&d.info.Members[i]); ok {
			plans = append(plans, p)
		}
	}

	out := &descriptor{}

	d.bind(plans, out)
	d.checkNames(out)
	d.resolveProvider(out)
	d.resolveConstructors(out)

	if d.diags.HasErrors() {
		return nil, d.err()
	}

	sortMembers(out)

	opts.Logger.Debug("type described",
		zap.Stringer("type", t),
		zap.Int("serializable", len(out.serializable)),
		zap.Int("deserializable", len(out.deserializable)),
		zap.Stringer("provider", out.provider.Kind))

	return out, nil
}

func (d *discovery) stopped() bool {
	return d.opts.StopAtFirstError && d.diags.HasErrors()
}

func (d *discovery) fail(code, memberName, format string, args ...any) {
	if d.stopped() {
		return
	}

	d.diags.AddErrorf(code, d.typeName, memberName, format, args...)
}

func (d *discovery) failShape(memberName string, err error) {
	if d.stopped() {
		return
	}

	var suggestions []string

	var se *member.ShapeError
	if errors.As(err, &se) && se.Defect == member.DefectNotFound {
		suggestions = match.Suggest(se.Name, nil, methodCandidates(d.t), 2)
	}

	d.diags.AddError(diagnostic.CodeShape, err.Error(), d.typeName, memberName, suggestions...)
}

func (d *discovery) err() error {
	diags := d.diags
	if d.opts.StopAtFirstError && len(diags.Errors) > 1 {
		diags.Errors = diags.Errors[:1]
	}

	return &ConfigError{Type: d.t, Diagnostics: diags}
}

// plan merges the annotations of m and applies the inclusion rules. Every property may come
// from one source only.
func (d *discovery) plan(m *introspect.Member) (plan, bool) {
	p := plan{member: m, name: m.Name}
	seen := make(map[string]introspect.Source)

	once := func(property string, src introspect.Source, given bool) bool {
		if !given {
			return false
		}

		if prev, dup := seen[property]; dup {
			d.fail(diagnostic.CodeDuplicate, m.Name, "%s given by both %s and %s", property, prev, src)

			return false
		}

		seen[property] = src

		return true
	}

	include, exclude := false, false

	for _, a := range m.Annotations {
		include = include || a.Include
		exclude = exclude || a.Exclude

		if once("name", a.Source, a.Name != "") {
			p.name = a.Name
		}

		if once("order", a.Source, a.Order != nil) {
			p.order = a.Order
		}

		if once("required", a.Source, a.Required != nil) {
			p.required = a.Required
		}

		if once("emit default", a.Source, a.EmitDefault != nil) {
			p.emitDefault = a.EmitDefault
		}

		if once("codec", a.Source, a.Codec != "" || a.Formatter != nil || a.Parser != nil) {
			p.codec, p.formatter, p.parser = a.Codec, a.Formatter, a.Parser
		}

		if once("getter", a.Source, !a.Getter.IsZero()) {
			p.getter = a.Getter
		}

		if once("setter", a.Source, !a.Setter.IsZero()) {
			p.setter = a.Setter
		}

		if once("reset", a.Source, !a.Reset.IsZero()) {
			p.reset = a.Reset
		}

		if once("should serialize", a.Source, !a.ShouldSerialize.IsZero()) {
			p.should = a.ShouldSerialize
		}
	}

	if exclude {
		return plan{}, false
	}

	if m.Kind != introspect.MemberField {
		// methods and funcs only exist through annotations
		return p, true
	}

	switch {
	case include:
		return p, true
	case !m.Field.IsExported():
		return plan{}, false
	case m.Annotated():
		return p, true
	case !d.opts.Codecs.Has(m.Field.Type):
		d.diags.AddInfo(diagnostic.CodeNoCodec, "skipped: no codec for "+m.Field.Type.String(), d.typeName, m.Name)
		d.opts.Logger.Debug("field skipped", zap.Stringer("type", d.t), zap.String("field", m.Name),
			zap.Stringer("field_type", m.Field.Type))

		return plan{}, false
	default:
		return p, true
	}
}

func (d *discovery) bind(plans []plan, out *descriptor) {
	for _, p := range plans {
		if d.stopped() {
			return
		}

		readable := d.bindRead(p, out)
		writable := d.bindWrite(p, out)

		if !readable && !p.should.IsZero() {
			d.fail(diagnostic.CodeShape, p.member.Name, "should serialize hook on a member that is never written")
		}

		if !writable && !p.reset.IsZero() {
			d.fail(diagnostic.CodeShape, p.member.Name, "reset on a member that is never read")
		}

		if !writable && p.required != nil {
			d.fail(diagnostic.CodeShape, p.member.Name, "required on a member that is never read")
		}
	}
}

// bindRead adds the serializable side of p. It reports whether p has one.
func (d *discovery) bindRead(p plan, out *descriptor) bool {
	g, ok, err := d.getter(p)
	if err != nil {
		d.failShape(p.member.Name, err)

		return true
	}

	if !ok {
		return false
	}

	f, ok := d.formatter(p, g.Returns)
	if !ok {
		return true
	}

	s, err := member.NewSerializable(p.name, g, f)
	if err != nil {
		d.failShape(p.member.Name, err)

		return true
	}

	if !p.should.IsZero() {
		hook, err := d.shouldSerialize(p.should)
		if err == nil {
			s, err = s.WithShouldSerialize(hook)
		}

		if err != nil {
			d.failShape(p.member.Name, err)

			return true
		}
	}

	if p.emitDefault != nil {
		s = s.WithEmitDefault(*p.emitDefault)
	}

	if p.order != nil {
		s = s.WithOrder(*p.order)
	}

	out.serializable = append(out.serializable, s)

	return true
}

// bindWrite adds the deserializable side of p. It reports whether p has one.
func (d *discovery) bindWrite(p plan, out *descriptor) bool {
	s, ok, err := d.setter(p)
	if err != nil {
		d.failShape(p.member.Name, err)

		return true
	}

	if !ok {
		return false
	}

	parser, ok := d.parser(p, s.Takes)
	if !ok {
		return true
	}

	m, err := member.NewDeserializable(p.name, s, parser)
	if err != nil {
		d.failShape(p.member.Name, err)

		return true
	}

	if !p.reset.IsZero() {
		r, err := d.reset(p.reset)
		if err == nil {
			m, err = m.WithReset(r)
		}

		if err != nil {
			d.failShape(p.member.Name, err)

			return true
		}
	}

	if p.required != nil {
		m = m.WithRequired(*p.required)
	}

	if p.order != nil {
		m = m.WithOrder(*p.order)
	}

	out.deserializable = append(out.deserializable, m)

	return true
}

func (d *discovery) getter(p plan) (member.Getter, bool, error) {
	ref := p.getter

	switch {
	case !ref.IsZero():
	case p.member.Kind == introspect.MemberField:
		return member.FieldGetter(member.FieldOf(d.t, p.member.Field)), true, nil
	case p.member.Kind == introspect.MemberMethod:
		ref = introspect.Ref{Method: p.member.Name}
	default:
		return member.Getter{}, false, nil
	}

	if ref.Method != "" {
		m, err := member.MethodOf(member.RoleGetter, d.t, ref.Method)
		if err != nil {
			return member.Getter{}, true, err
		}

		g, err := member.MethodGetter(m)

		return g, true, err
	}

	f, err := member.FuncOf(member.RoleGetter, d.t, p.name, ref.Func)
	if err != nil {
		return member.Getter{}, true, err
	}

	g, err := member.FuncGetter(d.t, f)

	return g, true, err
}

func (d *discovery) setter(p plan) (member.Setter, bool, error) {
	ref := p.setter

	switch {
	case !ref.IsZero():
	case p.member.Kind == introspect.MemberField:
		return member.FieldSetter(member.FieldOf(d.t, p.member.Field)), true, nil
	default:
		return member.Setter{}, false, nil
	}

	if ref.Method != "" {
		m, err := member.MethodOf(member.RoleSetter, d.t, ref.Method)
		if err != nil {
			return member.Setter{}, true, err
		}

		s, err := member.MethodSetter(m)

		return s, true, err
	}

	f, err := member.FuncOf(member.RoleSetter, d.t, p.name, ref.Func)
	if err != nil {
		return member.Setter{}, true, err
	}

	s, err := member.FuncSetter(d.t, f)

	return s, true, err
}

func (d *discovery) formatter(p plan, takes reflect.Type) (member.Formatter, bool) {
	if p.formatter != nil {
		f, err := member.FuncOf(member.RoleFormatter, d.t, p.name, p.formatter)
		if err == nil {
			var out member.Formatter

			out, err = member.FuncFormatter(d.t, f)
			if err == nil {
				return out, true
			}
		}

		d.failShape(p.member.Name, err)

		return member.Formatter{}, false
	}

	c, ok := d.codec(p, takes)
	if !ok {
		return member.Formatter{}, false
	}

	return member.CodecFormatter(c), true
}

func (d *discovery) parser(p plan, produces reflect.Type) (member.Parser, bool) {
	if p.parser != nil {
		f, err := member.FuncOf(member.RoleParser, d.t, p.name, p.parser)
		if err == nil {
			var out member.Parser

			out, err = member.FuncParser(d.t, f)
			if err == nil {
				return out, true
			}
		}

		d.failShape(p.member.Name, err)

		return member.Parser{}, false
	}

	c, ok := d.codec(p, produces)
	if !ok {
		return member.Parser{}, false
	}

	return member.CodecParser(c), true
}

// codec resolves the named codec of p, or the default codec of typ.
func (d *discovery) codec(p plan, typ reflect.Type) (*codec.Codec, bool) {
	if p.codec != "" {
		c, ok := d.opts.Codecs.Named(p.codec)
		if !ok {
			d.fail(diagnostic.CodeUnknownCodec, p.member.Name, "no codec is registered as %q", p.codec)
		}

		return c, ok
	}

	c, ok := d.opts.Codecs.Lookup(typ)
	if !ok {
		d.fail(diagnostic.CodeNoCodec, p.member.Name, "no codec for %s", typ)
	}

	return c, ok
}

func (d *discovery) shouldSerialize(ref introspect.Ref) (member.ShouldSerialize, error) {
	if ref.Method != "" {
		m, err := member.MethodOf(member.RoleShouldSerialize, d.t, ref.Method)
		if err != nil {
			return member.ShouldSerialize{}, err
		}

		return member.MethodShouldSerialize(m)
	}

	f, err := member.FuncOf(member.RoleShouldSerialize, d.t, "should serialize", ref.Func)
	if err != nil {
		return member.ShouldSerialize{}, err
	}

	return member.FuncShouldSerialize(d.t, f)
}

func (d *discovery) reset(ref introspect.Ref) (member.Reset, error) {
	if ref.Method != "" {
		m, err := member.MethodOf(member.RoleReset, d.t, ref.Method)
		if err != nil {
			return member.Reset{}, err
		}

		return member.MethodReset(m)
	}

	f, err := member.FuncOf(member.RoleReset, d.t, "reset", ref.Func)
	if err != nil {
		return member.Reset{}, err
	}

	return member.FuncReset(d.t, f)
}

func (d *discovery) checkNames(out *descriptor) {
	written := common.Duplicates(out.serializable, func(m member.Serializable) string { return m.Name })
	for _, name := range written {
		d.fail(diagnostic.CodeDuplicateName, name, "more than one member is written as column %q", name)
	}

	read := common.Duplicates(out.deserializable, func(m member.Deserializable) string { return m.Name })
	for _, name := range read {
		d.fail(diagnostic.CodeDuplicateName, name, "more than one member is read from column %q", name)
	}
}

// resolveProvider picks the instance provider: the single marked constructor or factory, or
// the zero value.
func (d *discovery) resolveProvider(out *descriptor) {
	marked := d.info.Providers

	switch {
	case common.IsMultiple(marked):
		kinds := make(map[introspect.ProviderKind]bool)
		for _, p := range marked {
			kinds[p.Kind] = true
		}

		if len(kinds) > 1 {
			d.fail(diagnostic.CodeProvider, "", "both a constructor and a factory are marked as instance provider")
		} else {
			d.fail(diagnostic.CodeProvider, "", "%d %ss are marked as instance provider, at most one may be",
				len(marked), marked[0].Kind)
		}

		return
	case common.IsEmpty(marked) && d.t.Kind() == reflect.Interface:
		out.noProvider = "interface types have no parameterless constructor"

		return
	case common.IsEmpty(marked):
		p, err := member.ZeroProvider(d.t)
		if err != nil {
			panic(err)
		}

		out.provider = p

		return
	}

	pv, _ := common.First(marked)

	role := member.RoleConstructor
	if pv.Kind == introspect.ProviderFactory {
		role = member.RoleFactory
	}

	f, err := member.FuncOf(role, d.t, "instance provider", pv.Func)
	if err != nil {
		d.failShape("", err)

		return
	}

	if pv.Kind == introspect.ProviderFactory {
		p, err := member.FactoryProvider(d.t, f)
		if err != nil {
			d.failShape("", err)

			return
		}

		out.provider = p

		return
	}

	p, err := member.ConstructorProvider(d.t, f, pv.Names)
	if err != nil {
		d.failShape("", err)

		return
	}

	d.bindParameters(p, out)

	out.provider = p
}

// bindParameters moves every member bound to a constructor parameter onto that parameter.
func (d *discovery) bindParameters(p member.InstanceProvider, out *descriptor) {
	for i, name := range p.ParamNames {
		idx := -1

		for j := range out.deserializable {
			if out.deserializable[j].Name == name {
				idx = j

				break
			}
		}

		if idx < 0 {
			candidates := make([]match.Member, len(out.deserializable))
			for j, m := range out.deserializable {
				candidates[j] = match.Member{Name: m.Name, Type: m.Parser.Produces}
			}

			d.diags.AddError(diagnostic.CodeProvider,
				fmt.Sprintf("constructor parameter %d is bound to %q, which is not a deserializable member", i+1, name),
				d.typeName, name, match.Suggest(name, p.Params[i], candidates, 2)...)

			continue
		}

		set := member.ParameterSetter(d.t, member.ConstructorParameter{Index: i, Type: p.Params[i]})

		bound, err := out.deserializable[idx].WithSetter(set)
		if err != nil {
			d.failShape(name, err)

			continue
		}

		out.deserializable[idx] = bound
	}
}

func (d *discovery) resolveConstructors(out *descriptor) {
	for _, fn := range d.info.Constructors {
		f, err := member.FuncOf(member.RoleConstructor, d.t, "constructor", fn)
		if err != nil {
			d.failShape("", err)

			continue
		}

		ft := f.Fn.Type()
		if ft.NumOut() != 1 || ft.Out(0) != d.t && ft.Out(0) != reflect.PointerTo(d.t) {
			d.fail(diagnostic.CodeShape, "", "constructor %s must return %s or *%s", ft, d.t, d.t)

			continue
		}

		out.constructors = append(out.constructors, f.Fn)
	}
}

// sortMembers puts members with an explicit order first, ascending, then the others in
// declaration order.
func sortMembers(out *descriptor) {
	sort.SliceStable(out.serializable, func(i, j int) bool {
		a, b := out.serializable[i], out.serializable[j]

		return orderedBefore(a.Ordered, a.Order, b.Ordered, b.Order)
	})

	sort.SliceStable(out.deserializable, func(i, j int) bool {
		a, b := out.deserializable[i], out.deserializable[j]

		return orderedBefore(a.Ordered, a.Order, b.Ordered, b.Order)
	})
}

func orderedBefore(aOrdered bool, aOrder int, bOrdered bool, bOrder int) bool {
	switch {
	case aOrdered && bOrdered:
		return aOrder < bOrder
	default:
		return aOrdered && !bOrdered
	}
}

func methodCandidates(t reflect.Type) []match.Member {
	pt := reflect.PointerTo(t)

	out := make([]match.Member, pt.NumMethod())
	for i := range out {
		out[i] = match.Member{Name: pt.Method(i).Name}
	}

	return out
}
