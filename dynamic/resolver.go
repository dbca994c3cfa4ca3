package dynamic

import (
	"reflect"

	"go.uber.org/zap"

	"rowbinder/codec"
	"rowbinder/internal/cache"
	"rowbinder/member"
	"rowbinder/tuple"
)

// Source is what the resolver needs to know about target types.
type Source interface {
	InstanceProvider(t reflect.Type) (member.InstanceProvider, error)
	DeserializableMembers(t reflect.Type) ([]member.Deserializable, error)
	DynamicCellParser(t reflect.Type) (member.Parser, bool)
	// Constructors lists the declared constructors of t, the instance provider's included.
	Constructors(t reflect.Type) []reflect.Value
}

type resolveKey struct {
	target reflect.Type
	shape  string
}

// Resolver selects and caches converters per target type and shape.
type Resolver struct {
	src    Source
	cache  *cache.Cache[resolveKey, Converter]
	logger *zap.Logger
}

// NewResolver creates a resolver over src. A nil logger disables logging.
func NewResolver(src Source, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		src: src,
		cache: cache.New[resolveKey, Converter](func(k resolveKey) string {
			return cache.TypeKey(k.target) + "|" + k.shape
		}),
		logger: logger,
	}
}

var (
	anyType = reflect.TypeFor[any]()
	rowType = reflect.TypeFor[Row]()
)

// Resolve returns the converter for rows of shape into t. A converter that is not OK means
// no strategy applies.
func (r *Resolver) Resolve(t reflect.Type, shape Shape) Converter {
	c, _ := r.cache.GetOrCompute(resolveKey{target: t, shape: shape.key()}, func() (Converter, error) {
		return r.resolve(t, shape), nil
	})

	return c
}

// Clear forgets every cached converter.
func (r *Resolver) Clear() {
	r.cache.Clear()
}

func (r *Resolver) resolve(t reflect.Type, shape Shape) Converter {
	strategies := []func(reflect.Type, Shape) (convertFunc, Strategy){
		r.tuple,
		r.rowConstructor,
		r.positionalConstructor,
		r.zeroAndSetters,
		r.passThrough,
	}

	for _, try := range strategies {
		if convert, strategy := try(t, shape); convert != nil {
			r.logger.Debug("dynamic strategy chosen",
				zap.Stringer("type", t), zap.Int("width", shape.Width), zap.Stringer("strategy", strategy))

			return Converter{strategy: strategy, target: t, width: shape.Width, convert: convert}
		}
	}

	r.logger.Debug("no dynamic strategy", zap.Stringer("type", t), zap.Int("width", shape.Width))

	return Converter{strategy: StrategyNone, target: t, width: shape.Width}
}

func (r *Resolver) parsers(types []reflect.Type) ([]member.Parser, bool) {
	out := make([]member.Parser, len(types))

	for i, typ := range types {
		p, ok := r.src.DynamicCellParser(typ)
		if !ok {
			return nil, false
		}

		out[i] = p
	}

	return out, true
}

func (r *Resolver) tuple(t reflect.Type, shape Shape) (convertFunc, Strategy) {
	elems := tuple.Elements(t)
	if elems == nil || len(elems) != shape.Width {
		return nil, StrategyNone
	}

	parsers, ok := r.parsers(elems)
	if !ok {
		return nil, StrategyNone
	}

	return func(row Row, ctx codec.Context) (reflect.Value, int, bool) {
		v := reflect.New(t).Elem()
		if col, ok := fillTuple(v, row, parsers, 0, ctx); !ok {
			return reflect.Value{}, col, false
		}

		return v, -1, true
	}, StrategyTuple
}

// fillTuple parses the direct elements of v from the columns starting at offset, then
// recurses into Rest.
func fillTuple(v reflect.Value, row Row, parsers []member.Parser, offset int, ctx codec.Context) (int, bool) {
	direct := min(v.NumField(), tuple.MaxDirect)

	for i := range direct {
		col := offset + i

		parsed, ok := parsers[col].Parse(row.Cell(col), cellContext(ctx, row, col))
		if !ok {
			return col, false
		}

		v.Field(i).Set(parsed)
	}

	if v.NumField() > tuple.MaxDirect {
		return fillTuple(v.Field(tuple.MaxDirect), row, parsers, offset+tuple.MaxDirect, ctx)
	}

	return -1, true
}

func returnsTarget(ft, t reflect.Type) bool {
	return ft.NumOut() == 1 && (ft.Out(0) == t || ft.Out(0) == reflect.PointerTo(t))
}

func (r *Resolver) rowConstructor(t reflect.Type, _ Shape) (convertFunc, Strategy) {
	for _, fn := range r.src.Constructors(t) {
		ft := fn.Type()
		if ft.NumIn() != 1 || ft.In(0) != rowType || !returnsTarget(ft, t) {
			continue
		}

		return func(row Row, _ codec.Context) (reflect.Value, int, bool) {
			return value(fn.Call([]reflect.Value{reflect.ValueOf(&row).Elem()})[0], t), -1, true
		}, StrategyRowConstructor
	}

	return nil, StrategyNone
}

func (r *Resolver) positionalConstructor(t reflect.Type, shape Shape) (convertFunc, Strategy) {
	for _, fn := range r.src.Constructors(t) {
		ft := fn.Type()
		if ft.NumIn() != shape.Width || ft.IsVariadic() || !returnsTarget(ft, t) {
			continue
		}

		params := make([]reflect.Type, ft.NumIn())
		for i := range params {
			params[i] = ft.In(i)
		}

		parsers, ok := r.parsers(params)
		if !ok {
			continue
		}

		return func(row Row, ctx codec.Context) (reflect.Value, int, bool) {
			args := make([]reflect.Value, len(parsers))

			for col, p := range parsers {
				parsed, ok := p.Parse(row.Cell(col), cellContext(ctx, row, col))
				if !ok {
					return reflect.Value{}, col, false
				}

				args[col] = parsed
			}

			return value(fn.Call(args)[0], t), -1, true
		}, StrategyPositionalConstructor
	}

	return nil, StrategyNone
}

type columnBinding struct {
	col    int
	member member.Deserializable
}

func (r *Resolver) zeroAndSetters(t reflect.Type, shape Shape) (convertFunc, Strategy) {
	if !shape.HasNames() || t.Kind() != reflect.Struct {
		return nil, StrategyNone
	}

	provider, err := r.src.InstanceProvider(t)
	if err != nil || !parameterless(provider) {
		return nil, StrategyNone
	}

	members, err := r.src.DeserializableMembers(t)
	if err != nil {
		r.logger.Debug("setter matching skipped", zap.Stringer("type", t), zap.Error(err))

		return nil, StrategyNone
	}

	var bindings []columnBinding

	for col, name := range shape.Names {
		for _, m := range members {
			if m.Name == name && !m.Setter.IsConstructorParameter() {
				bindings = append(bindings, columnBinding{col: col, member: m})

				break
			}
		}
	}

	return func(row Row, ctx codec.Context) (reflect.Value, int, bool) {
		ctx.Column = -1

		ptr, ok := provider.Produce(ctx)
		if !ok {
			return reflect.Value{}, -1, false
		}

		for _, b := range bindings {
			if !b.member.Read(ptr, row.Cell(b.col), cellContext(ctx, row, b.col)) {
				return reflect.Value{}, b.col, false
			}
		}

		return ptr.Elem(), -1, true
	}, StrategyZeroAndSetters
}

func parameterless(p member.InstanceProvider) bool {
	switch p.Kind {
	case member.ProviderZero, member.ProviderFactory:
		return true
	case member.ProviderConstructor:
		return len(p.Params) == 0
	default:
		return false
	}
}

func (r *Resolver) passThrough(t reflect.Type, _ Shape) (convertFunc, Strategy) {
	if t != anyType && t != rowType {
		return nil, StrategyNone
	}

	return func(row Row, _ codec.Context) (reflect.Value, int, bool) {
		v := reflect.New(t).Elem()
		v.Set(reflect.ValueOf(row))

		return v, -1, true
	}, StrategyPassThrough
}
