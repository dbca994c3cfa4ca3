package describe

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"rowbinder/codec"
	"rowbinder/dynamic"
	"rowbinder/internal/cache"
	"rowbinder/introspect"
	"rowbinder/member"
)

// Default describes types by discovering their members: struct tags, DescribeRow hints and
// the overlay. Descriptions are computed once per type and shared by concurrent callers.
type Default struct {
	opts        Options
	inspector   *introspect.Inspector
	descriptors *cache.Cache[reflect.Type, *descriptor]
	resolver    *dynamic.Resolver
}

// NewDefault creates a discovering describer.
func NewDefault(opts Options) *Default {
	opts = opts.withDefaults()

	d := &Default{
		opts:        opts,
		inspector:   introspect.NewInspector(opts.Overlay),
		descriptors: cache.New[reflect.Type, *descriptor](cache.TypeKey),
	}
	d.resolver = dynamic.NewResolver(d, opts.Logger)

	return d
}

func (d *Default) describe(t reflect.Type) (*descriptor, error) {
	desc, err := d.descriptors.GetOrCompute(t, func() (*descriptor, error) {
		return discover(d.opts, d.inspector, t)
	})
	if err != nil {
		d.opts.Logger.Debug("type description failed", zap.Stringer("type", t), zap.Error(err))

		return nil, err
	}

	return desc, nil
}

// InstanceProvider returns how new values of t are created.
func (d *Default) InstanceProvider(t reflect.Type) (member.InstanceProvider, error) {
	desc, err := d.describe(t)
	if err != nil {
		return member.InstanceProvider{}, err
	}

	if !desc.provider.OK() {
		return member.InstanceProvider{}, fmt.Errorf("%w: %s: %s", ErrNoInstanceProvider, t, desc.noProvider)
	}

	return desc.provider, nil
}

// SerializableMembers returns the members written for t, in column order.
func (d *Default) SerializableMembers(t reflect.Type) ([]member.Serializable, error) {
	desc, err := d.describe(t)
	if err != nil {
		return nil, err
	}

	return slices.Clone(desc.serializable), nil
}

// DeserializableMembers returns the members read for t, in column order.
func (d *Default) DeserializableMembers(t reflect.Type) ([]member.Deserializable, error) {
	desc, err := d.describe(t)
	if err != nil {
		return nil, err
	}

	return slices.Clone(desc.deserializable), nil
}

// DynamicCellParser returns the default parser of t.
func (d *Default) DynamicCellParser(t reflect.Type) (member.Parser, bool) {
	return cellParser(d.opts.Codecs, t)
}

// DynamicRowConverter returns the converter for rows of shape into t.
func (d *Default) DynamicRowConverter(shape dynamic.Shape, t reflect.Type) dynamic.Converter {
	return d.resolver.Resolve(t, shape)
}

// DynamicCells splits obj into cells formatted with their default codecs.
func (d *Default) DynamicCells(obj dynamic.Object) ([]dynamic.Cell, error) {
	return cells(d.opts.Codecs, obj)
}

// Constructors lists the declared constructors of t. It is empty when t cannot be described.
func (d *Default) Constructors(t reflect.Type) []reflect.Value {
	desc, err := d.describe(t)
	if err != nil {
		return nil
	}

	return slices.Clone(desc.constructors)
}

// Clear drops every cached description and converter.
func (d *Default) Clear() {
	d.descriptors.Clear()
	d.resolver.Clear()
	d.opts.Logger.Debug("descriptor cache cleared")
}

func cellParser(table *codec.Table, t reflect.Type) (member.Parser, bool) {
	c, ok := table.Lookup(t)
	if !ok {
		return member.Parser{}, false
	}

	return member.CodecParser(c), true
}

// cells formats every value of obj. A nil value becomes a cell without a formatter, which
// writes nothing.
func cells(table *codec.Table, obj dynamic.Object) ([]dynamic.Cell, error) {
	keys := obj.Keys()
	out := make([]dynamic.Cell, 0, len(keys))

	for _, key := range keys {
		v, _ := obj.Value(key)
		if v == nil {
			out = append(out, dynamic.Cell{Name: key})

			continue
		}

		c, ok := table.Lookup(reflect.TypeOf(v))
		if !ok {
			return nil, fmt.Errorf("%w: %s has type %T", ErrNoCodec, key, v)
		}

		out = append(out, dynamic.Cell{Name: key, Value: v, Formatter: member.CodecFormatter(c)})
	}

	return out, nil
}
