package codec

import (
	"reflect"
	"sync"

	"rowbinder/primitive"
)

// Table is a concurrent registry of codecs keyed by type, plus codecs registered under a
// name for explicit selection.
//
// Lookup resolves, in order: registered codecs, nullable codecs for *T, text marshalers,
// and named types over a built-in kind. Derived codecs are memoized until the next Register.
type Table struct {
	mu      sync.RWMutex
	byType  map[reflect.Type]*Codec
	named   map[string]*Codec
	derived map[reflect.Type]*Codec
}

// NewTable returns a table holding the built-in codecs.
func NewTable() *Table {
	t := &Table{
		byType:  make(map[reflect.Type]*Codec),
		named:   make(map[string]*Codec),
		derived: make(map[reflect.Type]*Codec),
	}

	for _, c := range Builtins() {
		t.byType[c.Type()] = c
		t.named[c.Name()] = c
	}

	return t
}

var defaultTable = NewTable()

// Default returns the process wide table used when no table is configured.
func Default() *Table { return defaultTable }

// Register makes c the codec of its type, replacing any earlier one.
func (t *Table) Register(c *Codec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byType[c.Type()] = c
	clear(t.derived)
}

// RegisterNamed makes c selectable by name, without making it the default for its type.
func (t *Table) RegisterNamed(name string, c *Codec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.named[name] = c
}

// Named returns the codec registered under name.
func (t *Table) Named(name string) (*Codec, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.named[name]

	return c, ok
}

// Lookup returns the codec for typ.
func (t *Table) Lookup(typ reflect.Type) (*Codec, bool) {
	if typ == nil {
		return nil, false
	}

	t.mu.RLock()
	c, ok := t.byType[typ]
	if !ok {
		c, ok = t.derived[typ]
	}
	t.mu.RUnlock()

	if ok {
		return c, true
	}

	c = t.derive(typ)
	if c == nil {
		return nil, false
	}

	t.mu.Lock()
	if existing, raced := t.derived[typ]; raced {
		c = existing
	} else {
		t.derived[typ] = c
	}
	t.mu.Unlock()

	return c, true
}

// Has reports whether Lookup would find a codec for typ.
func (t *Table) Has(typ reflect.Type) bool {
	_, ok := t.Lookup(typ)

	return ok
}

func (t *Table) derive(typ reflect.Type) *Codec {
	switch {
	case typ.Kind() == reflect.Pointer:
		// a single level of nullability
		if typ.Elem().Kind() == reflect.Pointer {
			return nil
		}

		inner, ok := t.Lookup(typ.Elem())
		if !ok {
			return nil
		}

		return Nullable(inner)
	case IsText(typ):
		return Text(typ)
	case primitive.FromReflectType(typ) == primitive.KindNamed:
		inner, ok := t.Lookup(underlyingType(typ))
		if !ok {
			return nil
		}

		return Converted(inner, typ)
	default:
		return nil
	}
}

func underlyingType(typ reflect.Type) reflect.Type {
	switch primitive.Underlying(typ) {
	case primitive.KindBool:
		return reflect.TypeFor[bool]()
	case primitive.KindInt:
		return reflect.TypeFor[int]()
	case primitive.KindInt8:
		return reflect.TypeFor[int8]()
	case primitive.KindInt16:
		return reflect.TypeFor[int16]()
	case primitive.KindInt32:
		return reflect.TypeFor[int32]()
	case primitive.KindInt64:
		return reflect.TypeFor[int64]()
	case primitive.KindUint:
		return reflect.TypeFor[uint]()
	case primitive.KindUint8:
		return reflect.TypeFor[uint8]()
	case primitive.KindUint16:
		return reflect.TypeFor[uint16]()
	case primitive.KindUint32:
		return reflect.TypeFor[uint32]()
	case primitive.KindUint64:
		return reflect.TypeFor[uint64]()
	case primitive.KindFloat32:
		return reflect.TypeFor[float32]()
	case primitive.KindFloat64:
		return reflect.TypeFor[float64]()
	case primitive.KindString:
		return reflect.TypeFor[string]()
	default:
		return nil
	}
}
