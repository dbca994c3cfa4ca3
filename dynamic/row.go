package dynamic

import (
	"slices"
	"sort"

	"github.com/goccy/go-json"

	"rowbinder/member"
)

// Row is an untyped row of text cells, with optional column names.
type Row interface {
	Width() int
	Cell(i int) string
	// Name returns the name of column i, or false when the row has no names.
	Name(i int) (string, bool)
}

// Object is an untyped key/value record that can be written as a row.
type Object interface {
	Keys() []string
	Value(key string) (any, bool)
}

// Cell is one value of an Object ready to be written. Formatter is unset for nil values,
// which are written as empty cells.
type Cell struct {
	Name      string
	Value     any
	Formatter member.Formatter
}

// Record is the Row and Object implementation used by the library.
type Record struct {
	names []string
	cells []string
}

var (
	_ Row            = (*Record)(nil)
	_ Object         = (*Record)(nil)
	_ json.Marshaler = (*Record)(nil)
)

// NewRecord creates a record. names may be nil; otherwise it must be as long as cells.
func NewRecord(names, cells []string) *Record {
	if names != nil && len(names) != len(cells) {
		panic("dynamic: record has a different number of names and cells")
	}

	return &Record{names: names, cells: cells}
}

// Width is the number of cells.
func (r *Record) Width() int { return len(r.cells) }

// Cell returns the text of column i.
func (r *Record) Cell(i int) string { return r.cells[i] }

// Name returns the name of column i.
func (r *Record) Name(i int) (string, bool) {
	if r.names == nil {
		return "", false
	}

	return r.names[i], true
}

// Keys returns the column names, or nothing for an unnamed record.
func (r *Record) Keys() []string { return slices.Clone(r.names) }

// Value returns the text of the first column named key.
func (r *Record) Value(key string) (any, bool) {
	i := slices.Index(r.names, key)
	if i < 0 {
		return nil, false
	}

	return r.cells[i], true
}

// Shape describes the record's columns.
func (r *Record) Shape() Shape {
	return Shape{Width: len(r.cells), Names: slices.Clone(r.names)}
}

// MarshalJSON writes named records as an object in column order and unnamed ones as an
// array of strings.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.names == nil {
		return json.Marshal(r.cells)
	}

	buf := []byte{'{'}

	for i, name := range r.names {
		if i > 0 {
			buf = append(buf, ',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(r.cells[i])
		if err != nil {
			return nil, err
		}

		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}

	return append(buf, '}'), nil
}

// Map adapts a map to Object with keys in sorted order.
type Map map[string]any

// Keys returns the keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Value returns the value under key.
func (m Map) Value(key string) (any, bool) {
	v, ok := m[key]

	return v, ok
}
