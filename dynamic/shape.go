package dynamic

import (
	"strconv"
	"strings"
)

// Shape is the column layout of a row: its width and, when the row has a header, the column
// names in order.
type Shape struct {
	Width int
	Names []string
}

// ShapeOf reads the shape of row.
func ShapeOf(row Row) Shape {
	s := Shape{Width: row.Width()}

	for i := range s.Width {
		name, ok := row.Name(i)
		if !ok {
			return Shape{Width: s.Width}
		}

		s.Names = append(s.Names, name)
	}

	return s
}

// HasNames reports whether the columns are named.
func (s Shape) HasNames() bool {
	return len(s.Names) > 0
}

// key is the cache identity of the shape; the name set matters, not only the width.
func (s Shape) key() string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(s.Width))

	for _, n := range s.Names {
		b.WriteByte(0)
		b.WriteString(n)
	}

	return b.String()
}
