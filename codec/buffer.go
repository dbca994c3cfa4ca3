package codec

// Buffer is the growable output the formatters write into.
type Buffer interface {
	// Request returns a writable slice of at least n bytes, or false when the buffer
	// cannot grow that far.
	Request(n int) ([]byte, bool)
	// Advance commits n bytes written into the slice returned by the last Request.
	Advance(n int)
}

// Growable is a Buffer backed by a byte slice. A positive Max caps the total size.
type Growable struct {
	Max int

	buf []byte
}

var _ Buffer = (*Growable)(nil)

// Request implements Buffer.
func (g *Growable) Request(n int) ([]byte, bool) {
	if n < 0 {
		n = 0
	}

	need := len(g.buf) + n
	if g.Max > 0 && need > g.Max {
		return nil, false
	}

	if need > cap(g.buf) {
		size := max(need, 2*cap(g.buf), 64)
		if g.Max > 0 {
			size = min(size, g.Max)
		}

		grown := make([]byte, len(g.buf), size)
		copy(grown, g.buf)
		g.buf = grown
	}

	return g.buf[len(g.buf):need], true
}

// Advance implements Buffer.
func (g *Growable) Advance(n int) {
	if n < 0 || len(g.buf)+n > cap(g.buf) {
		panic("codec: advance past the requested capacity")
	}

	g.buf = g.buf[:len(g.buf)+n]
}

// Bytes returns the written bytes. The slice is valid until the next Request.
func (g *Growable) Bytes() []byte { return g.buf }

// String returns the written bytes as a string.
func (g *Growable) String() string { return string(g.buf) }

// Len returns the number of written bytes.
func (g *Growable) Len() int { return len(g.buf) }

// Reset discards the written bytes and keeps the allocation.
func (g *Growable) Reset() { g.buf = g.buf[:0] }

// Append requests bound bytes from buf, lets fn append into them and commits the result.
// It reports false only when buf cannot provide bound bytes. A fn that writes past bound
// breaks the formatter contract and panics.
func Append(buf Buffer, bound int, fn func(dst []byte) []byte) bool {
	dst, ok := buf.Request(bound)
	if !ok {
		return false
	}

	out := fn(dst[:0])
	if len(out) > bound {
		panic("codec: formatter wrote past its declared bound")
	}

	buf.Advance(len(out))

	return true
}

// WriteString copies s into buf.
func WriteString(buf Buffer, s string) bool {
	return Append(buf, len(s), func(dst []byte) []byte { return append(dst, s...) })
}
