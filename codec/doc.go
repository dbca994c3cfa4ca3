// Package codec is the scalar codec table: pure functions converting between a fixed
// catalogue of scalar kinds and bounded text.
//
// Key types:
//   - Buffer: growable output the formatters write into (Request, then Advance)
//   - Codec: a format/parse pair for exactly one Go type
//   - Table: a concurrent registry of codecs, with nullable (*T), named-type and
//     encoding.TextMarshaler codecs derived on demand
//
// Formatting is culture invariant. A formatter fails only when the Buffer cannot grow to
// the formatter's declared bound; a parser failure is a definitive rejection of the text.
// The nullable rule applies to every kind: the empty text parses to nil and nil formats
// to nothing.
package codec
