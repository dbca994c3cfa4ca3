package introspect

// Source identifies where an annotation came from.
type Source int

const (
	SourceTag Source = iota + 1
	SourceHints
	SourceOverlay
)

// String returns the name used in diagnostics.
func (s Source) String() string {
	switch s {
	case SourceTag:
		return "struct tag"
	case SourceHints:
		return "DescribeRow"
	case SourceOverlay:
		return "overlay"
	default:
		return "unknown source"
	}
}

// Ref points at a method of the row, by name, or at a free function.
type Ref struct {
	Method string
	Func   any
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool {
	return r.Method == "" && r.Func == nil
}

// Annotation is everything one source says about one member. Unset properties are left at
// their zero value; pointers distinguish "false" and "0" from "not given".
type Annotation struct {
	Source Source

	Name        string
	Order       *int
	Required    *bool
	EmitDefault *bool
	Include     bool
	Exclude     bool

	// Codec names a codec registered in the codec table.
	Codec     string
	Formatter any
	Parser    any

	Getter          Ref
	Setter          Ref
	Reset           Ref
	ShouldSerialize Ref
}
