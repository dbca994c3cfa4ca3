package introspect

import (
	"reflect"
	"sort"

	"rowbinder/diagnostic"
	"rowbinder/internal/match"
)

// Member is one candidate column of a type.
type Member struct {
	Kind MemberKind
	// Name is the Go field or method name, or the registered column name of a func member.
	Name string
	// Field is set for MemberField; its Index is the full path through embedded structs.
	Field reflect.StructField
	// Position is the declaration order used for members without an explicit order.
	Position    int
	Annotations []Annotation
}

// Annotated reports whether any source says anything about the member.
func (m *Member) Annotated() bool {
	return len(m.Annotations) > 0
}

// TypeInfo is the structural description of one type.
type TypeInfo struct {
	Type    reflect.Type
	Members []Member
	// Providers are the instance providers marked by annotation sources.
	Providers []Provider
	// Constructors are the declared constructors, marked providers included.
	Constructors []any
	// Diagnostics holds annotations that could not be read at all.
	Diagnostics diagnostic.Diagnostics
}

// Find returns the member of the given kind and name.
func (ti *TypeInfo) Find(kind MemberKind, name string) (*Member, bool) {
	for i := range ti.Members {
		if ti.Members[i].Kind == kind && ti.Members[i].Name == name {
			return &ti.Members[i], true
		}
	}

	return nil, false
}

// Candidates lists the members of the given kind for "did you mean" suggestions.
func (ti *TypeInfo) Candidates(kind MemberKind) []match.Member {
	var out []match.Member

	for _, m := range ti.Members {
		if m.Kind != kind {
			continue
		}

		var typ reflect.Type
		if kind == MemberField {
			typ = m.Field.Type
		}

		out = append(out, match.Member{Name: m.Name, Type: typ})
	}

	return out
}

// Inspector builds TypeInfo values, optionally merging a YAML overlay.
type Inspector struct {
	overlay *Overlay
}

// NewInspector creates an Inspector. The overlay may be nil.
func NewInspector(overlay *Overlay) *Inspector {
	return &Inspector{overlay: overlay}
}

// Inspect describes t with tags and hints only.
func Inspect(t reflect.Type) *TypeInfo {
	return NewInspector(nil).Inspect(t)
}

// Inspect describes t. Problems reading annotations are recorded in the result, never
// returned, so discovery can report them together with its own.
func (in *Inspector) Inspect(t reflect.Type) *TypeInfo {
	ti := &TypeInfo{Type: t}
	typeName := t.String()

	if t.Kind() == reflect.Struct {
		ti.addFields()
	}

	if h := collectHints(t); h != nil {
		ti.applyHints(h)
	}

	members := in.overlay.lookup(t)

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		m := ti.overlayMember(name)
		if m == nil {
			kind := MemberField
			if t.Kind() != reflect.Struct {
				kind = MemberMethod
			}

			ti.Diagnostics.AddError(diagnostic.CodeUnknownMember,
				"overlay names a member the type does not have", typeName, name,
				match.Suggest(name, nil, ti.Candidates(kind), 2)...)

			continue
		}

		m.Annotations = append(m.Annotations, members[name].annotation())
	}

	return ti
}

func (ti *TypeInfo) addFields() {
	typeName := ti.Type.String()

	for _, sf := range reflect.VisibleFields(ti.Type) {
		if sf.Anonymous && isStruct(sf.Type) {
			// promoted fields follow in VisibleFields
			continue
		}

		if throughPointer(ti.Type, sf.Index) {
			continue
		}

		m := Member{Kind: MemberField, Name: sf.Name, Field: sf, Position: len(ti.Members)}

		if tag, ok := sf.Tag.Lookup(TagKey); ok {
			ann, err := ParseTag(tag)
			if err != nil {
				ti.Diagnostics.AddErrorf(diagnostic.CodeMalformed, typeName, sf.Name,
					"struct tag %q: %v", tag, err)
			} else {
				m.Annotations = append(m.Annotations, ann)
			}
		}

		ti.Members = append(ti.Members, m)
	}
}

func (ti *TypeInfo) applyHints(h *Hints) {
	typeName := ti.Type.String()

	for _, p := range h.problems {
		ti.Diagnostics.AddErrorf(diagnostic.CodeDuplicate, typeName, p.target, "DescribeRow: %s", p.message)
	}

	for _, mh := range h.members {
		m, ok := ti.Find(mh.kind, mh.target)
		if !ok && mh.kind == MemberField {
			ti.Diagnostics.AddError(diagnostic.CodeUnknownMember,
				"DescribeRow names a field the type does not have", typeName, mh.target,
				match.Suggest(mh.target, nil, ti.Candidates(MemberField), 2)...)

			continue
		}

		if !ok {
			ti.Members = append(ti.Members, Member{Kind: mh.kind, Name: mh.target, Position: len(ti.Members)})
			m = &ti.Members[len(ti.Members)-1]
		}

		m.Annotations = append(m.Annotations, mh.ann)
	}

	ti.Providers = append(ti.Providers, h.providers...)

	for _, p := range h.providers {
		if p.Kind == ProviderConstructor {
			ti.Constructors = append(ti.Constructors, p.Func)
		}
	}

	ti.Constructors = append(ti.Constructors, h.constructors...)
}

// overlayMember finds the member an overlay key refers to, adding a method member when the
// key names a method of the type that nothing registered yet.
func (ti *TypeInfo) overlayMember(name string) *Member {
	for _, kind := range []MemberKind{MemberField, MemberMethod, MemberFunc} {
		if m, ok := ti.Find(kind, name); ok {
			return m
		}
	}

	if ti.Type.Kind() == reflect.Interface {
		return nil
	}

	if _, ok := reflect.PointerTo(ti.Type).MethodByName(name); !ok {
		return nil
	}

	ti.Members = append(ti.Members, Member{Kind: MemberMethod, Name: name, Position: len(ti.Members)})

	return &ti.Members[len(ti.Members)-1]
}

func isStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct
}

// throughPointer reports whether reaching the field at index walks through an embedded
// pointer, which may be nil in a fresh row.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}

		t = f.Type
	}

	return false
}
