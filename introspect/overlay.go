package introspect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Overlay annotates types from a YAML document, for types whose source cannot carry tags:
//
//	types:
//	  example.com/shop.Order:
//	    members:
//	      ID:     {name: id, order: 0, required: true}
//	      Note:   {exclude: true}
//	      Total:  {include: true, emitDefault: false}
//
// Member keys are Go field or method names, or the column name of func-backed members.
type Overlay struct {
	Types map[string]TypeOverlay `yaml:"types"`
}

// TypeOverlay holds the member annotations of one type.
type TypeOverlay struct {
	Members map[string]MemberOverlay `yaml:"members"`
}

// MemberOverlay is the YAML form of an Annotation. Methods are referenced by name.
type MemberOverlay struct {
	Name            string `yaml:"name,omitempty"`
	Order           *int   `yaml:"order,omitempty"`
	Required        *bool  `yaml:"required,omitempty"`
	EmitDefault     *bool  `yaml:"emitDefault,omitempty"`
	Include         bool   `yaml:"include,omitempty"`
	Exclude         bool   `yaml:"exclude,omitempty"`
	Codec           string `yaml:"codec,omitempty"`
	Getter          string `yaml:"getter,omitempty"`
	Setter          string `yaml:"setter,omitempty"`
	Reset           string `yaml:"reset,omitempty"`
	ShouldSerialize string `yaml:"shouldSerialize,omitempty"`
}

// LoadOverlay loads and parses a YAML overlay file from the given path.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay file %s: %w", path, err)
	}

	return ParseOverlay(data)
}

// ParseOverlay parses YAML data into an Overlay. Unknown keys are rejected.
func ParseOverlay(data []byte) (*Overlay, error) {
	var o Overlay

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse overlay YAML: %w", err)
	}

	return &o, nil
}

// Marshal serializes an Overlay to YAML.
func (o *Overlay) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}

// TypeKey is the overlay key of t: its package path and name joined by a dot.
func TypeKey(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

// lookup returns the member annotations for t, if any.
func (o *Overlay) lookup(t reflect.Type) map[string]MemberOverlay {
	if o == nil {
		return nil
	}

	return o.Types[TypeKey(t)].Members
}

func (m MemberOverlay) annotation() Annotation {
	return Annotation{
		Source:          SourceOverlay,
		Name:            m.Name,
		Order:           m.Order,
		Required:        m.Required,
		EmitDefault:     m.EmitDefault,
		Include:         m.Include,
		Exclude:         m.Exclude,
		Codec:           m.Codec,
		Getter:          Ref{Method: m.Getter},
		Setter:          Ref{Method: m.Setter},
		Reset:           Ref{Method: m.Reset},
		ShouldSerialize: Ref{Method: m.ShouldSerialize},
	}
}
