// Package describe decides how record types map to rows: which members take part, in what
// order, through which codecs, and how new records are built.
//
// Default discovers all of it from the type itself. Manual serves explicit registrations
// only, and Surrogate discovers against a stand-in type and remaps the result onto the real
// one. Both wrap a fallback describer.
package describe

import (
	"reflect"

	"rowbinder/dynamic"
	"rowbinder/member"
)

// Describer is the query surface used by the row engine. Every query is pure apart from
// populating caches.
type Describer interface {
	InstanceProvider(t reflect.Type) (member.InstanceProvider, error)
	SerializableMembers(t reflect.Type) ([]member.Serializable, error)
	DeserializableMembers(t reflect.Type) ([]member.Deserializable, error)
	DynamicCellParser(t reflect.Type) (member.Parser, bool)
	DynamicRowConverter(shape dynamic.Shape, t reflect.Type) dynamic.Converter
	DynamicCells(obj dynamic.Object) ([]dynamic.Cell, error)
	// Constructors lists the declared constructors of t, the instance provider's included.
	Constructors(t reflect.Type) []reflect.Value
	// Clear drops every cached descriptor, including those of wrapped describers.
	Clear()
}

// Policy tells an override layer what to do with types it has no registration for.
type Policy int

const (
	// PolicyThrow reports ErrNotRegistered.
	PolicyThrow Policy = iota
	// PolicyUseFallback asks the fallback describer.
	PolicyUseFallback
)

func (p Policy) String() string {
	if p == PolicyUseFallback {
		return "use fallback"
	}

	return "throw"
}

var (
	_ Describer      = (*Default)(nil)
	_ Describer      = (*Manual)(nil)
	_ Describer      = (*Surrogate)(nil)
	_ dynamic.Source = Describer(nil)
)
