package member

import (
	"fmt"
	"reflect"
)

//go:generate go tool stringer -type=Defect -output=defect_string.go

// Defect names the specific rule a getter, setter, hook or provider breaks.
type Defect int

const (
	_ Defect = iota

	DefectNotFunc      // the value is not a function
	DefectNotFound     // no member with that name exists
	DefectInaccessible // the member exists but is unexported
	DefectVariadic     // variadic functions are not accepted
	DefectArity        // wrong number of parameters
	DefectPointer      // pointer where a value is required, or the reverse
	DefectParamType    // a parameter has the wrong type
	DefectReturn       // wrong result count or type
	DefectMismatch     // the paired types of a descriptor do not fit together
)

// Role names the part a function plays in a member.
type Role string

const (
	RoleGetter          Role = "getter"
	RoleSetter          Role = "setter"
	RoleReset           Role = "reset"
	RoleShouldSerialize Role = "should serialize"
	RoleFormatter       Role = "formatter"
	RoleParser          Role = "parser"
	RoleConstructor     Role = "constructor"
	RoleFactory         Role = "factory"
	RoleMember          Role = "member"
)

// ShapeError reports a function or member that does not fit its role's shape template.
type ShapeError struct {
	Role   Role
	Name   string
	Row    reflect.Type
	Defect Defect
	Detail string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s %s on %s: %s: %s", e.Role, e.Name, typeName(e.Row), e.Defect, e.Detail)
}

func shapeErr(role Role, name string, row reflect.Type, d Defect, format string, args ...any) *ShapeError {
	return &ShapeError{Role: role, Name: name, Row: row, Defect: d, Detail: fmt.Sprintf(format, args...)}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
