package diagnostic

import (
	"fmt"
	"strings"
)

// Codes identifying the kind of configuration problem.
const (
	CodeShape          = "shape"           // a getter, setter, hook or provider has the wrong shape
	CodeDuplicate      = "duplicate"       // the same property is given by two annotation sources
	CodeDuplicateName  = "duplicate_name"  // two members resolve to the same column name
	CodeNoCodec        = "no_codec"        // an included member has no codec for its type
	CodeUnknownMember  = "unknown_member"  // an annotation names a member that does not exist
	CodeUnknownCodec   = "unknown_codec"   // an annotation names a codec that is not registered
	CodeMalformed      = "malformed"       // an annotation cannot be parsed
	CodeProvider       = "provider"        // the instance provider is ambiguous or inconsistent
	CodeNoProvider     = "no_provider"     // a row must be built but cannot be
	CodeSurrogate      = "surrogate"       // a stand-in member has no equivalent on the target
	CodeSurrogateShape = "surrogate_shape" // a stand-in binding cannot be moved to the target
)

// Diagnostics holds every diagnostic raised while describing a type.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is one of the Code constants.
	Code string
	// Message is the human-readable description.
	Message string
	// Type is the described type (if any).
	Type string
	// Member is the member path inside Type (if any).
	Member string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typ, member string, suggestions ...string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Message:     message,
		Type:        typ,
		Member:      member,
		Suggestions: suggestions,
	})
}

// AddErrorf adds an error diagnostic with a formatted message.
func (d *Diagnostics) AddErrorf(code, typ, member, format string, args ...any) {
	d.AddError(code, fmt.Sprintf(format, args...), typ, member)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typ, member string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Type:     typ,
		Member:   member,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typ, member string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Type:     typ,
		Member:   member,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Find returns the first error with code, if any.
func (d *Diagnostics) Find(code string) (Diagnostic, bool) {
	for _, e := range d.Errors {
		if e.Code == code {
			return e, true
		}
	}

	return Diagnostic{}, false
}

// String joins every error diagnostic with "; ".
func (d *Diagnostics) String() string {
	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.String()
	}

	return strings.Join(parts, "; ")
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, " or ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
