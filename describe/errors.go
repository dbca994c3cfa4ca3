package describe

import (
	"errors"
	"fmt"
	"reflect"

	"rowbinder/diagnostic"
)

// Configuration errors
var (
	ErrConfiguration      = errors.New("rowbinder: invalid row configuration")
	ErrNotRegistered      = errors.New("rowbinder: type not registered")
	ErrNoInstanceProvider = errors.New("rowbinder: type has no instance provider")
	ErrNoCodec            = errors.New("rowbinder: no codec for value")
)

// ConfigError carries every defect found while describing Type. It unwraps to
// ErrConfiguration.
type ConfigError struct {
	Type        reflect.Type
	Diagnostics diagnostic.Diagnostics
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, typeString(e.Type), e.Diagnostics.String())
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
