package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is wrapped by every *ConfigError.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnknownScenario is returned by Reset for a name missing from the catalog.
	ErrUnknownScenario = errors.New("unknown scenario")
)

// ConfigError names the parameter that made an agent or a config unusable.
type ConfigError struct {
	Parameter string
	Value     float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: parameter %s=%v", ErrInvalidConfiguration, e.Parameter, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}
