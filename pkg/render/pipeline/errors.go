package pipeline

import (
	"errors"
	"fmt"
)

// ErrGroupNotFound is wrapped by ConfigError.
var ErrGroupNotFound = errors.New("pipeline: group not found")

// ConfigError reports a prior group that does not exist on the form. It is
// raised before any unit is emitted.
type ConfigError struct {
	Group string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pipeline: form has no group %q", e.Group)
}

func (e *ConfigError) Unwrap() error {
	return ErrGroupNotFound
}
