package board

import (
	"errors"
	"fmt"
)

// ErrGenerationExhausted is returned when a bounded placement search finds no eligible cell.
var ErrGenerationExhausted = errors.New("board generation exhausted")

// ConfigurationError reports an invalid generation or environment parameter.
// It is returned before anything is built.
type ConfigurationError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}
