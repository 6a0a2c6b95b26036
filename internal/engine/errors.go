package engine

import (
	"fmt"
)

// ConfigError reports a configuration the engine rejects outright. It is
// resolved before the scheduler starts: the round loop never sees an invalid
// config, and nothing about a ConfigError is retryable.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid simulation config: %s", e.Reason)
	}
	return fmt.Sprintf("invalid simulation config: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
