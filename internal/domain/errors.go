package domain

import (
	"errors"
	"fmt"
)

// ConfigError reports a single invalid field in a Config, with a path
// to the offending field so callers can point users at the exact spot.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// NewConfigError constructs a ConfigError for the given field path.
func NewConfigError(path, message string) *ConfigError {
	return &ConfigError{Path: path, Message: message}
}

// ErrCancelled is returned by the Monte-Carlo runner when a run is
// cancelled before it produces a report. Partial results are discarded.
var ErrCancelled = errors.New("simulation cancelled")

// ErrReferenceDataMissing is returned when a requested country or tax
// region is absent from the loaded reference data bundles.
var ErrReferenceDataMissing = errors.New("reference data missing")
