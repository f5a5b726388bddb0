package signature

import (
	"errors"
	"fmt"
)

// Line-level parse errors, wrapped by LineError.
var (
	// ErrMissingSeparator is returned for a rule line without '|'.
	ErrMissingSeparator = errors.New("missing '|' separator")

	// ErrExtraSeparator is reported by Validate when a line has more than one '|'.
	// Parse accepts such lines and keeps everything after the first '|' as payload.
	ErrExtraSeparator = errors.New("expected exactly one '|' separator")

	// ErrEmptyCriteria is returned when the left side has no non-empty criterion.
	ErrEmptyCriteria = errors.New("no criteria before '|'")

	// ErrEmptyPayload is returned when nothing follows the '|'.
	ErrEmptyPayload = errors.New("empty payload after '|'")

	// ErrUnknownCategory is returned for a category rule whose tag is not in
	// the category vocabulary.
	ErrUnknownCategory = errors.New("unknown category tag")
)

// LineError describes one rejected line.
type LineError struct {
	// Line is the 1-based line number.
	Line int

	// Text is the raw line without its line terminator.
	Text string

	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e LineError) Unwrap() error {
	return e.Err
}

// ConfigError is returned when a signature file cannot be read.
// Callers treat it as "this kind of matching is unavailable" and carry on.
type ConfigError struct {
	Path string
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("cannot load %s signatures from %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
