package core

import (
	"fmt"
	"strings"
)

// UnsupportedDialectError is returned when no compiler is registered for
// an engine identifier. Callers may fall back to row-by-row inserts.
type UnsupportedDialectError struct {
	Dialect   string
	Available []string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported dialect %q (available: %s)",
		e.Dialect, strings.Join(e.Available, ", "))
}

// ToolMissingError is returned when a required external binary cannot be
// located on the host.
type ToolMissingError struct {
	Tool string
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("required tool %q not found on PATH", e.Tool)
}

// ConfigurationError is a semantically invalid option combination for a
// dialect, or a missing ambient requirement such as credentials.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// PreconditionError indicates a compiler was handed a resource whose
// medium the relocation planner should have fixed. This is a programming
// error in the pipeline, not a user error.
type PreconditionError struct {
	Dialect  string
	Required Medium
	Got      Medium
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("dialect %s requires a %s resource, got %s",
		e.Dialect, e.Required, e.Got)
}

// UnsupportedConversionError is returned by converters that cannot move a
// resource between the requested media.
type UnsupportedConversionError struct {
	From Medium
	To   Medium
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("no conversion from %s to %s", e.From, e.To)
}

// ExecError wraps an engine-reported execution failure together with the
// full generated command text for diagnosis.
type ExecError struct {
	Command string
	Output  string
	Err     error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("load command failed: %s", e.Command)
	if e.Output != "" {
		msg += "\noutput: " + e.Output
	}
	if e.Err != nil {
		msg += "\ncause: " + e.Err.Error()
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }
