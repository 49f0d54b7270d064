package markup

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration problems. They are fatal at Finalize time;
// parsing itself never fails on malformed input.
var (
	ErrUnknownTag      = errors.New("unknown tag")
	ErrInvalidOperand  = errors.New("invalid rule operand")
	ErrDuplicateTag    = errors.New("duplicate tag")
	ErrInvalidName     = errors.New("invalid tag name")
	ErrFrozen          = errors.New("configuration is frozen")
	ErrUnknownPlugin   = errors.New("unknown plugin")
	ErrDuplicatePlugin = errors.New("duplicate plugin")

	// ErrInconsistentEvents reports an internal defect: the resolver produced
	// an event sequence the assembler cannot lay over the input text.
	ErrInconsistentEvents = errors.New("inconsistent resolved events")
)

// ConfigError describes an invalid rule set.
type ConfigError struct {
	Tag     string   // tag the offending definition belongs to
	Rule    RuleKind // zero when the error is not about a rule
	Message string
	Err     error // one of the sentinel errors above
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Rule != 0 {
		return fmt.Sprintf("invalid configuration for tag %s (rule %s): %s", e.Tag, e.Rule, e.Message)
	}
	return fmt.Sprintf("invalid configuration for tag %s: %s", e.Tag, e.Message)
}

// Unwrap returns the sentinel error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func newConfigError(err error, tag string, rule RuleKind, format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Tag:     tag,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// EventError describes an event sequence that does not cover the input text.
type EventError struct {
	Index   int // index of the offending event
	Offset  int // offset the assembler expected
	Message string
}

// Error implements the error interface.
func (e *EventError) Error() string {
	return fmt.Sprintf("event %d at offset %d: %s", e.Index, e.Offset, e.Message)
}

// Unwrap returns ErrInconsistentEvents.
func (e *EventError) Unwrap() error {
	return ErrInconsistentEvents
}
