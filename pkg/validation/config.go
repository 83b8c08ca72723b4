// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
)

// ConfigError reports a configuration field that violates a constraint.
// It is returned before any simulation work starts.
type ConfigError struct {
	Field      string
	Constraint string
	Value      interface{}
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid configuration: %s must be %s", e.Field, e.Constraint)
	}
	return fmt.Sprintf("invalid configuration: %s must be %s, got %v", e.Field, e.Constraint, e.Value)
}

// NewConfigError builds a ConfigError for the given field.
func NewConfigError(field, constraint string, value interface{}) *ConfigError {
	return &ConfigError{Field: field, Constraint: constraint, Value: value}
}

// ConfigErrors collects every violation found in one configuration.
type ConfigErrors []*ConfigError

func (e ConfigErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, fmt.Sprintf("%s must be %s", err.Field, err.Constraint))
	}
	return fmt.Sprintf("invalid configuration: %d violations: %s", len(e), strings.Join(msgs, "; "))
}

// Fields maps each offending field to its constraint.
func (e ConfigErrors) Fields() map[string]string {
	fields := make(map[string]string, len(e))
	for _, err := range e {
		fields[err.Field] = err.Constraint
	}
	return fields
}

// Unwrap exposes the individual violations to errors.As and errors.Is.
func (e ConfigErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, err := range e {
		errs = append(errs, err)
	}
	return errs
}
