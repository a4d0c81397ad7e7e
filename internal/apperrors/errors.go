// Package apperrors defines the caller-facing error taxonomy of the engine.
// None of these errors are retryable: the computations are deterministic, so
// only changing the input (or re-running an upstream precompute) helps.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// EloPrecomputeHint is attached to errors caused by a missing Elo history
const EloPrecomputeHint = "run the Elo precompute step first"

// ValidationError reports a bad input value together with the accepted options
type ValidationError struct {
	Field   string
	Value   string
	Options []string
	Reason  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s", e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if len(e.Options) > 0 {
		fmt.Fprintf(&b, " (valid options: %s)", strings.Join(e.Options, ", "))
	}
	return b.String()
}

// NotFoundError reports a team, player or record that does not exist
type NotFoundError struct {
	Entity      string
	Name        string
	Scope       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.Entity, e.Name)
	if e.Scope != "" {
		msg += " in " + e.Scope
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// DataUnavailableError reports missing precomputed or aggregate data
type DataUnavailableError struct {
	Resource string
	Hint     string
}

func (e *DataUnavailableError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("data unavailable: %s", e.Resource)
	}
	return fmt.Sprintf("data unavailable: %s; %s", e.Resource, e.Hint)
}

// ComputationError reports a computation that cannot produce a result from its input
type ComputationError struct {
	Op     string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Reason)
}

// NewValidation builds a ValidationError listing the accepted options
func NewValidation(field, value string, options ...string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Options: options}
}

// NewMissingField builds a ValidationError for an absent required field
func NewMissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required field is missing"}
}

// NewNotFound builds a NotFoundError
func NewNotFound(entity, name string) *NotFoundError {
	return &NotFoundError{Entity: entity, Name: name}
}

// NewEloUnavailable builds the DataUnavailableError returned when no Elo history exists
func NewEloUnavailable(resource string) *DataUnavailableError {
	return &DataUnavailableError{Resource: resource, Hint: EloPrecomputeHint}
}

// NewComputation builds a ComputationError
func NewComputation(op, reason string) *ComputationError {
	return &ComputationError{Op: op, Reason: reason}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}

func IsComputation(err error) bool {
	var target *ComputationError
	return errors.As(err, &target)
}

// Kind returns a short label for metrics and logs
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsValidation(err):
		return "validation"
	case IsNotFound(err):
		return "not_found"
	case IsDataUnavailable(err):
		return "data_unavailable"
	case IsComputation(err):
		return "computation"
	default:
		return "internal"
	}
}
