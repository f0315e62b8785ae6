package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrBadMetric    = errors.New("bad metric")
	ErrDataNotFound = errors.New("data not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Reasons attached to BadMetricError
const (
	ReasonMissing    = "does not exist"
	ReasonNotNumeric = "is not numerical"
)

// BadMetricError reports a requested metric column that is absent or not numeric.
type BadMetricError struct {
	Column string
	Reason string
	// Message overrides the default rendering when set.
	Message string
}

func (e *BadMetricError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("The specified metric '%s' %s.", e.Column, e.Reason)
}

// Is lets errors.Is(err, ErrBadMetric) match
func (e *BadMetricError) Is(target error) bool {
	return target == ErrBadMetric
}

// DataNotFoundError reports that a filter key matched no rows.
type DataNotFoundError struct {
	Message string
}

func (e *DataNotFoundError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrDataNotFound) match
func (e *DataNotFoundError) Is(target error) bool {
	return target == ErrDataNotFound
}

// Error constructors with context
func NewBadMetricError(column, reason string) error {
	return &BadMetricError{Column: column, Reason: reason}
}

func NewDataNotFoundError(format string, args ...interface{}) error {
	return &DataNotFoundError{Message: fmt.Sprintf(format, args...)}
}

func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

// Error checking helpers
func IsBadMetric(err error) bool {
	return errors.Is(err, ErrBadMetric)
}

func IsDataNotFound(err error) bool {
	return errors.Is(err, ErrDataNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
