// pkg/model/errors.go
package model

import (
	"errors"
	"fmt"
)

// FormatError means the input is not a well-formed rectangular dataset.
// It aborts the run for the affected dataset only.
type FormatError struct {
	Dataset string
	Row     int // -1 when the problem is not tied to a row
	Reason  string
}

func (e *FormatError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("malformed dataset %q at row %d: %s", e.Dataset, e.Row, e.Reason)
	}
	return fmt.Sprintf("malformed dataset %q: %s", e.Dataset, e.Reason)
}

// NewFormatError creates a FormatError that is not tied to a specific row
func NewFormatError(dataset, reason string) *FormatError {
	return &FormatError{Dataset: dataset, Row: -1, Reason: reason}
}

// InsufficientDataError means a column has too few values for a quantile-based statistic.
// It is recoverable: the metric is omitted and processing continues.
type InsufficientDataError struct {
	Column    string
	Statistic string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("column %s: %s needs at least %d values, have %d",
		e.Column, e.Statistic, e.Need, e.Have)
}

// IsFormatError reports whether err wraps a FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsInsufficientData reports whether err wraps an InsufficientDataError
func IsInsufficientData(err error) bool {
	var ie *InsufficientDataError
	return errors.As(err, &ie)
}
