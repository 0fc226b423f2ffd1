// pkg/pipeline/error.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/David-Botos/data-quality/pkg/model"
)

// ErrorCategory classifies why a dataset run failed
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryFormat
	ErrorCategoryInsufficientData
	ErrorCategoryStorage
	ErrorCategoryCanceled
	ErrorCategoryInternal
)

// String returns the metric label for the category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "none"
	case ErrorCategoryFormat:
		return "format"
	case ErrorCategoryInsufficientData:
		return "insufficient_data"
	case ErrorCategoryStorage:
		return "storage"
	case ErrorCategoryCanceled:
		return "canceled"
	case ErrorCategoryInternal:
		return "internal"
	default:
		return fmt.Sprintf("unknown(%d)", int(ec))
	}
}

// StorageError wraps a failure while loading a dataset or persisting results
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CategorizeError determines the category of an error
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}

	var storageErr *StorageError
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryCanceled
	case model.IsFormatError(err):
		return ErrorCategoryFormat
	case model.IsInsufficientData(err):
		return ErrorCategoryInsufficientData
	case errors.As(err, &storageErr):
		return ErrorCategoryStorage
	case isConnectionError(err):
		return ErrorCategoryStorage
	default:
		return ErrorCategoryInternal
	}
}

// isConnectionError recognizes driver errors that only surface as text
func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "i/o timeout")
}
