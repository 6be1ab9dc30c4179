package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/store"
)

// ErrorCategory defines categories of errors raised by a run
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryValidation
	ErrorCategorySourceNotFound
	ErrorCategorySourceRead
	ErrorCategoryIntegrity
	ErrorCategoryConnection
	ErrorCategoryCancelled
	ErrorCategoryUnexpected
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryValidation:
		return "Validation"
	case ErrorCategorySourceNotFound:
		return "SourceNotFound"
	case ErrorCategorySourceRead:
		return "SourceRead"
	case ErrorCategoryIntegrity:
		return "Integrity"
	case ErrorCategoryConnection:
		return "Connection"
	case ErrorCategoryCancelled:
		return "Cancelled"
	case ErrorCategoryUnexpected:
		return "Unexpected"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// Recoverable reports whether the caller may retry after fixing its input
func (ec ErrorCategory) Recoverable() bool {
	return ec == ErrorCategoryValidation
}

// CategorizeError determines the category of an error
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}

	var netErr net.Error
	switch {
	case errors.Is(err, model.ErrValidation):
		return ErrorCategoryValidation
	case errors.Is(err, model.ErrSourceNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrorCategorySourceNotFound
	case errors.Is(err, model.ErrSourceRead):
		return ErrorCategorySourceRead
	case errors.Is(err, model.ErrIntegrity), store.IsConstraintViolation(err):
		return ErrorCategoryIntegrity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryCancelled
	case errors.As(err, &netErr), strings.Contains(err.Error(), "connection refused"):
		return ErrorCategoryConnection
	default:
		return ErrorCategoryUnexpected
	}
}

// ErrorRecord represents a single error of a run
type ErrorRecord struct {
	Category  ErrorCategory
	Phase     string
	Error     error
	Message   string // Derived from Error but stored for serialization
	Timestamp time.Time
}

// NewErrorRecord creates a categorized error record for phase
func NewErrorRecord(phase string, err error) ErrorRecord {
	record := ErrorRecord{
		Category:  CategorizeError(err),
		Phase:     phase,
		Error:     err,
		Timestamp: time.Now(),
	}
	if err != nil {
		record.Message = err.Error()
	}
	return record
}

// String returns a formatted error message
func (r ErrorRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", r.Category))
	if r.Phase != "" {
		sb.WriteString(fmt.Sprintf("Phase: %s ", r.Phase))
	}
	sb.WriteString("Error: ")
	sb.WriteString(r.Message)
	return sb.String()
}
