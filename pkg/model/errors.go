package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every stage of the pipeline
var (
	ErrSourceNotFound = errors.New("source file not found")
	ErrSourceRead     = errors.New("source read failed")
	ErrValidation     = errors.New("validation failed")
	ErrIntegrity      = errors.New("integrity constraint violated")
	ErrUnexpected     = errors.New("unexpected error")
	ErrNotFound       = errors.New("record not found")
)

// ValidationError describes a rejected lifecycle input
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps a persistence failure with its category sentinel
type StoreError struct {
	Kind  error // ErrIntegrity or ErrUnexpected
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Cause)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

// NewStoreError builds a StoreError, choosing the kind from integrity
func NewStoreError(op string, integrity bool, cause error) error {
	if cause == nil {
		return nil
	}
	kind := ErrUnexpected
	if integrity {
		kind = ErrIntegrity
	}
	return &StoreError{Kind: kind, Op: op, Cause: cause}
}
