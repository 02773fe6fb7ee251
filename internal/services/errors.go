package services

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/dto"
)

var ErrReportNotFound = errors.New("report not found")

// ValidationError carries every field problem found in a request.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(fields []dto.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// StoreError wraps a persistence failure. Callers surface it as a generic
// server error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
