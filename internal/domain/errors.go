package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat reports a source whose declared type the extractor
// cannot handle. Callers can distinguish it with errors.Is.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrNotFound reports a lookup for a record that does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError reports input rejected before any pipeline work starts.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ExtractionError reports a failure to obtain usable text from a source.
// Source names the file or URL being read.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("extraction failed for %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError wraps err as an extraction failure for the given source.
func NewExtractionError(source string, err error) *ExtractionError {
	return &ExtractionError{Source: source, Err: err}
}

// PersistenceError reports a failed transactional write. The whole
// transaction is rolled back whenever one is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a persistence failure for the given operation.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
