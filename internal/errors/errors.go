// Package errors defines the error taxonomy for the analysis engine.
//
// Single-file entry points propagate these errors to the caller unchanged.
// Directory analysis catches them per file, logs the offending path, and
// continues; analysis is deterministic, so nothing is ever retried.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// ErrorType classifies engine errors for logging and batch reporting.
type ErrorType string

const (
	ErrorTypeParse        ErrorType = "parse"
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileRead     ErrorType = "file_read"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeInternal     ErrorType = "internal"
)

// ParseError reports malformed source. It is not recoverable within the
// engine: the same input will always fail the same way.
type ParseError struct {
	FilePath   string
	Line       int
	Column     int
	Message    string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a parse error anchored at the first error node.
func NewParseError(path string, line, column int, message string) *ParseError {
	return &ParseError{
		FilePath:  path,
		Line:      line,
		Column:    column,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// FileError reports an I/O failure while reading a source file.
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a file error, classifying not-found and permission
// failures from the underlying error.
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileRead
	switch {
	case errors.Is(err, fs.ErrNotExist):
		errorType = ErrorTypeFileNotFound
	case errors.Is(err, fs.ErrPermission):
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// IsNotFound reports whether the error is a missing-file failure.
func (e *FileError) IsNotFound() bool {
	return e.Type == ErrorTypeFileNotFound
}

// UnsupportedNodeError reports an extraction contract invoked on a node kind
// it does not accept. It indicates an internal-logic bug in a caller, not
// malformed input.
type UnsupportedNodeError struct {
	Operation string
	NodeKind  string
}

// NewUnsupportedNodeError creates an unsupported-node error.
func NewUnsupportedNodeError(op, kind string) *UnsupportedNodeError {
	return &UnsupportedNodeError{Operation: op, NodeKind: kind}
}

// Error implements the error interface.
func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("%s does not support node kind %q", e.Operation, e.NodeKind)
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
}

// NewConfigError creates a config error.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates per-file failures from a directory analysis.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a multi-error, dropping nil entries.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface.
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all aggregated errors.
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
