package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the different kinds of failure a save operation can report
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeIO           ErrorType = "io"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
)

// Error is a save operation error with type information
type Error struct {
	Type ErrorType
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s error", e.Op, e.Type)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that path does not resolve to an existing directory
func NotFound(op, path string) *Error {
	return &Error{Type: ErrorTypeNotFound, Op: op, Path: path}
}

// IO wraps an underlying filesystem failure
func IO(op, path string, err error) *Error {
	return &Error{Type: ErrorTypeIO, Op: op, Path: path, Err: err}
}

// InvalidInput reports a bad menu or command line selection
func InvalidInput(op, msg string) *Error {
	return &Error{Type: ErrorTypeInvalidInput, Op: op, Err: errors.New(msg)}
}

// TypeOf returns the type of the first *Error in err's chain, or "" if none
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsNotFound checks if err is a not-found error
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsIO checks if err is an I/O error
func IsIO(err error) bool {
	return TypeOf(err) == ErrorTypeIO
}

// IsInvalidInput checks if err is an invalid input error
func IsInvalidInput(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidInput
}
