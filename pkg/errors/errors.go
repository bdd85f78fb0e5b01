// Package errors provides the structured errors returned by pipes, the
// adapter registry and pipelines. Every error carries an ErrorType so that
// callers can branch on the category without matching message text.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType is the category of an Error
type ErrorType string

const (
	// ErrorTypeValidation marks a pipe configuration that cannot be used,
	// such as one without a name
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound marks an unregistered adapter type, a missing
	// record or a pipe absent from a pipeline
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeRateLimit marks a request refused by a rate limit
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeTimeout marks an operation that ran out of time or was cancelled
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeConnection marks transport failures and server errors
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeConfig marks an adapter that failed to build a pipe
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeData marks records that could not be encoded or decoded
	ErrorTypeData ErrorType = "data"
	// ErrorTypeCapability marks an operation the pipe does not support
	ErrorTypeCapability ErrorType = "capability"
)

// Error is a categorized error with optional cause and details
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame is one frame of the call stack where an Error was created
type StackFrame struct {
	Function string
	File     string
	Line     int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key-value pair, for example the pipe name or the
// list index of a failed element
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an error of the given type
func New(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message, Stack: callers()}
}

// Newf creates an error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Stack: callers()}
}

// Wrap gives err a type and message. A wrapped *Error keeps the stack of
// the original. Wrap returns nil for a nil err.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{Type: errType, Message: message, Cause: err}
	var inner *Error
	if errors.As(err, &inner) {
		wrapped.Stack = inner.Stack
	} else {
		wrapped.Stack = callers()
	}
	return wrapped
}

// IsRetryable reports whether the outermost *Error is transient: a rate
// limit, a timeout or a connection failure
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == ErrorTypeRateLimit || e.Type == ErrorTypeTimeout || e.Type == ErrorTypeConnection
}

// IsType checks if the outermost structured error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// Detail returns a detail value from the outermost structured error
func Detail(err error, key string) (interface{}, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Details == nil {
		return nil, false
	}
	v, ok := e.Details[key]
	return v, ok
}

// callers records the stack above the exported constructor that called it
func callers() []StackFrame {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return nil
	}

	stack := make([]StackFrame, 0, n)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		stack = append(stack, StackFrame{Function: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	return stack
}
