package errors

import (
	"errors"
	"fmt"
)

// PipelineError is a coded error surfaced to the caller. Fatal errors abort
// the run before any artifact is written; everything recoverable is recorded
// as a ParseIssue or an unresolved placeholder instead of becoming an error.
type PipelineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal"`
	cause   error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *PipelineError) Unwrap() error {
	return e.cause
}

// New creates a new PipelineError with the given code and message
func New(code, message string, fatal bool) *PipelineError {
	return &PipelineError{Code: code, Message: message, Fatal: fatal}
}

// Wrap attaches a cause to a copy of the error
func (e *PipelineError) Wrap(cause error) *PipelineError {
	return &PipelineError{Code: e.Code, Message: e.Message, Fatal: e.Fatal, cause: cause}
}

// WithMessage returns a copy of the error with a more specific message
func (e *PipelineError) WithMessage(format string, args ...any) *PipelineError {
	return &PipelineError{Code: e.Code, Message: fmt.Sprintf(format, args...), Fatal: e.Fatal, cause: e.cause}
}

// Predefined error values for the failure taxonomy
var (
	// Fatal: input unreadable or absent; no partial output is written
	ErrInputNotFound   = New("INPUT_NOT_FOUND", "input file not found", true)
	ErrInputUnreadable = New("INPUT_UNREADABLE", "input file could not be read", true)

	// Fatal: configuration invalid at startup, before any row is processed
	ErrInvalidConfig = New("INVALID_CONFIG", "configuration is invalid", true)

	// Fatal: an output artifact could not be produced or written
	ErrRenderFailed = New("RENDER_FAILED", "report rendering failed", true)
	ErrWriteFailed  = New("WRITE_FAILED", "output artifact could not be written", true)
)

// IsFatal reports whether err is (or wraps) a fatal PipelineError
func IsFatal(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Fatal
	}
	return false
}

// Code returns the pipeline error code for err, or "" if it is not one
func Code(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
