// Package apperr provides the typed error taxonomy for the transcription
// pipeline. Every failure surfaces as an *Error carrying a machine-readable
// code, a human-readable message, optional details, and the underlying cause.
package apperr

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	// CodeConfigMissing indicates required configuration is absent.
	CodeConfigMissing ErrorCode = "CONFIG_MISSING"
	// CodeAuthFailed indicates the credential exchange with the recording
	// provider failed.
	CodeAuthFailed ErrorCode = "AUTH_FAILED"
	// CodeNotFound indicates a requested remote resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeDownloadFailed indicates a participant track download failed.
	CodeDownloadFailed ErrorCode = "DOWNLOAD_FAILED"
	// CodeAlreadyExists indicates the combined output file already exists
	// and overwriting was not requested.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// CodeNoInput indicates the combiner was given no input tracks.
	CodeNoInput ErrorCode = "NO_INPUT"
	// CodeToolFailed indicates the external merge tool exited non-zero.
	CodeToolFailed ErrorCode = "TOOL_FAILED"
	// CodeTranscriptionFailed indicates the transcription provider reported
	// a non-success outcome.
	CodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// CodeInternal is the fallback for unclassified failures.
	CodeInternal ErrorCode = "INTERNAL"
)

// Error is the unified application error type.
type Error struct {
	// Code classifies the error.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return New(code, message).WithCause(cause)
}

// --- Common constructors ---

// ConfigMissing reports absent required configuration variables.
func ConfigMissing(vars []string) *Error {
	return &Error{
		Code:    CodeConfigMissing,
		Message: fmt.Sprintf("missing required configuration: %v", vars),
		Details: map[string]any{"variables": vars},
	}
}

// AuthFailed reports a failed credential exchange.
func AuthFailed(cause error) *Error {
	return &Error{
		Code:    CodeAuthFailed,
		Message: "credential exchange with recording provider failed",
		Cause:   cause,
	}
}

// DownloadFailed reports a failed participant track download.
func DownloadFailed(participant string, cause error) *Error {
	return &Error{
		Code:    CodeDownloadFailed,
		Message: fmt.Sprintf("downloading track for %q failed", participant),
		Details: map[string]any{"participant": participant},
		Cause:   cause,
	}
}

// AlreadyExists reports a pre-existing output path.
func AlreadyExists(path string) *Error {
	return &Error{
		Code:    CodeAlreadyExists,
		Message: fmt.Sprintf("output file %q already exists", path),
		Details: map[string]any{"path": path},
	}
}

// NoInput reports an empty combiner input set.
func NoInput(dir string) *Error {
	return &Error{
		Code:    CodeNoInput,
		Message: fmt.Sprintf("no input audio tracks found in %q", dir),
		Details: map[string]any{"dir": dir},
	}
}

// ToolFailed reports a non-zero exit from the external merge tool. The
// captured diagnostic output is included in the message.
func ToolFailed(tool string, exitCode int, stderr string, cause error) *Error {
	return &Error{
		Code:    CodeToolFailed,
		Message: fmt.Sprintf("%s exited with code %d: %s", tool, exitCode, stderr),
		Details: map[string]any{"tool": tool, "exit_code": exitCode},
		Cause:   cause,
	}
}

// TranscriptionFailed reports a provider-side transcription failure.
func TranscriptionFailed(message string, cause error) *Error {
	return &Error{
		Code:    CodeTranscriptionFailed,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode of err, or CodeInternal when err is not an
// *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
