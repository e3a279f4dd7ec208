package errors

import (
	"errors"
	"fmt"
)

// SDKError is the base interface for all SDK errors.
type SDKError interface {
	error
	IsSDKError() bool
}

// Compile-time verification that all error types implement SDKError.
var (
	_ SDKError = (*CLINotFoundError)(nil)
	_ SDKError = (*LaunchError)(nil)
	_ SDKError = (*JSONDecodeError)(nil)
	_ SDKError = (*APIError)(nil)
	_ SDKError = (*RuntimeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrStdinClosed indicates the input pipe was already closed.
	ErrStdinClosed = errors.New("stdin closed")

	// ErrTransportNotStarted indicates an operation was attempted before Start.
	ErrTransportNotStarted = errors.New("transport not started")
)

// CLINotFoundError indicates the gemini CLI binary was not found.
// It is always surfaced wrapped inside a LaunchError; callers can reach it
// with errors.AsType to distinguish "not installed" from other spawn failures.
type CLINotFoundError struct {
	SearchedPaths []string
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("gemini CLI not found in: %v", e.SearchedPaths)
}

// IsSDKError implements SDKError.
func (e *CLINotFoundError) IsSDKError() bool { return true }

// LaunchError indicates the gemini CLI process could not be started.
// This covers binary discovery failure, pipe setup failure, and spawn
// failure (permission denied, resource exhaustion). Launches are never
// retried; the caller should check the installation and PATH.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch gemini CLI: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsSDKError implements SDKError.
func (e *LaunchError) IsSDKError() bool { return true }

// JSONDecodeError indicates CLI output did not match the expected JSON or
// NDJSON shape. RawData preserves the source text that failed to decode.
type JSONDecodeError struct {
	RawData string
	Err     error
}

func (e *JSONDecodeError) Error() string {
	return fmt.Sprintf("failed to decode JSON from CLI: %v", e.Err)
}

func (e *JSONDecodeError) Unwrap() error {
	return e.Err
}

// IsSDKError implements SDKError.
func (e *JSONDecodeError) IsSDKError() bool { return true }

// APIError indicates the CLI ran successfully but reported an
// application-level failure in its structured output. The process can exit 0
// while still embedding an error object in its JSON body.
type APIError struct {
	Type    string
	Message string
	Code    *int
}

func (e *APIError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("gemini API error (%s, code %d): %s", e.Type, *e.Code, e.Message)
	}

	if e.Type != "" {
		return fmt.Sprintf("gemini API error (%s): %s", e.Type, e.Message)
	}

	return fmt.Sprintf("gemini API error: %s", e.Message)
}

// IsSDKError implements SDKError.
func (e *APIError) IsSDKError() bool { return true }

// RuntimeError indicates the CLI process exited with a non-zero status.
// Stderr carries the full captured diagnostic-stream text.
type RuntimeError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RuntimeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("gemini CLI failed (exit %d): %s", e.ExitCode, e.Stderr)
	}

	return fmt.Sprintf("gemini CLI failed (exit %d): %v", e.ExitCode, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsSDKError implements SDKError.
func (e *RuntimeError) IsSDKError() bool { return true }
