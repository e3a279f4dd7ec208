package geminisdk

import "github.com/geminioxide/gemini-cli-sdk-go/internal/errors"

// Re-export error types from internal package

// LaunchError indicates the gemini CLI process could not be started.
type LaunchError = errors.LaunchError

// CLINotFoundError indicates the gemini CLI binary was not found.
// It is carried inside a LaunchError as the underlying cause.
type CLINotFoundError = errors.CLINotFoundError

// JSONDecodeError indicates CLI output did not match the expected JSON shape.
type JSONDecodeError = errors.JSONDecodeError

// APIError indicates the CLI reported an application-level failure in its
// structured output, even though the process itself may have exited 0.
type APIError = errors.APIError

// RuntimeError indicates the CLI process exited with a non-zero status.
type RuntimeError = errors.RuntimeError

// SDKError is the base interface for all SDK errors.
type SDKError = errors.SDKError
