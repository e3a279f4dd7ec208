// Package config provides configuration types for the Gemini SDK.
package config

import "log/slog"

// OutputFormat selects how the CLI renders its response.
type OutputFormat string

const (
	// FormatText requests a plain text response.
	FormatText OutputFormat = "text"
	// FormatJSON requests a single JSON document response.
	FormatJSON OutputFormat = "json"
	// FormatStreamJSON requests newline-delimited JSON events.
	FormatStreamJSON OutputFormat = "stream-json"
)

// Options is the immutable configuration snapshot for a single request.
// It is filled once by the functional options and consumed exactly once
// when the command arguments are built; nothing mutates it afterwards.
type Options struct {
	// Logger receives debug output. Nil means silent operation.
	Logger *slog.Logger

	// BinPath is an explicit path to the gemini binary.
	// If empty, the binary is discovered in PATH and common locations.
	BinPath string

	// Model selects a specific Gemini model (--model).
	Model string

	// InputData is inline context text piped to the CLI's stdin.
	InputData string

	// InputFiles are files whose contents are piped to stdin, in order,
	// after InputData.
	InputFiles []string

	// IncludeDirs are workspace directories passed via --include-directories.
	IncludeDirs []string

	// Yolo auto-approves all tool actions (--yolo).
	Yolo bool

	// Debug enables verbose CLI diagnostics on stderr (--debug).
	Debug bool

	// Env are additional environment variables for the CLI process.
	Env map[string]string

	// Cwd is the working directory for the CLI process.
	Cwd string

	// Stderr, if set, receives each CLI stderr line as it arrives.
	Stderr func(string)

	// HistoryPath, if set, enables request history recording in the
	// SQLite database at this path.
	HistoryPath string

	// SkipVersionCheck skips the best-effort CLI version probe.
	SkipVersionCheck bool
}
