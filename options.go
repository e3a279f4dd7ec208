package geminisdk

import "log/slog"

// Option configures a request using the functional options pattern.
// Options accumulate into one immutable GeminiOptions snapshot that is
// consumed exactly once when the command is assembled.
type Option func(*GeminiOptions)

// applyOptions applies functional options to a fresh GeminiOptions snapshot.
func applyOptions(opts []Option) *GeminiOptions {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *GeminiOptions) {
		o.Logger = logger
	}
}

// WithBinPath sets the explicit path to the gemini binary.
// If not set, the binary is searched in PATH and common install locations.
func WithBinPath(path string) Option {
	return func(o *GeminiOptions) {
		o.BinPath = path
	}
}

// WithModel selects a specific Gemini model (e.g., "gemini-2.5-pro").
// If not set, the CLI uses its currently active model.
func WithModel(model string) Option {
	return func(o *GeminiOptions) {
		o.Model = model
	}
}

// WithContext pipes raw text context (code, logs, data) into the model's
// standard input, ahead of any files.
func WithContext(data string) Option {
	return func(o *GeminiOptions) {
		o.InputData = data
	}
}

// WithFile pipes a file's contents into the model's standard input.
// Can be used multiple times; files are fed in the order given. Files are
// read during execution on the feeder goroutine, so large files do not
// block the caller or deadlock the pipes.
func WithFile(path string) Option {
	return func(o *GeminiOptions) {
		o.InputFiles = append(o.InputFiles, path)
	}
}

// WithIncludeDirectory includes a directory in the analysis workspace.
// Can be used multiple times; maps to the --include-directories flag.
func WithIncludeDirectory(dir string) Option {
	return func(o *GeminiOptions) {
		o.IncludeDirs = append(o.IncludeDirs, dir)
	}
}

// WithYolo auto-approves all tool actions (file edits, shell commands)
// without confirmation. Use with caution.
func WithYolo() Option {
	return func(o *GeminiOptions) {
		o.Yolo = true
	}
}

// WithDebug passes --debug to the CLI, causing verbose logs on stderr.
func WithDebug() Option {
	return func(o *GeminiOptions) {
		o.Debug = true
	}
}

// WithEnv provides additional environment variables for the CLI process.
func WithEnv(env map[string]string) Option {
	return func(o *GeminiOptions) {
		o.Env = env
	}
}

// WithCwd sets the working directory for the CLI process.
func WithCwd(cwd string) Option {
	return func(o *GeminiOptions) {
		o.Cwd = cwd
	}
}

// WithStderr registers a callback receiving each CLI stderr line as it
// arrives. Useful together with WithDebug.
func WithStderr(callback func(string)) Option {
	return func(o *GeminiOptions) {
		o.Stderr = callback
	}
}

// WithHistoryPath enables request history recording in the SQLite database
// at the given path. History failures are logged, never surfaced.
func WithHistoryPath(path string) Option {
	return func(o *GeminiOptions) {
		o.HistoryPath = path
	}
}

// WithSkipVersionCheck skips the best-effort CLI version probe during
// binary discovery.
func WithSkipVersionCheck() Option {
	return func(o *GeminiOptions) {
		o.SkipVersionCheck = true
	}
}
