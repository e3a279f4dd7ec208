package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/config"
)

// BuildArgs constructs the gemini CLI command arguments.
//
// It is a pure function of its inputs: the same options always produce the
// same argument vector. Argument order is part of the CLI contract and must
// stay stable: the output format flag comes first and the prompt is the last
// positional argument. Values are passed verbatim in the argument vector;
// there is no shell interpretation and no escaping.
func BuildArgs(prompt string, format config.OutputFormat, options *config.Options) []string {
	args := []string{"--output-format", string(format)}

	if options.Model != "" {
		args = append(args, "--model", options.Model)
	}

	if options.Yolo {
		args = append(args, "--yolo")
	}

	if options.Debug {
		args = append(args, "--debug")
	}

	if len(options.IncludeDirs) > 0 {
		args = append(args, "--include-directories", strings.Join(options.IncludeDirs, ","))
	}

	args = append(args, prompt)

	return args
}

// BuildEnvironment constructs the environment variables for the CLI process.
func BuildEnvironment(options *config.Options) []string {
	// Start with current environment
	env := os.Environ()

	// Add SDK-specific environment variables
	env = append(env, "GEMINI_SDK_VERSION=0.1.0")
	env = append(env, "GEMINI_SDK_ENTRYPOINT=sdk-go")

	// Add or override with user-provided environment variables
	for key, value := range options.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}
