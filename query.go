package geminisdk

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/config"
	sdkerrors "github.com/geminioxide/gemini-cli-sdk-go/internal/errors"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/history"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/subprocess"
)

// requestLogger returns the configured logger (or a silent one) scoped with
// the component name and a fresh request id.
func requestLogger(options *GeminiOptions, component, requestID string) *slog.Logger {
	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	return log.With("component", component, "request_id", requestID)
}

// Text executes the request and returns the raw text response.
//
// It waits for the process to complete and returns standard output as a
// string, trimmed of leading and trailing whitespace.
//
// Returns a RuntimeError if the CLI exits non-zero, or a LaunchError if it
// could not be started.
func Text(ctx context.Context, prompt string, opts ...Option) (string, error) {
	options := applyOptions(opts)
	requestID := ulid.Make().String()
	log := requestLogger(options, "text_query", requestID)

	start := time.Now()

	out, err := runBuffered(ctx, log, prompt, config.FormatText, options)

	recordHistory(log, options, history.Record{
		Timestamp:  start.UTC(),
		RequestID:  requestID,
		Prompt:     prompt,
		Model:      options.Model,
		Mode:       "text",
		Success:    err == nil,
		ErrorKind:  errorKind(err),
		DurationMS: time.Since(start).Milliseconds(),
	})

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// JSON executes the request and returns a structured response.
//
// The output is decoded into a Response containing the response text, token
// usage statistics, and tool usage metrics.
//
// Returns a JSONDecodeError if the CLI output is not valid JSON, and an
// APIError if the decoded body carries a populated error field - the latter
// takes precedence over a successful exit status.
func JSON(ctx context.Context, prompt string, opts ...Option) (*Response, error) {
	options := applyOptions(opts)
	requestID := ulid.Make().String()
	log := requestLogger(options, "json_query", requestID)

	start := time.Now()

	resp, err := runJSON(ctx, log, prompt, options)

	recordHistory(log, options, history.Record{
		Timestamp:  start.UTC(),
		RequestID:  requestID,
		Prompt:     prompt,
		Model:      options.Model,
		Mode:       "json",
		Success:    err == nil,
		ErrorKind:  errorKind(err),
		DurationMS: time.Since(start).Milliseconds(),
	})

	return resp, err
}

func runJSON(
	ctx context.Context,
	log *slog.Logger,
	prompt string,
	options *GeminiOptions,
) (*Response, error) {
	out, err := runBuffered(ctx, log, prompt, config.FormatJSON, options)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(out, &resp); err != nil {
		log.Debug("Failed to decode JSON response", "error", err)

		return nil, &sdkerrors.JSONDecodeError{RawData: string(out), Err: err}
	}

	if resp.Error != nil {
		log.Debug("Response carries structured error", "error_type", resp.Error.Type)

		return nil, &sdkerrors.APIError{
			Type:    resp.Error.Type,
			Message: resp.Error.Message,
			Code:    resp.Error.Code,
		}
	}

	return &resp, nil
}

// runBuffered spawns the CLI, starts the stdin feeder on its own goroutine,
// and fully drains the output. The feeder always runs concurrently with the
// drain regardless of payload size; payload size is not known in advance to
// be safely under the pipe buffer limit.
func runBuffered(
	ctx context.Context,
	log *slog.Logger,
	prompt string,
	format config.OutputFormat,
	options *GeminiOptions,
) ([]byte, error) {
	transport := subprocess.NewCLITransport(log, prompt, format, options)

	if err := transport.Start(ctx); err != nil {
		log.Error("Failed to start gemini CLI", "error", err)

		return nil, err
	}

	go transport.FeedInput()

	return transport.CollectOutput(ctx)
}

// recordHistory saves one request record when history is enabled.
// Recording failures are logged and never surfaced on the request path.
func recordHistory(log *slog.Logger, options *GeminiOptions, rec history.Record) {
	if options.HistoryPath == "" {
		return
	}

	store, err := history.Open(options.HistoryPath)
	if err != nil {
		log.Warn("Failed to open history store", "error", err)

		return
	}
	defer store.Close()

	if err := store.Save(rec); err != nil {
		log.Warn("Failed to record request history", "error", err)
	}
}

// errorKind maps a classified error to its history label.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case isType[*sdkerrors.LaunchError](err):
		return "launch"
	case isType[*sdkerrors.JSONDecodeError](err):
		return "decode"
	case isType[*sdkerrors.APIError](err):
		return "api"
	case isType[*sdkerrors.RuntimeError](err):
		return "runtime"
	default:
		return "other"
	}
}

func isType[T error](err error) bool {
	_, ok := stderrors.AsType[T](err)

	return ok
}
