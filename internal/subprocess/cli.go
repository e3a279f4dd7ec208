package subprocess

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/cli"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/config"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/errors"
)

const (
	// maxScanTokenSize is the maximum buffer size for reading CLI output lines.
	maxScanTokenSize = 1024 * 1024 // 1MB
	// maxStderrBufferSize is the maximum size for the stderr buffer.
	// Stderr reading continues indefinitely (the callback receives all lines),
	// but the buffer stops growing after this limit to prevent unbounded
	// memory usage when --debug is enabled.
	maxStderrBufferSize = 10 * 1024 * 1024 // 10MB
)

// CLITransport drives one gemini CLI subprocess. Each transport owns its own
// process, its three pipes, and its feeder goroutine; nothing is shared
// across concurrent requests.
type CLITransport struct {
	log     *slog.Logger
	options *config.Options
	prompt  string
	format  config.OutputFormat
	binPath string
	args    []string
	env     []string
	cwd     string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	stderr  io.ReadCloser

	mu          sync.Mutex // Protects stdin close state
	stdinClosed bool

	done     chan struct{} // Closed by ReleaseOutput to abandon pending sends
	doneOnce sync.Once
}

// NewCLITransport creates a transport for one request in the given output
// format. Binary discovery is deferred to Start, which uses the caller's
// context.
func NewCLITransport(
	log *slog.Logger,
	prompt string,
	format config.OutputFormat,
	options *config.Options,
) *CLITransport {
	return &CLITransport{
		log:     log.With("component", "cli_transport"),
		options: options,
		prompt:  prompt,
		format:  format,
		done:    make(chan struct{}),
	}
}

// Start spawns the gemini CLI subprocess with stdin, stdout, and stderr
// redirected to pipes owned by this transport.
//
// Every failure before the process is running is a launch failure: binary
// discovery, pipe setup, and the spawn itself. Launches are not retried.
func (t *CLITransport) Start(ctx context.Context) error {
	t.log.Info("Starting gemini CLI subprocess")

	discoverer := cli.NewDiscoverer(&cli.Config{
		BinPath:          t.options.BinPath,
		SkipVersionCheck: t.options.SkipVersionCheck,
		Logger:           t.log,
	})

	binPath, err := discoverer.Discover(ctx)
	if err != nil {
		return &errors.LaunchError{Err: fmt.Errorf("discover CLI: %w", err)}
	}

	t.binPath = binPath

	t.args = cli.BuildArgs(t.prompt, t.format, t.options)
	t.log.Debug("Built command arguments", "args", t.args)

	t.env = cli.BuildEnvironment(t.options)

	t.cwd = t.options.Cwd
	if t.cwd == "" {
		t.cwd, err = os.Getwd()
		if err != nil {
			return &errors.LaunchError{Err: fmt.Errorf("get working directory: %w", err)}
		}
	}

	t.log.Debug("Set working directory", "cwd", t.cwd)

	//nolint:gosec // G204: Subprocess launching with dynamic args is expected for CLI invocation
	cmd := exec.CommandContext(ctx, t.binPath, t.args...)
	cmd.Dir = t.cwd
	cmd.Env = t.env

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.LaunchError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	t.stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.LaunchError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	t.stdout = stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		t.log.Error("Failed to create stderr pipe", "error", err)

		return &errors.LaunchError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	t.stderr = stderr

	if err := cmd.Start(); err != nil {
		t.log.Error("Failed to start CLI process", "error", err)

		return &errors.LaunchError{Err: fmt.Errorf("start process: %w", err)}
	}

	t.cmd = cmd
	t.log.Info("gemini CLI subprocess started", "pid", cmd.Process.Pid)

	return nil
}

// CollectOutput fully drains stdout and stderr, waits for the process to
// exit, and returns the raw stdout bytes.
//
// Stdout and stderr are drained on separate goroutines while the feeder
// (started by the caller) is still writing; sequencing any of these would
// risk a pipe deadlock once a buffer fills. A non-zero exit yields a
// RuntimeError carrying the captured stderr text; stdout bytes are returned
// unmodified for the caller's chosen decoding.
func (t *CLITransport) CollectOutput(ctx context.Context) ([]byte, error) {
	if t.cmd == nil {
		return nil, errors.ErrTransportNotStarted
	}

	var (
		stdoutBuf []byte
		stderrBuf strings.Builder
	)

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := io.ReadAll(t.stdout)
		stdoutBuf = out

		if err != nil {
			return fmt.Errorf("read stdout: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		t.drainStderr(&stderrBuf)

		return nil
	})

	readErr := g.Wait()

	t.log.Debug("Waiting for CLI process to exit")

	if err := t.cmd.Wait(); err != nil {
		exitCode := -1
		if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
			exitCode = exitErr.ExitCode()
		}

		stderrText := strings.TrimSpace(stderrBuf.String())

		t.log.Error("CLI process exited with error", "exit_code", exitCode, "stderr", stderrText)

		return nil, &errors.RuntimeError{
			ExitCode: exitCode,
			Stderr:   stderrText,
			Err:      err,
		}
	}

	if readErr != nil {
		return nil, &errors.RuntimeError{ExitCode: 0, Err: readErr}
	}

	t.log.Info("CLI process exited successfully", "stdout_len", len(stdoutBuf))

	return stdoutBuf, nil
}

// drainStderr reads stderr to EOF, buffering up to maxStderrBufferSize and
// forwarding each line to the configured callback.
func (t *CLITransport) drainStderr(buf *strings.Builder) {
	scanner := bufio.NewScanner(t.stderr)
	scanBuf := make([]byte, maxScanTokenSize)
	scanner.Buffer(scanBuf, maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()

		if buf.Len() < maxStderrBufferSize {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}

			buf.WriteString(line)
		}

		if t.options.Stderr != nil {
			t.options.Stderr(line)
		}
	}

	// Process exit closes the pipe; any residual error is not actionable.
	if err := scanner.Err(); err != nil {
		t.log.Debug("Stderr scanner error", "error", err)
	}
}

// ReadEvents reads NDJSON lines from the CLI stdout.
//
// It returns a channel of raw lines in exactly the order they were received,
// and an error channel with capacity one. Blank lines are skipped without
// producing an item. The line channel is closed when the CLI closes stdout;
// a scanner failure is reported on the error channel first. The goroutine
// never inspects the process exit status on behalf of the consumer - it only
// reaps the process after stdout is exhausted so no zombie is left behind.
func (t *CLITransport) ReadEvents(ctx context.Context) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errs := make(chan error, 1)

	var stderrWg sync.WaitGroup

	var stderrBuf strings.Builder

	stderrWg.Go(func() {
		t.drainStderr(&stderrBuf)
	})

	go func() {
		defer close(lines)
		defer close(errs)
		defer t.log.Debug("ReadEvents goroutine stopped")

		scanner := bufio.NewScanner(t.stdout)
		buf := make([]byte, maxScanTokenSize)
		scanner.Buffer(buf, maxScanTokenSize)

		eventCount := 0

		for scanner.Scan() {
			raw := scanner.Bytes()
			if len(bytes.TrimSpace(raw)) == 0 {
				continue
			}

			// Scanner reuses its buffer between iterations.
			line := make([]byte, len(raw))
			copy(line, raw)

			eventCount++
			t.log.Debug("Received stream line from CLI", "event_count", eventCount)

			select {
			case lines <- line:
			case <-t.done:
				t.log.Debug("Output released during send, abandoning stream")
				t.reap(&stderrWg)

				return
			case <-ctx.Done():
				t.log.Debug("Context cancelled during send", "error", ctx.Err())

				errs <- ctx.Err()

				return
			}
		}

		if err := scanner.Err(); err != nil && !t.outputReleased() {
			t.log.Error("Scanner error while reading CLI output", "error", err)

			errs <- fmt.Errorf("scanner error: %w", err)
		}

		t.reap(&stderrWg)
	}()

	return lines, errs
}

// reap waits for the stderr drain and the process exit. The exit status is
// logged, never surfaced: streaming consumers observe end-of-stream when
// stdout closes, and callers needing exit-level errors use buffered mode.
func (t *CLITransport) reap(stderrWg *sync.WaitGroup) {
	stderrWg.Wait()

	if err := t.cmd.Wait(); err != nil {
		t.log.Debug("CLI process exited with error after stream end", "error", err)
	} else {
		t.log.Debug("CLI process exited after stream end")
	}
}

// FeedInput writes the configured input payload to the CLI stdin and closes
// it to signal end-of-input. It must run on its own goroutine from the
// moment the process starts: the subprocess may block writing output while
// it is still consuming input, and sequencing the two directions on one path
// deadlocks once both pipe buffers fill.
//
// Feeder failures (unreadable file, broken pipe) are deliberately not
// surfaced on the primary response path - the primary error, if any, is the
// process's own exit status or malformed output, which is strictly more
// informative than a write failure caused by the same underlying crash.
func (t *CLITransport) FeedInput() {
	defer func() {
		if err := t.CloseStdin(); err != nil {
			t.log.Debug("Failed to close stdin", "error", err)
		}
	}()

	if t.options.InputData != "" {
		if err := t.writeChunk([]byte(t.options.InputData)); err != nil {
			t.log.Debug("Failed to write inline context to stdin", "error", err)

			return
		}
	}

	for _, path := range t.options.InputFiles {
		content, err := os.ReadFile(path)
		if err != nil {
			t.log.Debug("Failed to read input file", "path", path, "error", err)

			return
		}

		if err := t.writeChunk(content); err != nil {
			t.log.Debug("Failed to write input file to stdin", "path", path, "error", err)

			return
		}
	}
}

// writeChunk writes one input fragment followed by a newline separator.
func (t *CLITransport) writeChunk(data []byte) error {
	if _, err := t.stdin.Write(data); err != nil {
		return err
	}

	_, err := t.stdin.Write([]byte("\n"))

	return err
}

// CloseStdin closes the stdin pipe to signal end of input.
// It is safe to call more than once; process exit also closes the pipe.
func (t *CLITransport) CloseStdin() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stdin != nil && !t.stdinClosed {
		t.log.Debug("Closing stdin pipe")

		t.stdinClosed = true

		return t.stdin.Close()
	}

	return nil
}

// ReleaseOutput closes this side's stdout read handle and abandons any
// pending event send. It is called on every exit path of a streaming
// consumer, including early abandonment. The process and the feeder are
// deliberately not killed: they run to natural completion.
func (t *CLITransport) ReleaseOutput() {
	t.doneOnce.Do(func() {
		t.log.Debug("Releasing stdout handle")
		close(t.done)

		if err := t.stdout.Close(); err != nil {
			t.log.Debug("Failed to close stdout", "error", err)
		}
	})
}

// outputReleased reports whether ReleaseOutput has been called.
func (t *CLITransport) outputReleased() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
