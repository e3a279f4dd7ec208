package subprocess

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/config"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFakeCLI writes an executable shell script standing in for the gemini
// binary and returns its path.
func writeFakeCLI(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Fake CLI scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "gemini")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func newTestTransport(t *testing.T, script, prompt string, format config.OutputFormat, options *config.Options) *CLITransport {
	t.Helper()

	options.BinPath = writeFakeCLI(t, script)
	options.SkipVersionCheck = true

	return NewCLITransport(testLogger(), prompt, format, options)
}

// TestStart_LaunchFailure tests that a missing binary is a launch failure
// wrapping CLINotFoundError.
func TestStart_LaunchFailure(t *testing.T) {
	transport := NewCLITransport(testLogger(), "hi", config.FormatText, &config.Options{
		BinPath:          "/nonexistent/gemini",
		SkipVersionCheck: true,
	})

	err := transport.Start(context.Background())

	require.Error(t, err)

	launchErr, ok := stderrors.AsType[*errors.LaunchError](err)
	require.True(t, ok)

	_, ok = stderrors.AsType[*errors.CLINotFoundError](launchErr)
	require.True(t, ok)
}

// TestCollectOutput_Success tests the buffered happy path.
func TestCollectOutput_Success(t *testing.T) {
	script := "#!/bin/sh\ncat >/dev/null\necho hello from gemini\n"
	transport := newTestTransport(t, script, "hi", config.FormatText, &config.Options{})

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	out, err := transport.CollectOutput(ctx)

	require.NoError(t, err)
	require.Equal(t, "hello from gemini\n", string(out))
}

// TestCollectOutput_NonZeroExit tests that a failing process yields a
// RuntimeError carrying the captured stderr text.
func TestCollectOutput_NonZeroExit(t *testing.T) {
	script := "#!/bin/sh\ncat >/dev/null\necho 'Critical Failure' >&2\nexit 1\n"
	transport := newTestTransport(t, script, "crash_it", config.FormatText, &config.Options{})

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	_, err := transport.CollectOutput(ctx)

	require.Error(t, err)

	runtimeErr, ok := stderrors.AsType[*errors.RuntimeError](err)
	require.True(t, ok)
	require.Equal(t, 1, runtimeErr.ExitCode)
	require.Contains(t, runtimeErr.Stderr, "Critical Failure")
}

// TestCollectOutput_StderrCallback tests per-line stderr streaming.
func TestCollectOutput_StderrCallback(t *testing.T) {
	script := "#!/bin/sh\ncat >/dev/null\necho 'debug line one' >&2\necho 'debug line two' >&2\n"

	var lines []string

	transport := newTestTransport(t, script, "hi", config.FormatText, &config.Options{
		Stderr: func(line string) { lines = append(lines, line) },
	})

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	_, err := transport.CollectOutput(ctx)

	require.NoError(t, err)
	require.Equal(t, []string{"debug line one", "debug line two"}, lines)
}

// TestCollectOutput_LargePayloadNoDeadlock tests that concurrent input
// writing and output reading complete for payloads exceeding the OS pipe
// buffer in both directions.
func TestCollectOutput_LargePayloadNoDeadlock(t *testing.T) {
	// Echo stdin back to stdout: both pipes saturate unless the feeder and
	// the collector run concurrently.
	script := "#!/bin/sh\ncat\n"

	payload := strings.Repeat("0123456789abcdef", 256*1024) // 4MB
	inputFile := filepath.Join(t.TempDir(), "context.txt")
	require.NoError(t, os.WriteFile(inputFile, []byte(payload), 0o600))

	transport := newTestTransport(t, script, "hi", config.FormatText, &config.Options{
		InputFiles: []string{inputFile},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	out, err := transport.CollectOutput(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out), len(payload))
}

// TestFeedInput_FailureStaysSilent tests that an unreadable input file does
// not surface on the primary path: the feeder closes stdin early and the
// process result wins.
func TestFeedInput_FailureStaysSilent(t *testing.T) {
	script := "#!/bin/sh\ncat >/dev/null\necho ok\n"
	transport := newTestTransport(t, script, "hi", config.FormatText, &config.Options{
		InputData:  "some context",
		InputFiles: []string{"/nonexistent/context.txt"},
	})

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	out, err := transport.CollectOutput(ctx)

	require.NoError(t, err)
	require.Equal(t, "ok\n", string(out))
}

// TestFeedInput_OrderAndSeparators tests that inline context precedes file
// contents and each fragment gets a newline separator.
func TestFeedInput_OrderAndSeparators(t *testing.T) {
	// Echo stdin back so the test can observe exactly what was fed.
	script := "#!/bin/sh\ncat\n"

	fileA := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(fileA, []byte("file-a"), 0o600))

	fileB := filepath.Join(t.TempDir(), "b.txt")
	require.NoError(t, os.WriteFile(fileB, []byte("file-b"), 0o600))

	transport := newTestTransport(t, script, "hi", config.FormatText, &config.Options{
		InputData:  "inline",
		InputFiles: []string{fileA, fileB},
	})

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	out, err := transport.CollectOutput(ctx)

	require.NoError(t, err)
	require.Equal(t, "inline\nfile-a\nfile-b\n", string(out))
}

// TestReadEvents_OrderWithBlankLines tests that stream lines arrive in
// production order with blank lines skipped.
func TestReadEvents_OrderWithBlankLines(t *testing.T) {
	script := `#!/bin/sh
cat >/dev/null
echo '{"type":"init","session_id":"s1","model":"m","timestamp":"t0"}'
echo ''
echo '{"type":"message","role":"assistant","content":"hi","timestamp":"t1"}'
echo ''
echo '{"type":"result","status":"completed","stats":{},"timestamp":"t2"}'
`
	transport := newTestTransport(t, script, "hi", config.FormatStreamJSON, &config.Options{})

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	lines, errs := transport.ReadEvents(ctx)

	var collected []string
	for line := range lines {
		collected = append(collected, string(line))
	}

	require.NoError(t, <-errs)
	require.Len(t, collected, 3)
	require.Contains(t, collected[0], `"init"`)
	require.Contains(t, collected[1], `"message"`)
	require.Contains(t, collected[2], `"result"`)
}

// TestReadEvents_EarlyRelease tests that abandoning the stream releases the
// reader without hanging, while the process is left to finish naturally.
func TestReadEvents_EarlyRelease(t *testing.T) {
	script := `#!/bin/sh
cat >/dev/null
i=0
while [ $i -lt 200 ]; do
  echo '{"type":"message","role":"assistant","content":"chunk","timestamp":"t"}'
  i=$((i+1))
done
`
	transport := newTestTransport(t, script, "hi", config.FormatStreamJSON, &config.Options{})

	ctx := context.Background()
	require.NoError(t, transport.Start(ctx))

	go transport.FeedInput()

	lines, _ := transport.ReadEvents(ctx)

	// Consume one line, then walk away.
	first, ok := <-lines
	require.True(t, ok)
	require.Contains(t, string(first), "chunk")

	transport.ReleaseOutput()

	// The reader goroutine must close the channel promptly after release.
	deadline := time.After(10 * time.Second)

	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("lines channel not closed after ReleaseOutput")
		}
	}
}
