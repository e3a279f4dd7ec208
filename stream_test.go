package geminisdk

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeStreamScript writes a fake gemini binary emitting the given stdout
// verbatim and returns stream-mode options for it.
func streamOpts(t *testing.T, script string) []Option {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Mock CLI scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "gemini")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return []Option{WithBinPath(path), WithSkipVersionCheck()}
}

// TestStream_Contract tests that a well-formed session yields init first and
// result last, in production order, with interleaved blank lines skipped.
func TestStream_Contract(t *testing.T) {
	script := `#!/bin/sh
cat >/dev/null
echo '{"type":"init","session_id":"sess-1","model":"gemini-2.5-pro","timestamp":"t0"}'
echo ''
echo '{"type":"message","role":"assistant","content":"Once","delta":true,"timestamp":"t1"}'
echo '{"type":"message","role":"assistant","content":" upon a time","delta":true,"timestamp":"t2"}'
echo ''
echo '{"type":"result","status":"completed","stats":{"totalTokens":42},"timestamp":"t3"}'
`

	var events []StreamEvent

	for evt, err := range Stream(context.Background(), "test prompt", streamOpts(t, script)...) {
		require.NoError(t, err)

		events = append(events, evt)
	}

	require.Len(t, events, 4)

	init, ok := events[0].(*InitEvent)
	require.True(t, ok)
	require.Equal(t, "sess-1", init.SessionID)
	require.Equal(t, "gemini-2.5-pro", init.Model)

	first, ok := events[1].(*MessageEvent)
	require.True(t, ok)
	require.Equal(t, "Once", first.Content)
	require.True(t, first.IsDelta())

	second := events[2].(*MessageEvent)
	require.Equal(t, " upon a time", second.Content)

	result, ok := events[3].(*ResultEvent)
	require.True(t, ok)
	require.Equal(t, "completed", result.Status)
}

// TestStream_ToolEvents tests tool_use and tool_result decoding end to end.
func TestStream_ToolEvents(t *testing.T) {
	script := `#!/bin/sh
cat >/dev/null
echo '{"type":"tool_use","tool_name":"run_shell","parameters":{"cmd":"ls"},"timestamp":"t1"}'
echo '{"type":"tool_result","tool_id":"tool-9","status":"success","output":"main.go","timestamp":"t2"}'
`

	var events []StreamEvent

	for evt, err := range Stream(context.Background(), "list files", streamOpts(t, script)...) {
		require.NoError(t, err)

		events = append(events, evt)
	}

	require.Len(t, events, 2)

	use := events[0].(*ToolUseEvent)
	require.Equal(t, "run_shell", use.ToolName)

	result := events[1].(*ToolResultEvent)
	require.Equal(t, "tool-9", result.ToolID)
	require.Equal(t, "main.go", result.Output)
}

// TestStream_MalformedLineTerminates tests that one undecodable line ends
// the sequence with a decode error; no resynchronization is attempted.
func TestStream_MalformedLineTerminates(t *testing.T) {
	script := `#!/bin/sh
cat >/dev/null
echo '{"type":"init","session_id":"s","model":"m","timestamp":"t0"}'
echo 'this line is not json'
echo '{"type":"result","status":"completed","stats":{},"timestamp":"t1"}'
`

	var (
		events   []StreamEvent
		finalErr error
	)

	for evt, err := range Stream(context.Background(), "test", streamOpts(t, script)...) {
		if err != nil {
			finalErr = err

			break
		}

		events = append(events, evt)
	}

	require.Len(t, events, 1)
	require.IsType(t, &InitEvent{}, events[0])

	require.Error(t, finalErr)

	decodeErr, ok := stderrors.AsType[*JSONDecodeError](finalErr)
	require.True(t, ok)
	require.Contains(t, decodeErr.RawData, "not json")
}

// TestStream_UnknownEventTypeIsDecodeFailure tests that an unrecognized
// discriminant terminates the sequence rather than being dropped.
func TestStream_UnknownEventTypeIsDecodeFailure(t *testing.T) {
	script := `#!/bin/sh
cat >/dev/null
echo '{"type":"telemetry","payload":{}}'
`

	var finalErr error

	for _, err := range Stream(context.Background(), "test", streamOpts(t, script)...) {
		if err != nil {
			finalErr = err

			break
		}
	}

	require.Error(t, finalErr)

	_, ok := stderrors.AsType[*JSONDecodeError](finalErr)
	require.True(t, ok)
}

// TestStream_EarlyBreakReleasesPromptly tests that abandoning the sequence
// mid-stream returns without waiting for the remaining events.
func TestStream_EarlyBreakReleasesPromptly(t *testing.T) {
	script := `#!/bin/sh
cat >/dev/null
i=0
while [ $i -lt 500 ]; do
  echo '{"type":"message","role":"assistant","content":"chunk","timestamp":"t"}'
  i=$((i+1))
done
`

	done := make(chan struct{})

	go func() {
		defer close(done)

		for evt, err := range Stream(context.Background(), "test", streamOpts(t, script)...) {
			require.NoError(t, err)
			require.NotNil(t, evt)

			break
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("early break did not release the stream")
	}
}

// TestStream_LaunchFailure tests that spawn failure is yielded as the only
// sequence item.
func TestStream_LaunchFailure(t *testing.T) {
	var (
		count    int
		finalErr error
	)

	for _, err := range Stream(context.Background(), "hi",
		WithBinPath("/nonexistent/path/to/gemini"),
		WithSkipVersionCheck(),
	) {
		count++
		finalErr = err
	}

	require.Equal(t, 1, count)
	require.Error(t, finalErr)

	_, ok := stderrors.AsType[*LaunchError](finalErr)
	require.True(t, ok)
}
