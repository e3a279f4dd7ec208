package subprocess

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/event"
)

// mockChunkReader delivers data in controlled chunks to simulate various
// pipe buffering scenarios.
type mockChunkReader struct {
	chunks [][]byte
	index  int
}

func newMockChunkReader(chunks ...string) *mockChunkReader {
	byteChunks := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		byteChunks[i] = []byte(chunk)
	}

	return &mockChunkReader{chunks: byteChunks}
}

func (r *mockChunkReader) Read(p []byte) (int, error) {
	if r.index >= len(r.chunks) {
		return 0, io.EOF
	}

	chunk := r.chunks[r.index]
	r.index++

	n := copy(p, chunk)

	return n, nil
}

// parseEventLines scans NDJSON from the reader the way ReadEvents does and
// decodes each non-blank line into a typed event.
func parseEventLines(t *testing.T, r io.Reader) []event.StreamEvent {
	t.Helper()

	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	var events []event.StreamEvent

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		evt, err := event.Parse(testLogger(), line)
		require.NoError(t, err)

		events = append(events, evt)
	}

	require.NoError(t, scanner.Err())

	return events
}

// TestMultipleEventsInSingleRead tests parsing when several events arrive in
// one read separated by newlines.
func TestMultipleEventsInSingleRead(t *testing.T) {
	data := `{"type":"init","session_id":"s1","model":"m","timestamp":"t0"}` + "\n" +
		`{"type":"result","status":"completed","stats":{},"timestamp":"t1"}` + "\n"

	events := parseEventLines(t, newMockChunkReader(data))

	require.Len(t, events, 2)
	require.IsType(t, &event.InitEvent{}, events[0])
	require.IsType(t, &event.ResultEvent{}, events[1])
}

// TestEventSplitAcrossReads tests that one event split over several reads is
// reassembled into a single line.
func TestEventSplitAcrossReads(t *testing.T) {
	full := `{"type":"message","role":"assistant","content":"split across reads","timestamp":"t1"}` + "\n"

	events := parseEventLines(t, newMockChunkReader(full[:10], full[10:25], full[25:]))

	require.Len(t, events, 1)

	msg, ok := events[0].(*event.MessageEvent)
	require.True(t, ok)
	require.Equal(t, "split across reads", msg.Content)
}

// TestEventWithEmbeddedNewlines tests events whose string values carry
// escaped newlines.
func TestEventWithEmbeddedNewlines(t *testing.T) {
	data := `{"type":"message","role":"assistant","content":"Line 1\nLine 2\nLine 3","timestamp":"t1"}` + "\n"

	events := parseEventLines(t, newMockChunkReader(data))

	require.Len(t, events, 1)

	msg := events[0].(*event.MessageEvent)
	require.Equal(t, "Line 1\nLine 2\nLine 3", msg.Content)
}

// TestMultipleBlankLinesBetweenEvents tests blank-line skipping, including
// lines of bare whitespace.
func TestMultipleBlankLinesBetweenEvents(t *testing.T) {
	data := `{"type":"init","session_id":"s1","model":"m","timestamp":"t0"}` + "\n\n  \n\n" +
		`{"type":"result","status":"completed","stats":{},"timestamp":"t1"}` + "\n"

	events := parseEventLines(t, newMockChunkReader(data))

	require.Len(t, events, 2)
	require.IsType(t, &event.InitEvent{}, events[0])
	require.IsType(t, &event.ResultEvent{}, events[1])
}
