package event

import "encoding/json"

// StreamEvent represents any event emitted on the gemini CLI's NDJSON stream.
// Use type assertion or type switch to determine the concrete type.
type StreamEvent interface {
	EventType() string
}

// Compile-time verification that all event types implement StreamEvent.
var (
	_ StreamEvent = (*InitEvent)(nil)
	_ StreamEvent = (*MessageEvent)(nil)
	_ StreamEvent = (*ToolUseEvent)(nil)
	_ StreamEvent = (*ToolResultEvent)(nil)
	_ StreamEvent = (*ResultEvent)(nil)
	_ StreamEvent = (*ErrorEvent)(nil)
)

// InitEvent carries initial session metadata.
type InitEvent struct {
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

// EventType implements StreamEvent.
func (e *InitEvent) EventType() string { return "init" }

// MessageEvent carries a chunk of text content or a full message.
// Delta is true for partial content that should be appended to the
// preceding chunks of the same message.
type MessageEvent struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Delta     *bool  `json:"delta,omitempty"`
	Timestamp string `json:"timestamp"`
}

// EventType implements StreamEvent.
func (e *MessageEvent) EventType() string { return "message" }

// IsDelta reports whether this event is a partial content chunk.
func (e *MessageEvent) IsDelta() bool {
	return e.Delta != nil && *e.Delta
}

// ToolUseEvent signals that the agent is invoking a tool.
type ToolUseEvent struct {
	ToolName   string          `json:"tool_name"`
	Parameters json.RawMessage `json:"parameters"`
	Timestamp  string          `json:"timestamp"`
}

// EventType implements StreamEvent.
func (e *ToolUseEvent) EventType() string { return "tool_use" }

// ToolResultEvent carries the result of a tool execution.
type ToolResultEvent struct {
	ToolID    string `json:"tool_id"`
	Status    string `json:"status"`
	Output    string `json:"output"`
	Timestamp string `json:"timestamp"`
}

// EventType implements StreamEvent.
func (e *ToolResultEvent) EventType() string { return "tool_result" }

// ResultEvent is the final completion event. Stats is an opaque payload whose
// shape varies across CLI versions; callers decode it as needed.
type ResultEvent struct {
	Status    string          `json:"status"`
	Stats     json.RawMessage `json:"stats"`
	Timestamp string          `json:"timestamp"`
}

// EventType implements StreamEvent.
func (e *ResultEvent) EventType() string { return "result" }

// ErrorEvent reports an error that occurred mid-stream.
type ErrorEvent struct {
	Message string `json:"message"`
}

// EventType implements StreamEvent.
func (e *ErrorEvent) EventType() string { return "error" }
