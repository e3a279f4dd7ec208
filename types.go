package geminisdk

import (
	"github.com/geminioxide/gemini-cli-sdk-go/internal/config"
	"github.com/geminioxide/gemini-cli-sdk-go/internal/event"
)

// GeminiOptions is the configuration snapshot for a single request.
// It is normally filled through functional options rather than directly.
type GeminiOptions = config.Options

// ===== Buffered JSON response =====

// Response is the structured result of a JSON-mode request.
type Response struct {
	// Response is the primary text response from the model.
	Response string `json:"response"`

	// Stats holds usage statistics when the CLI reports them.
	Stats *Stats `json:"stats,omitempty"`

	// Error holds error details if the API returned a structured error.
	// A populated Error causes the request to fail with an APIError even
	// when the process exits 0.
	Error *ErrorDetail `json:"error,omitempty"`
}

// Stats aggregates usage statistics for one session.
type Stats struct {
	// Models holds per-model statistics keyed by model name.
	Models map[string]ModelStats `json:"models"`

	// Tools summarizes tool execution.
	Tools ToolStats `json:"tools"`

	// Files summarizes file modifications.
	Files FileStats `json:"files"`
}

// ModelStats holds statistics for a single model interaction.
type ModelStats struct {
	// API holds performance metrics such as latency and request counts.
	API map[string]any `json:"api"`

	// Tokens holds token usage counts (prompt, candidates, total).
	Tokens map[string]uint64 `json:"tokens"`
}

// ToolStats summarizes tool usage during the session.
type ToolStats struct {
	TotalCalls   uint64 `json:"totalCalls"`
	TotalSuccess uint64 `json:"totalSuccess"`
	TotalFail    uint64 `json:"totalFail"`
}

// FileStats summarizes file changes made by the agent.
type FileStats struct {
	TotalLinesAdded   uint64 `json:"totalLinesAdded"`
	TotalLinesRemoved uint64 `json:"totalLinesRemoved"`
}

// ErrorDetail describes an error embedded in a structured response.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    *int   `json:"code,omitempty"`
}

// ===== Streaming events =====

// StreamEvent represents any event on the NDJSON stream.
// Use a type switch over the concrete event types below.
type StreamEvent = event.StreamEvent

// InitEvent carries initial session metadata.
type InitEvent = event.InitEvent

// MessageEvent carries a chunk of text content or a full message.
type MessageEvent = event.MessageEvent

// ToolUseEvent signals that the agent is invoking a tool.
type ToolUseEvent = event.ToolUseEvent

// ToolResultEvent carries the result of a tool execution.
type ToolResultEvent = event.ToolResultEvent

// ResultEvent is the final completion event of a stream.
type ResultEvent = event.ResultEvent

// ErrorEvent reports an error that occurred mid-stream.
type ErrorEvent = event.ErrorEvent
