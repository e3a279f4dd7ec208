// Package event defines the typed events of the gemini CLI's NDJSON stream
// and the parser that decodes one stream line into a typed event.
//
// The stream is a closed tagged union keyed by a "type" field with values
// init, message, tool_use, tool_result, result, and error. An unrecognized
// tag is treated as a decode failure, not silently dropped.
package event
