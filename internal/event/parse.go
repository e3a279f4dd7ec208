package event

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/geminioxide/gemini-cli-sdk-go/internal/errors"
)

// envelope is the minimal shape decoded first to read the discriminant.
type envelope struct {
	Type string `json:"type"`
}

// Parse decodes one NDJSON line into a typed StreamEvent.
//
// The line must be a single JSON object tagged by a "type" field. A line that
// is not valid JSON, lacks the tag, or carries an unrecognized tag yields a
// JSONDecodeError preserving the raw line. Unknown tags are decode failures
// rather than skipped events: silently dropping them would hide contract
// drift between the SDK and the CLI.
func Parse(log *slog.Logger, line []byte) (StreamEvent, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		log.Debug("Failed to unmarshal stream event", "error", err, "line", string(line))

		return nil, &errors.JSONDecodeError{RawData: string(line), Err: err}
	}

	if env.Type == "" {
		log.Debug("Stream event missing 'type' field", "line", string(line))

		return nil, &errors.JSONDecodeError{
			RawData: string(line),
			Err:     fmt.Errorf("missing or empty 'type' field"),
		}
	}

	log.Debug("Parsing stream event", "event_type", env.Type)

	var evt StreamEvent

	switch env.Type {
	case "init":
		evt = &InitEvent{}
	case "message":
		evt = &MessageEvent{}
	case "tool_use":
		evt = &ToolUseEvent{}
	case "tool_result":
		evt = &ToolResultEvent{}
	case "result":
		evt = &ResultEvent{}
	case "error":
		evt = &ErrorEvent{}
	default:
		log.Debug("Unknown stream event type", "event_type", env.Type)

		return nil, &errors.JSONDecodeError{
			RawData: string(line),
			Err:     fmt.Errorf("unknown event type %q", env.Type),
		}
	}

	if err := json.Unmarshal(line, evt); err != nil {
		return nil, &errors.JSONDecodeError{RawData: string(line), Err: err}
	}

	return evt, nil
}
