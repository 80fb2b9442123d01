package queue

import (
	"encoding/json"
	"fmt"

	"forumfront/internal/model"
)

// Stream names
const (
	StreamSession = "stream:session"
)

// StreamSessionMaxLen caps the session stream; readers only care about recent entries.
const StreamSessionMaxLen = 10000

// ToValues converts the event to field-value pairs for XADD.
// The event is serialized to JSON in a "data" field.
func ToValues(e model.SessionEvent) (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": string(e.Type),
		"data": string(data),
	}, nil
}

// ParseSessionEvent parses a SessionEvent from stream message values.
func ParseSessionEvent(values map[string]interface{}) (model.SessionEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return model.SessionEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event model.SessionEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return model.SessionEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	switch event.Type {
	case model.SessionSignedIn, model.SessionSignedOut:
	default:
		return model.SessionEvent{}, fmt.Errorf("unknown event type %q", event.Type)
	}
	return event, nil
}
