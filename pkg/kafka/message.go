package kafka

import (
	"encoding/json"
	"time"
)

// PeopleEvent is the wire payload published for people lifecycle changes.
type PeopleEvent struct {
	// EventID uniquely identifies this emission for consumer dedup.
	EventID string `json:"event_id"`
	// EventType is one of the people.* event names (see pkg/events).
	EventType string `json:"event_type"`
	PeopleID  int64  `json:"people_id"`
	// Fields carries the effective field map of the operation that produced
	// the event. Nil for delete/restore notifications.
	Fields    map[string]any `json:"fields,omitempty"`
	Type      string         `json:"type,omitempty"`
	Hard      bool           `json:"hard,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	TraceID   string         `json:"trace_id,omitempty"`
	SpanID    string         `json:"span_id,omitempty"`
}

// ToJSON serializes the event for publishing.
func (e *PeopleEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MessageHeaders are attached to every published Kafka message.
type MessageHeaders struct {
	EventType   string
	TraceParent string
}

type Header struct {
	Key   string
	Value []byte
}

func (h MessageHeaders) ToKafkaHeaders() []Header {
	headers := []Header{
		{Key: "event_type", Value: []byte(h.EventType)},
	}
	if h.TraceParent != "" {
		headers = append(headers, Header{Key: "traceparent", Value: []byte(h.TraceParent)})
	}
	return headers
}
