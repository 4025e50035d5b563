package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SpecVersion is the CloudEvents version the envelope follows.
const SpecVersion = "1.0"

// Event is the envelope published to Kafka. Field names follow the
// CloudEvents JSON format so consumers outside this repo can decode it.
type Event struct {
	SpecVersion     string            `json:"specversion"`
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	Source          string            `json:"source"`
	Subject         string            `json:"subject,omitempty"`
	Time            time.Time         `json:"time"`
	DataContentType string            `json:"datacontenttype"`
	CorrelationID   string            `json:"correlationid,omitempty"`
	Data            json.RawMessage   `json:"data"`
	Extensions      map[string]string `json:"extensions,omitempty"`
}

// NewEvent creates a new event with a generated id and the current time.
// Subject is used as the Kafka message key.
func NewEvent(eventType, source, subject string, data any) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s data: %w", eventType, err)
	}

	return &Event{
		SpecVersion:     SpecVersion,
		ID:              uuid.New().String(),
		Type:            eventType,
		Source:          source,
		Subject:         subject,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            dataBytes,
	}, nil
}

// WithCorrelationID sets the correlation ID on the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithExtension adds a key-value pair to the event extensions.
func (e *Event) WithExtension(key, value string) *Event {
	if e.Extensions == nil {
		e.Extensions = make(map[string]string)
	}
	e.Extensions[key] = value
	return e
}

// Marshal serializes the event to JSON bytes.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalData deserializes the event data payload into the given target.
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
