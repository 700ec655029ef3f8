package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys shared by publishers and handlers.
const (
	KeyKind  = "kind"
	KeyError = "error"
)

// Event is something that happened to an editing session after the request
// that caused it returned.
type Event struct {
	ID            string         `json:"id"`
	Type          Type           `json:"type"`
	SessionID     string         `json:"session_id"`
	InvoiceNumber string         `json:"invoice_number,omitempty"`
	Payload       map[string]any `json:"payload"`
	Timestamp     time.Time      `json:"timestamp"`
}

// NewEvent creates an event with a fresh ID and the current time.
func NewEvent(eventType Type, sessionID, invoiceNumber string, payload map[string]any) *Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		SessionID:     sessionID,
		InvoiceNumber: invoiceNumber,
		Payload:       payload,
		Timestamp:     time.Now(),
	}
}

// WithPayload returns a copy of the event with key set. The receiver is not modified.
func (e *Event) WithPayload(key string, value any) *Event {
	payload := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value

	cp := *e
	cp.Payload = payload
	return &cp
}

// String returns the payload value for key, or "" when absent or not a string.
func (e *Event) String(key string) string {
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}
