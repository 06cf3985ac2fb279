// Package hub fans coaching events out to websocket subscribers using a
// channel-based broadcast loop.
package hub

import "encoding/json"

// Envelope is the typed frame pushed to subscribers.
type Envelope struct {
	// Type is the event kind: "rep", "session", or "status".
	Type string `json:"type"`

	// Session scopes the event to one coaching session.
	Session string `json:"session,omitempty"`

	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope wraps a payload, encoding it as JSON.
func NewEnvelope(kind, session string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: kind, Session: session, Payload: data}, nil
}
