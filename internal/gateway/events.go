package gateway

import (
	"bytes"
	"encoding/json"
)

// Event names carried in the envelope, inbound and outbound.
const (
	EventJoinDocument   = "join-document"
	EventDocumentChange = "document-change"
	EventCursorPosition = "cursor-position"

	EventDocumentLoaded = "document-loaded"
	EventUsersUpdate    = "users-update"
	EventDocumentUpdate = "document-update"
	EventCursorUpdate   = "cursor-update"
)

// Envelope frames every WebSocket message: {"event": "...", "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// payload holds the fields of an inbound event. Fields are kept raw so a
// value of the wrong JSON type degrades to a default instead of failing the
// whole event.
type payload struct {
	DocumentID json.RawMessage `json:"documentId"`
	User       json.RawMessage `json:"user"`
	Content    json.RawMessage `json:"content"`
	Position   json.RawMessage `json:"position"`
}

// decodePayload never fails: data that is not a JSON object yields an empty
// payload.
func decodePayload(data json.RawMessage) payload {
	var p payload
	if len(data) > 0 {
		_ = json.Unmarshal(data, &p)
	}
	return p
}

func (p payload) documentID() string { return rawText(p.DocumentID) }

// content returns the string value, or the raw JSON text for any other type.
func (p payload) content() string { return rawText(p.Content) }

// user returns the fields of an object user descriptor. Any other value
// contributes no fields.
func (p payload) user() map[string]interface{} {
	var u map[string]interface{}
	if err := json.Unmarshal(p.User, &u); err != nil {
		return nil
	}
	return u
}

// rawText unquotes JSON strings and returns other values as their JSON text.
// Missing and null values give "".
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// DocumentUpdate is sent to the other members of a room after an edit.
type DocumentUpdate struct {
	Content string          `json:"content"`
	User    json.RawMessage `json:"user"`
}

// CursorUpdate relays a cursor position to the other members of a room.
type CursorUpdate struct {
	Position json.RawMessage `json:"position"`
	User     json.RawMessage `json:"user"`
}

func encode(event string, data interface{}) ([]byte, error) {
	return json.Marshal(outbound{Event: event, Data: data})
}
