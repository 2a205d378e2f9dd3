package ws

import "encoding/json"

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "join-room"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// outEnvelope is the outbound counterpart; Body is kept even when
// zero-valued so clients always see a body field.
type outEnvelope struct {
	Event string `json:"event"`
	Body  any    `json:"body"`
}

// ──────────────────────────── Request DTOs ────────────────────────────

// JoinRoomRequest is the body for "join-room".
type JoinRoomRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// UserMessageRequest is the body for "user-message". User must match
// the session's bound username.
type UserMessageRequest struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// TypingRequest is the body for "typing" / "stop-typing". The user
// field is informational; the session binding is authoritative.
type TypingRequest struct {
	User string `json:"user"`
}

// EmptyBody for events that carry no payload.
type EmptyBody struct{}

// ErrorBody is pushed for failures.
type ErrorBody struct {
	Message string `json:"message"`
}
