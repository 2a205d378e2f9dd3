package chat

import "time"

const SystemAuthor = "System"

const (
	KindMessage = "message"
	KindJoin    = "join"
	KindLeave   = "leave"
)

// Message is immutable once created; IDs are unique and monotonic
// within the process.
type Message struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Conn is the hub's view of one transport connection. Push must never
// block; implementations hand the payload to a buffered writer and drop
// it when the peer cannot keep up.
type Conn interface {
	ID() string
	Push(event string, body any)
}
