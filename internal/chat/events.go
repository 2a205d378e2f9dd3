package chat

// Outbound event names pushed to connections.
const (
	EventChatHistory = "chat-history"
	EventActiveUsers = "active-users"
	EventMessage     = "message"
	EventUserCount   = "user-count"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
)
