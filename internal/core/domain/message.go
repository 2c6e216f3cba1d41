package domain

import "time"

// Chat roles as expected by the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message sent to or received from the
// completion API, and the unit stored in the session transcript.
type Message struct {
	// ID is a unique identifier, assigned when the message is persisted.
	ID string

	// SessionID groups messages belonging to one chat session.
	// Empty for messages that only exist inside an API request.
	SessionID string

	// Role is one of RoleSystem, RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}
