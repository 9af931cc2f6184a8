package chat

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleAI   Role = "ai"
	RoleUser Role = "user"
)

// Message is one immutable entry of a session transcript.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Tone      string    `json:"tone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
