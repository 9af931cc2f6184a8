package chat

import (
	"time"

	"github.com/lumivian/receptionist/backend/internal/dialogue"
)

// Session captures a transient anonymous call with the receptionist.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is the unit kept by a store: the session, its transcript and the dialogue state.
type Conversation struct {
	Session   Session        `json:"session"`
	Messages  []Message      `json:"messages"`
	State     dialogue.State `json:"state"`
	Listening bool           `json:"listening"`
	Booked    bool           `json:"booked"`
}

// Clone returns a deep copy safe to hand out of a store.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Messages = append([]Message(nil), c.Messages...)
	return &out
}
