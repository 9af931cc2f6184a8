package chat

// EventType distinguishes the live updates pushed to a session's subscribers.
type EventType string

const (
	EventMessage EventType = "message"
	EventVoice   EventType = "voice"
)

// VoiceState reports the simulated microphone state of a session.
type VoiceState struct {
	Listening bool   `json:"listening"`
	Notice    string `json:"notice,omitempty"`
}

// Event is a live update for one session.
type Event struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"sessionId"`
	Message   *Message    `json:"message,omitempty"`
	Voice     *VoiceState `json:"voice,omitempty"`
}
