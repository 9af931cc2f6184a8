package chat

import (
	"sync"

	"github.com/lumivian/receptionist/backend/internal/model/chat"
)

const subscriberBuffer = 32

// Hub fans live session events out to subscribers. Slow subscribers lose events instead of blocking.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan chat.Event]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan chat.Event]struct{})}
}

// Subscribe registers a listener for the session. The returned func unsubscribes and closes the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan chat.Event, func()) {
	ch := make(chan chat.Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan chat.Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[sessionID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, sessionID)
				}
			}
			close(ch)
		})
	}
}

// Publish delivers the event to every subscriber of its session.
func (h *Hub) Publish(evt chat.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[evt.SessionID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribers returns the number of listeners for the session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
