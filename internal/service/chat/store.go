package chat

import (
	"context"
	"sync"

	"github.com/lumivian/receptionist/backend/internal/model/chat"
)

// Store persists conversations between turns.
type Store interface {
	Save(ctx context.Context, conv *chat.Conversation) error
	Load(ctx context.Context, sessionID string) (*chat.Conversation, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore implements Store with an in-process map, suitable for a single instance.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*chat.Conversation
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*chat.Conversation)}
}

// Save stores a copy of the conversation.
func (s *MemoryStore) Save(_ context.Context, conv *chat.Conversation) error {
	if conv == nil || conv.Session.ID == "" {
		return ErrSessionRequired
	}

	s.mu.Lock()
	s.items[conv.Session.ID] = conv.Clone()
	s.mu.Unlock()
	return nil
}

// Load returns a copy of the stored conversation.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (*chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.items[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return conv.Clone(), nil
}

// Delete removes the conversation.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.items, sessionID)
	return nil
}
