package chat

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumivian/receptionist/backend/internal/dialogue"
	"github.com/lumivian/receptionist/backend/internal/model/chat"
)

func sampleConversation(id string) *chat.Conversation {
	return &chat.Conversation{
		Session:  chat.Session{ID: id, CreatedAt: time.Now().UTC().Truncate(time.Second)},
		Messages: []chat.Message{{ID: "m1", SessionID: id, Role: chat.RoleAI, Content: "नमस्ते"}},
		State:    dialogue.State{Step: dialogue.CollectAge},
	}
}

func TestMemoryStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	conv := sampleConversation("s1")

	require.NoError(t, store.Save(ctx, conv))
	conv.Messages[0].Content = "changed"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", loaded.Messages[0].Content)

	loaded.Messages = append(loaded.Messages, chat.Message{ID: "m2"})
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.Messages, 1)
}

func TestMemoryStoreRejectsMissingID(t *testing.T) {
	store := NewMemoryStore()
	assert.ErrorIs(t, store.Save(context.Background(), &chat.Conversation{}), ErrSessionRequired)
	assert.ErrorIs(t, store.Save(context.Background(), nil), ErrSessionRequired)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisOptions{Addr: addr, TTL: time.Minute})
	require.NoError(t, err)
	defer store.Close()

	conv := sampleConversation("redis-test-session")
	require.NoError(t, store.Save(ctx, conv))

	loaded, err := store.Load(ctx, conv.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.State, loaded.State)
	assert.Equal(t, conv.Messages[0].Content, loaded.Messages[0].Content)

	require.NoError(t, store.Delete(ctx, conv.Session.ID))
	_, err = store.Load(ctx, conv.Session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
