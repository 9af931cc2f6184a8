package chat

import (
	"testing"

	"github.com/lumivian/receptionist/backend/internal/model/chat"
)

func TestHubDeliversToSessionSubscribersOnly(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe("a")
	defer cancelA()
	b, cancelB := hub.Subscribe("b")
	defer cancelB()

	hub.Publish(chat.Event{Type: chat.EventMessage, SessionID: "a"})

	select {
	case <-a:
	default:
		t.Fatal("expected event for subscriber a")
	}
	select {
	case evt := <-b:
		t.Fatalf("unexpected event for subscriber b: %+v", evt)
	default:
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("a")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(chat.Event{SessionID: "a"})
	}
	if len(ch) != subscriberBuffer {
		t.Fatalf("expected full buffer of %d, got %d", subscriberBuffer, len(ch))
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("a")
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	if hub.Subscribers("a") != 0 {
		t.Fatal("expected no subscribers")
	}
}
