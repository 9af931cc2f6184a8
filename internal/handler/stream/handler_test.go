package stream

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/lumivian/receptionist/backend/internal/service/chat"
)

func newServer(chatSvc *chatservice.Service) *httptest.Server {
	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	return httptest.NewServer(r)
}

func TestEventsUnknownSession(t *testing.T) {
	chatSvc := chatservice.NewService(nil, chatservice.Options{})
	srv := newServer(chatSvc)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/session/missing/events")
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestEventsStreamsMessages(t *testing.T) {
	chatSvc := chatservice.NewService(nil, chatservice.Options{})
	srv := newServer(chatSvc)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conv, err := chatSvc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/session/"+conv.Session.ID+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	waitFor := func(prefix string) string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read stream: %v", err)
			}
			if strings.HasPrefix(line, prefix) {
				return line
			}
		}
	}

	waitFor("event: status")

	if _, err := chatSvc.Submit(ctx, conv.Session.ID, "ठीक है"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	waitFor("event: message")
	data := waitFor("data: ")
	if !strings.Contains(data, `"role":"user"`) {
		t.Fatalf("expected user message first, got %s", data)
	}

	waitFor("event: message")
	data = waitFor("data: ")
	if !strings.Contains(data, `"role":"ai"`) {
		t.Fatalf("expected ai reply, got %s", data)
	}
}
