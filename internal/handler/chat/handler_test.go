package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lumivian/receptionist/backend/internal/model/chat"
	chatservice "github.com/lumivian/receptionist/backend/internal/service/chat"
)

func setupRouter() (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(chatservice.NewMemoryStore(), chatservice.Options{})
	handler := New(chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func createSession(t *testing.T, r http.Handler) SessionView {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var view SessionView
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return view
}

func sendMessage(r http.Handler, sessionID, content string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"content": content})
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func getSession(t *testing.T, r http.Handler, sessionID string) SessionView {
	t.Helper()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/session/"+sessionID, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var view SessionView
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return view
}

func TestCreateSessionReturnsGreeting(t *testing.T) {
	r, _ := setupRouter()
	view := createSession(t, r)

	if view.Session.ID == "" {
		t.Fatal("expected session id")
	}
	if len(view.Messages) != 1 || view.Messages[0].Role != chat.RoleAI {
		t.Fatalf("expected greeting message, got %+v", view.Messages)
	}
	if view.Step != 0 || view.StepName != "greeting" {
		t.Fatalf("unexpected step %d (%s)", view.Step, view.StepName)
	}
}

func TestSendMessageAdvancesScript(t *testing.T) {
	r, _ := setupRouter()
	view := createSession(t, r)

	resp := sendMessage(r, view.Session.ID, "ठीक है")
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	resp = sendMessage(r, view.Session.ID, "Ravi")
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	got := getSession(t, r, view.Session.ID)
	if got.Step != 2 {
		t.Fatalf("expected step 2, got %d", got.Step)
	}
	if got.Appointment.Name != "Ravi" {
		t.Fatalf("expected name Ravi, got %q", got.Appointment.Name)
	}
	if len(got.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(got.Messages))
	}
}

func TestSendBlankMessageIsIgnored(t *testing.T) {
	r, _ := setupRouter()
	view := createSession(t, r)

	resp := sendMessage(r, view.Session.ID, "   ")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	got := getSession(t, r, view.Session.ID)
	if len(got.Messages) != 1 || got.Step != 0 {
		t.Fatalf("expected untouched session, got %d messages step %d", len(got.Messages), got.Step)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	r, _ := setupRouter()
	if resp := sendMessage(r, "missing", "hello"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSendMessageInvalidBody(t *testing.T) {
	r, _ := setupRouter()
	view := createSession(t, r)

	req := httptest.NewRequest(http.MethodPost, "/session/"+view.Session.ID+"/messages", bytes.NewReader([]byte("{")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	r, _ := setupRouter()
	view := createSession(t, r)

	req := httptest.NewRequest(http.MethodDelete, "/session/"+view.Session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/session/"+view.Session.ID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}
