package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatHandler "github.com/lumivian/receptionist/backend/internal/handler/chat"
	"github.com/lumivian/receptionist/backend/internal/metrics"
	middlewarePkg "github.com/lumivian/receptionist/backend/internal/middleware"
	chatService "github.com/lumivian/receptionist/backend/internal/service/chat"
	voiceService "github.com/lumivian/receptionist/backend/internal/service/voice"
)

func newTestRouter(t *testing.T, limiter *middlewarePkg.RateLimiter) http.Handler {
	t.Helper()
	rec := metrics.New()
	chatSvc := chatService.NewService(nil, chatService.Options{Metrics: rec})
	voiceSvc := voiceService.NewSimulator(chatSvc, 0, rec)
	t.Cleanup(voiceSvc.Close)
	return NewRouter(chatSvc, voiceSvc, nil, rec, limiter)
}

func do(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRouterFullConversation(t *testing.T) {
	r := newTestRouter(t, nil)

	resp := do(r, http.MethodPost, "/api/session", nil)
	require.Equal(t, http.StatusCreated, resp.Code)
	var view chatHandler.SessionView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))

	for _, text := range []string{"ठीक है", "Ravi", "34", "दर्द", "कल सुबह 10 बजे"} {
		payload, _ := json.Marshal(map[string]string{"content": text})
		resp = do(r, http.MethodPost, "/api/session/"+view.Session.ID+"/messages", payload)
		require.Equal(t, http.StatusAccepted, resp.Code, text)
	}

	resp = do(r, http.MethodGet, "/api/session/"+view.Session.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	assert.Equal(t, 5, view.Step)
	assert.Equal(t, "closing", view.StepName)
	assert.Equal(t, "कल सुबह 10 बजे", view.Appointment.PreferredTime)

	metricsResp := do(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, metricsResp.Code)
	assert.True(t, strings.Contains(metricsResp.Body.String(), `receptionist_step_transitions_total{step="closing"} 1`))
}

func TestRouterServesPageAndHealth(t *testing.T) {
	r := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/clinic", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/bookings", nil).Code)
}

func TestRouterAppliesRateLimit(t *testing.T) {
	limiter := middlewarePkg.NewRateLimiter(nil, middlewarePkg.RateLimiterOptions{Limit: 0.001, Burst: 1})
	r := newTestRouter(t, limiter)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/clinic", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/api/clinic", nil).Code)
	// the page is outside /api
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/", nil).Code)
}
