package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/lumivian/receptionist/backend/internal/handler/chat"
	clinicHandler "github.com/lumivian/receptionist/backend/internal/handler/clinic"
	"github.com/lumivian/receptionist/backend/internal/handler/stream"
	voiceHandler "github.com/lumivian/receptionist/backend/internal/handler/voice"
	"github.com/lumivian/receptionist/backend/internal/handler/web"
	"github.com/lumivian/receptionist/backend/internal/metrics"
	middlewarePkg "github.com/lumivian/receptionist/backend/internal/middleware"
	chatService "github.com/lumivian/receptionist/backend/internal/service/chat"
	voiceService "github.com/lumivian/receptionist/backend/internal/service/voice"
	"github.com/lumivian/receptionist/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. bookings, rec and limiter may be nil.
func NewRouter(chatSvc *chatService.Service, voiceSvc *voiceService.Simulator, bookings clinicHandler.BookingLister, rec *metrics.Recorder, limiter *middlewarePkg.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	web.New(chatSvc.Clinic()).RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", rec.Handler())

	r.Route("/api", func(api chi.Router) {
		if limiter != nil {
			api.Use(limiter.Middleware)
		}

		clinicHandler.New(chatSvc.Clinic(), bookings).RegisterRoutes(api)
		chatHandler.New(chatSvc).RegisterRoutes(api)
		stream.New(chatSvc).RegisterRoutes(api)
		voiceHandler.New(chatSvc, voiceSvc).RegisterRoutes(api)
	})

	return r
}
