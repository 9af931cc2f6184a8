package clinic

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/model/appointment"
	"github.com/lumivian/receptionist/backend/internal/model/clinic"
	"github.com/lumivian/receptionist/backend/pkg/utils"
)

const defaultBookingLimit = 50

// BookingLister 提供预约簿的只读访问
type BookingLister interface {
	List(ctx context.Context, limit int) ([]appointment.Booking, error)
}

// Handler 诊所信息与预约簿的HTTP处理器
type Handler struct {
	info     clinic.Info
	bookings BookingLister
}

// New 创建诊所处理器; bookings 可以为 nil
func New(info clinic.Info, bookings BookingLister) *Handler {
	return &Handler{info: info, bookings: bookings}
}

// RegisterRoutes 注册诊所相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/clinic", h.handleClinicInfo)
	r.Get("/bookings", h.handleListBookings)
}

func (h *Handler) handleClinicInfo(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.info)
}

func (h *Handler) handleListBookings(w http.ResponseWriter, r *http.Request) {
	if h.bookings == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "appointment book unavailable")
		return
	}

	limit := defaultBookingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.bookings.List(r.Context(), limit)
	if err != nil {
		klog.ErrorS(err, "list bookings failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if items == nil {
		items = []appointment.Booking{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}
