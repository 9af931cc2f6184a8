package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/model/appointment"
	"github.com/lumivian/receptionist/backend/internal/model/chat"
	chatService "github.com/lumivian/receptionist/backend/internal/service/chat"
	"github.com/lumivian/receptionist/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// SessionView 聊天页面渲染所用的会话快照
type SessionView struct {
	Session     chat.Session     `json:"session"`
	Messages    []chat.Message   `json:"messages"`
	Step        int              `json:"step"`
	StepName    string           `json:"stepName"`
	Appointment appointment.Data `json:"appointment"`
	Listening   bool             `json:"listening"`
}

// NewSessionView 将会话展开为JSON视图
func NewSessionView(conv *chat.Conversation) SessionView {
	messages := conv.Messages
	if messages == nil {
		messages = []chat.Message{}
	}
	return SessionView{
		Session:     conv.Session,
		Messages:    messages,
		Step:        int(conv.State.Step),
		StepName:    conv.State.Step.String(),
		Appointment: conv.State.Appointment,
		Listening:   conv.Listening,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Delete("/session/{sessionID}", h.handleDeleteSession)
	r.Post("/session/{sessionID}/messages", h.handleSendMessage)
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	conv, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		klog.ErrorS(err, "create session failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, NewSessionView(conv))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	conv, err := h.chatSvc.GetConversation(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, NewSessionView(conv))
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSendMessage 发送来电者消息; 空白消息被静默忽略
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}

	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.chatSvc.Submit(r.Context(), chi.URLParam(r, "sessionID"), payload.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if msg == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, msg)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrSessionRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		klog.ErrorS(err, "chat request failed")
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
