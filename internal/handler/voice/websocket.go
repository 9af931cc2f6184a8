package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/model/chat"
	chatservice "github.com/lumivian/receptionist/backend/internal/service/chat"
	voiceservice "github.com/lumivian/receptionist/backend/internal/service/voice"
	"github.com/lumivian/receptionist/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Handler WebSocket及麦克风切换处理器
type Handler struct {
	chatSvc  *chatservice.Service
	voiceSvc *voiceservice.Simulator
	upgrader websocket.Upgrader
}

// New 创建语音处理器
func New(chatSvc *chatservice.Service, voiceSvc *voiceservice.Simulator) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		voiceSvc: voiceSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册语音相关路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session/{sessionID}/voice", h.handleToggle)
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	listening, err := h.voiceSvc.Toggle(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, chatservice.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, chatservice.ErrSessionRequired):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			klog.ErrorS(err, "voice toggle failed", "session", sessionID)
			utils.RespondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	utils.RespondJSON(w, http.StatusOK, chat.VoiceState{Listening: listening})
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn 串行化写操作，gorilla连接只允许一个并发写者
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) writePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conv, err := h.chatSvc.GetConversation(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		klog.ErrorS(err, "websocket upgrade failed", "session", sessionID)
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	klog.V(2).InfoS("websocket connected", "session", sessionID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := h.chatSvc.Subscribe(sessionID)
	defer unsubscribe()

	raw.SetReadDeadline(time.Now().Add(readTimeout))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)
	go h.forwardEvents(ctx, conn, events)

	h.send(conn, "connected", sessionID, map[string]any{
		"step":      conv.State.Step.String(),
		"listening": conv.Listening,
	})

	for {
		var msg inboundMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				klog.V(2).InfoS("websocket read error", "session", sessionID, "err", err)
			}
			return
		}

		raw.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(conn, sessionID, "session mismatch")
			continue
		}

		h.handleMessage(ctx, conn, sessionID, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *wsConn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		var text TextMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			h.sendError(conn, sessionID, "invalid text payload")
			return
		}
		if _, err := h.chatSvc.Submit(ctx, sessionID, text.Text); err != nil {
			h.sendError(conn, sessionID, err.Error())
		}
	case "voice":
		if _, err := h.voiceSvc.Toggle(ctx, sessionID); err != nil {
			h.sendError(conn, sessionID, err.Error())
		}
	default:
		h.sendError(conn, sessionID, "unsupported message type: "+msg.Type)
	}
}

// forwardEvents 转发会话事件，直到订阅关闭或连接结束
func (h *Handler) forwardEvents(ctx context.Context, conn *wsConn, events <-chan chat.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			var data interface{} = evt.Message
			if evt.Type == chat.EventVoice {
				data = evt.Voice
			}
			h.send(conn, string(evt.Type), evt.SessionID, data)
		}
	}
}

func (h *Handler) send(conn *wsConn, msgType, sessionID string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.writeJSON(msg); err != nil {
		klog.V(2).InfoS("websocket write failed", "session", sessionID, "type", msgType, "err", err)
	}
}

func (h *Handler) sendError(conn *wsConn, sessionID, message string) {
	h.send(conn, "error", sessionID, map[string]string{"message": message})
}

func (h *Handler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.writePing(); err != nil {
				return
			}
		}
	}
}
