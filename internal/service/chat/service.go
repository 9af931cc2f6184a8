package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/analysis/faq"
	"github.com/lumivian/receptionist/backend/internal/analysis/tone"
	"github.com/lumivian/receptionist/backend/internal/dialogue"
	"github.com/lumivian/receptionist/backend/internal/metrics"
	"github.com/lumivian/receptionist/backend/internal/model/appointment"
	"github.com/lumivian/receptionist/backend/internal/model/chat"
	"github.com/lumivian/receptionist/backend/internal/model/clinic"
)

var (
	ErrSessionRequired = errors.New("session id is required")
	ErrSessionNotFound = errors.New("session not found")
)

// BookingRecorder receives the appointment once the intake script is complete.
type BookingRecorder interface {
	Record(ctx context.Context, sessionID string, data appointment.Data) error
}

// Options tunes a Service.
type Options struct {
	Clinic     clinic.Info
	ReplyDelay time.Duration
	Bookings   BookingRecorder
	Metrics    *metrics.Recorder
}

// Service encapsulates conversation state management for the receptionist.
type Service struct {
	mu         sync.Mutex
	store      Store
	hub        *Hub
	clinic     clinic.Info
	replyDelay time.Duration
	bookings   BookingRecorder
	metrics    *metrics.Recorder

	// queued caller turns per session, answered strictly in submission order
	queues    map[string][]pendingTurn
	timers    map[uint64]*time.Timer
	nextTimer uint64
	pending   sync.WaitGroup
	closed    bool
}

type pendingTurn struct {
	content   string
	submitted time.Time
}

// NewService wires a Service over the given store.
func NewService(store Store, opts Options) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if opts.Clinic.Name == "" {
		opts.Clinic = clinic.Seed()
	}
	return &Service{
		store:      store,
		hub:        NewHub(),
		clinic:     opts.Clinic,
		replyDelay: opts.ReplyDelay,
		bookings:   opts.Bookings,
		metrics:    opts.Metrics,
		queues:     make(map[string][]pendingTurn),
		timers:     make(map[uint64]*time.Timer),
	}
}

// Clinic returns the clinic profile the receptionist quotes.
func (s *Service) Clinic() clinic.Info {
	return s.clinic
}

// CreateSession starts a call; the transcript opens with the receptionist's greeting.
func (s *Service) CreateSession(ctx context.Context) (*chat.Conversation, error) {
	now := time.Now().UTC()
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}

	conv := &chat.Conversation{
		Session:  session,
		Messages: make([]chat.Message, 0, 16),
		State:    dialogue.State{Step: dialogue.Greeting},
	}
	greeting := s.newMessage(session.ID, chat.RoleAI, dialogue.Greet(s.clinic))
	greeting.Tone = string(tone.Analyze("", greeting.Content).Tone)
	conv.Messages = append(conv.Messages, greeting)

	s.mu.Lock()
	err := s.store.Save(ctx, conv)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.SessionCreated()
	s.metrics.MessageAppended(string(chat.RoleAI))
	klog.V(2).InfoS("session created", "session", session.ID)
	return conv, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(ctx context.Context, sessionID string) (chat.Session, error) {
	conv, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return conv.Session, nil
}

// GetConversation returns a snapshot of the whole conversation.
func (s *Service) GetConversation(ctx context.Context, sessionID string) (*chat.Conversation, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx, sessionID)
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	conv, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// DeleteSession drops the conversation; this is the only way messages are destroyed.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	delete(s.queues, sessionID)
	klog.V(2).InfoS("session deleted", "session", sessionID)
	return nil
}

// Submit appends the caller's message and schedules the receptionist's reply.
// Blank input is ignored: it returns a nil message and leaves the conversation untouched.
func (s *Service) Submit(ctx context.Context, sessionID, content string) (*chat.Message, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	if strings.TrimSpace(content) == "" {
		s.mu.Lock()
		_, err := s.store.Load(ctx, sessionID)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		s.metrics.InputIgnored()
		return nil, nil
	}

	s.mu.Lock()
	conv, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	msg := s.newMessage(sessionID, chat.RoleUser, content)
	conv.Messages = append(conv.Messages, msg)
	if err := s.store.Save(ctx, conv); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save user message: %w", err)
	}
	s.queues[sessionID] = append(s.queues[sessionID], pendingTurn{content: content, submitted: time.Now()})
	// published under s.mu so subscribers see messages in transcript order
	s.hub.Publish(chat.Event{Type: chat.EventMessage, SessionID: sessionID, Message: &msg})
	s.mu.Unlock()

	s.metrics.MessageAppended(string(chat.RoleUser))

	// Each timer answers the oldest queued turn, not necessarily its own:
	// timers with equal deadlines may fire in any order.
	reply := func() {
		if err := s.reply(context.Background(), sessionID); err != nil {
			klog.ErrorS(err, "reply failed", "session", sessionID)
		}
	}

	if s.replyDelay <= 0 {
		reply()
	} else {
		s.schedule(reply)
	}

	return &msg, nil
}

// reply answers the session's oldest queued turn against the state current at the time it fires.
func (s *Service) reply(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	turn, ok := s.dequeue(sessionID)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	content, submitted := turn.content, turn.submitted

	conv, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("load conversation: %w", err)
	}

	prev := conv.State
	res := dialogue.Respond(s.clinic, prev, content)
	if res.Ignored {
		s.mu.Unlock()
		return nil
	}

	msg := s.newMessage(sessionID, chat.RoleAI, res.Reply)
	msg.Tone = string(tone.Analyze(content, res.Reply).Tone)

	conv.State = res.State
	conv.Messages = append(conv.Messages, msg)

	book := res.State.Step == dialogue.Closing && !conv.Booked
	if book {
		conv.Booked = true
	}

	if err := s.store.Save(ctx, conv); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save reply: %w", err)
	}
	s.hub.Publish(chat.Event{Type: chat.EventMessage, SessionID: sessionID, Message: &msg})
	s.mu.Unlock()

	s.metrics.MessageAppended(string(chat.RoleAI))
	s.metrics.ReplyDelivered(submitted)
	if res.Topic != faq.None {
		s.metrics.FAQAnswered(string(res.Topic))
	}
	if res.Advanced(prev) {
		s.metrics.StepReached(res.State.Step.String())
		klog.V(3).InfoS("step advanced", "session", sessionID, "from", prev.Step.String(), "to", res.State.Step.String())
	}

	if book && s.bookings != nil {
		err := s.bookings.Record(ctx, sessionID, res.State.Appointment)
		s.metrics.BookingRecorded(err)
		if err != nil {
			klog.ErrorS(err, "record booking failed", "session", sessionID)
		} else {
			klog.InfoS("appointment booked", "session", sessionID, "time", res.State.Appointment.PreferredTime)
		}
	}
	return nil
}

// dequeue must be called with s.mu held.
func (s *Service) dequeue(sessionID string) (pendingTurn, bool) {
	queue := s.queues[sessionID]
	if len(queue) == 0 {
		return pendingTurn{}, false
	}
	turn := queue[0]
	if len(queue) == 1 {
		delete(s.queues, sessionID)
	} else {
		s.queues[sessionID] = queue[1:]
	}
	return turn, true
}

func (s *Service) schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	id := s.nextTimer
	s.nextTimer++
	s.pending.Add(1)
	s.timers[id] = time.AfterFunc(s.replyDelay, func() {
		defer s.pending.Done()

		s.mu.Lock()
		delete(s.timers, id)
		closed := s.closed
		s.mu.Unlock()

		if !closed {
			fn()
		}
	})
}

// SetListening records the simulated microphone state and notifies subscribers.
func (s *Service) SetListening(ctx context.Context, sessionID string, listening bool, notice string) error {
	s.mu.Lock()
	conv, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	conv.Listening = listening
	if err := s.store.Save(ctx, conv); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save listening state: %w", err)
	}
	s.mu.Unlock()

	s.hub.Publish(chat.Event{
		Type:      chat.EventVoice,
		SessionID: sessionID,
		Voice:     &chat.VoiceState{Listening: listening, Notice: notice},
	})
	return nil
}

// Listening reports the simulated microphone state.
func (s *Service) Listening(ctx context.Context, sessionID string) (bool, error) {
	conv, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return conv.Listening, nil
}

// Subscribe streams live events for the session until the returned func is called.
func (s *Service) Subscribe(sessionID string) (<-chan chat.Event, func()) {
	return s.hub.Subscribe(sessionID)
}

// Close stops pending replies and waits for in-flight ones.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.timers {
		if t.Stop() {
			s.pending.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.pending.Wait()
}

func (s *Service) newMessage(sessionID string, role chat.Role, content string) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
