package voice

import (
	"context"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/metrics"
)

// Notice is shown when the simulated listening window ends.
const Notice = "Voice input simulation - मैसेज टाइप करें"

// DefaultTimeout is how long the microphone stays "on".
const DefaultTimeout = 2 * time.Second

// Sessions is the slice of the conversation service the simulator needs.
type Sessions interface {
	Listening(ctx context.Context, sessionID string) (bool, error)
	SetListening(ctx context.Context, sessionID string, listening bool, notice string) error
}

// Simulator fakes voice capture: turning the microphone on arms a timer that always
// turns it off again and tells the caller to type instead. No audio is captured.
type Simulator struct {
	sessions Sessions
	timeout  time.Duration
	metrics  *metrics.Recorder

	mu      sync.Mutex
	pending sync.WaitGroup
	timers  map[*time.Timer]struct{}
	closed  bool
}

// NewSimulator builds a Simulator; a non-positive timeout uses DefaultTimeout.
func NewSimulator(sessions Sessions, timeout time.Duration, rec *metrics.Recorder) *Simulator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Simulator{
		sessions: sessions,
		timeout:  timeout,
		metrics:  rec,
		timers:   make(map[*time.Timer]struct{}),
	}
}

// Toggle flips the microphone state and returns the new state.
// Switching off does not disarm an earlier timer; it still fires and shows the notice.
func (s *Simulator) Toggle(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listening, err := s.sessions.Listening(ctx, sessionID)
	if err != nil {
		return false, err
	}

	next := !listening
	if err := s.sessions.SetListening(ctx, sessionID, next, ""); err != nil {
		return false, err
	}
	s.metrics.VoiceToggled()

	if next && !s.closed {
		s.arm(sessionID)
	}
	klog.V(3).InfoS("voice toggled", "session", sessionID, "listening", next)
	return next, nil
}

// arm must be called with s.mu held.
func (s *Simulator) arm(sessionID string) {
	s.pending.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(s.timeout, func() {
		defer s.pending.Done()

		s.mu.Lock()
		delete(s.timers, timer)
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}

		if err := s.sessions.SetListening(context.Background(), sessionID, false, Notice); err != nil {
			klog.V(2).InfoS("voice timeout for closed session", "session", sessionID, "err", err)
		}
	})
	s.timers[timer] = struct{}{}
}

// Close disarms pending timers and waits for running ones.
func (s *Simulator) Close() {
	s.mu.Lock()
	s.closed = true
	for t := range s.timers {
		if t.Stop() {
			s.pending.Done()
		}
		delete(s.timers, t)
	}
	s.mu.Unlock()

	s.pending.Wait()
}
