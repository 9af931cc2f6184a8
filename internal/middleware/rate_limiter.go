package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"github.com/lumivian/receptionist/backend/internal/metrics"
	"github.com/lumivian/receptionist/backend/pkg/utils"
)

// RateLimiterOptions configures the rate limiter
type RateLimiterOptions struct {
	// Limit defines requests per second
	Limit rate.Limit
	// Burst defines maximum burst size allowed
	Burst int
	// ExpiryDuration defines how long to keep client state in memory
	ExpiryDuration time.Duration
	// KeyFunc extracts the limiting key from a request
	KeyFunc func(*http.Request) string
}

// DefaultRateLimiterOptions returns the defaults used by the API server.
func DefaultRateLimiterOptions() RateLimiterOptions {
	return RateLimiterOptions{
		Limit:          5,
		Burst:          10,
		ExpiryDuration: time.Hour,
		KeyFunc:        clientIP,
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client key.
type RateLimiter struct {
	mu      sync.Mutex
	options RateLimiterOptions
	clients map[string]*client
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rec *metrics.Recorder, opts RateLimiterOptions) *RateLimiter {
	if opts.KeyFunc == nil {
		opts.KeyFunc = clientIP
	}
	if opts.ExpiryDuration <= 0 {
		opts.ExpiryDuration = time.Hour
	}
	return &RateLimiter{
		options: opts,
		clients: make(map[string]*client),
		metrics: rec,
		now:     time.Now,
	}
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.options.KeyFunc(r)
		if !l.getLimiter(key).Allow() {
			klog.V(2).InfoS("rate limit exceeded", "client", key, "path", r.URL.Path, "method", r.Method)
			l.metrics.RateLimited()
			w.Header().Set("Retry-After", "1")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.options.Burst))
			utils.RespondError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictLocked(now)

	v, exists := l.clients[key]
	if !exists {
		limiter := rate.NewLimiter(l.options.Limit, l.options.Burst)
		l.clients[key] = &client{limiter: limiter, lastSeen: now}
		return limiter
	}

	v.lastSeen = now
	return v.limiter
}

// evictLocked drops clients idle for longer than ExpiryDuration.
func (l *RateLimiter) evictLocked(now time.Time) {
	for k, v := range l.clients {
		if now.Sub(v.lastSeen) > l.options.ExpiryDuration {
			delete(l.clients, k)
		}
	}
}
