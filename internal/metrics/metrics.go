package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "receptionist"

// Recorder groups the receptionist's Prometheus collectors. A nil *Recorder records nothing.
type Recorder struct {
	sessions     prometheus.Counter
	messages     *prometheus.CounterVec
	faqHits      *prometheus.CounterVec
	steps        *prometheus.CounterVec
	ignored      prometheus.Counter
	bookings     *prometheus.CounterVec
	voiceToggles prometheus.Counter
	replyLatency prometheus.Histogram
	rateLimited  prometheus.Counter
	gatherer     prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Calls started with the receptionist.",
		}),
		messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Transcript messages appended, by role.",
		}, []string{"role"}),
		faqHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faq_answers_total",
			Help:      "FAQ answers given, by topic.",
		}, []string{"topic"}),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_transitions_total",
			Help:      "Intake script transitions, by destination step.",
		}, []string{"step"}),
		ignored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ignored_inputs_total",
			Help:      "Blank submissions dropped without a reply.",
		}),
		bookings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Confirmed appointments written to the appointment book, by result.",
		}, []string{"result"}),
		voiceToggles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_toggles_total",
			Help:      "Microphone toggles.",
		}),
		replyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_latency_seconds",
			Help:      "Time from user submission to appended reply.",
			Buckets:   []float64{0.01, 0.1, 0.5, 0.8, 1, 2, 5},
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		gatherer: g,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

func (r *Recorder) SessionCreated() {
	if r == nil {
		return
	}
	r.sessions.Inc()
}

func (r *Recorder) MessageAppended(role string) {
	if r == nil {
		return
	}
	r.messages.WithLabelValues(role).Inc()
}

func (r *Recorder) FAQAnswered(topic string) {
	if r == nil {
		return
	}
	r.faqHits.WithLabelValues(topic).Inc()
}

func (r *Recorder) StepReached(step string) {
	if r == nil {
		return
	}
	r.steps.WithLabelValues(step).Inc()
}

func (r *Recorder) InputIgnored() {
	if r == nil {
		return
	}
	r.ignored.Inc()
}

func (r *Recorder) BookingRecorded(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.bookings.WithLabelValues(result).Inc()
}

func (r *Recorder) VoiceToggled() {
	if r == nil {
		return
	}
	r.voiceToggles.Inc()
}

func (r *Recorder) ReplyDelivered(since time.Time) {
	if r == nil {
		return
	}
	r.replyLatency.Observe(time.Since(since).Seconds())
}

func (r *Recorder) RateLimited() {
	if r == nil {
		return
	}
	r.rateLimited.Inc()
}
