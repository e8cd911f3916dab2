// Package metrics exposes Prometheus counters for chat, auth and provider activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services depend on. Nop satisfies it in tests.
type Recorder interface {
	RecordCompletion(provider, outcome string, d time.Duration)
	RecordFallback(mode, reason string)
	RecordMessage(mode string)
	RecordGuestExpired()
	RecordSignup(ok bool)
	RecordLogin(ok bool)
}

type Collector struct {
	completions       *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	fallbacks         *prometheus.CounterVec
	messages          *prometheus.CounterVec
	guestExpired      prometheus.Counter
	signups           *prometheus.CounterVec
	logins            *prometheus.CounterVec
}

// NewCollector registers the neurochat metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neurochat_completions_total",
			Help: "Completion requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "neurochat_completion_latency_seconds",
			Help:    "Completion request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neurochat_fallback_replies_total",
			Help: "Canned replies served instead of a completion.",
		}, []string{"mode", "reason"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neurochat_chat_messages_total",
			Help: "User chat messages accepted, by mode.",
		}, []string{"mode"}),
		guestExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "neurochat_guest_sessions_expired_total",
			Help: "Guest sessions that reached the time limit.",
		}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neurochat_signups_total",
			Help: "Signup attempts by result.",
		}, []string{"ok"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neurochat_logins_total",
			Help: "Login attempts by result.",
		}, []string{"ok"}),
	}

	reg.MustRegister(
		c.completions,
		c.completionLatency,
		c.fallbacks,
		c.messages,
		c.guestExpired,
		c.signups,
		c.logins,
	)
	return c
}

func (c *Collector) RecordCompletion(provider, outcome string, d time.Duration) {
	c.completions.WithLabelValues(provider, outcome).Inc()
	c.completionLatency.WithLabelValues(provider).Observe(d.Seconds())
}

func (c *Collector) RecordFallback(mode, reason string) {
	c.fallbacks.WithLabelValues(mode, reason).Inc()
}

func (c *Collector) RecordMessage(mode string) {
	c.messages.WithLabelValues(mode).Inc()
}

func (c *Collector) RecordGuestExpired() { c.guestExpired.Inc() }

func (c *Collector) RecordSignup(ok bool) {
	c.signups.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (c *Collector) RecordLogin(ok bool) {
	c.logins.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordCompletion(string, string, time.Duration) {}
func (Nop) RecordFallback(string, string)                  {}
func (Nop) RecordMessage(string)                           {}
func (Nop) RecordGuestExpired()                            {}
func (Nop) RecordSignup(bool)                              {}
func (Nop) RecordLogin(bool)                               {}
