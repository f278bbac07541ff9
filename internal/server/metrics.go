package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammad-safakhou/histchat/session"
)

// Metrics holds the server's prometheus collectors on a dedicated registry
// so multiple instances (tests included) never collide.
type Metrics struct {
	Registry          *prometheus.Registry
	ChatRequests      *prometheus.CounterVec
	InferenceDuration prometheus.Histogram
	SessionsEvicted   prometheus.Counter
}

// NewMetrics registers all collectors, including an active-sessions gauge
// read live from the store.
func NewMetrics(store session.Store) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "histchat_chat_requests_total",
			Help: "Chat requests by outcome.",
		}, []string{"outcome"}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "histchat_inference_duration_seconds",
			Help:    "Wall time of model inference calls.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		SessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "histchat_sessions_evicted_total",
			Help: "Sessions removed by the idle sweeper.",
		}),
	}

	reg.MustRegister(m.ChatRequests, m.InferenceDuration, m.SessionsEvicted)
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "histchat_active_sessions",
		Help: "Number of live sessions.",
	}, func() float64 { return float64(store.Count()) }))

	return m
}
