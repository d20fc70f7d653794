package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collab", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collab", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	SessionsConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "collab", Name: "sessions_connected", Help: "Number of live WebSocket sessions."},
	)
	EventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collab", Name: "events_total", Help: "Inbound WebSocket events by name."},
		[]string{"event"},
	)
	MessagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "collab", Name: "messages_dropped_total", Help: "Outbound messages discarded because a session's send queue was full."},
	)
	SnapshotSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "collab", Name: "snapshot_saves_total", Help: "Snapshot writes by backend and result."},
		[]string{"backend", "result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SessionsConnected)
	reg.MustRegister(EventsReceived)
	reg.MustRegister(MessagesDropped)
	reg.MustRegister(SnapshotSaves)
}
