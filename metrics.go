package quickfix

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the Prometheus collectors a session reports to. One
// Metrics is shared across every session in a process; SessionID is used
// as a label so per-session rates stay distinguishable.
type Metrics struct {
	MessagesReceived *prometheus.CounterVec
	MessagesSent     *prometheus.CounterVec
	SequenceGaps     *prometheus.CounterVec
	ResendRequests   *prometheus.CounterVec
	Heartbeats       *prometheus.CounterVec
	StoreLatency     *prometheus.HistogramVec
}

// NewMetrics registers a fresh set of session collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_messages_received_total",
			Help: "Inbound FIX application messages accepted by the application, by session and MsgType.",
		}, []string{"session", "msg_type"}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_messages_sent_total",
			Help: "FIX messages sent, by session and MsgType.",
		}, []string{"session", "msg_type"}),
		SequenceGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_sequence_gaps_total",
			Help: "Inbound sequence number gaps detected, by session.",
		}, []string{"session"}),
		ResendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_resend_requests_total",
			Help: "Inbound ResendRequest messages answered with resent messages, by session.",
		}, []string{"session"}),
		Heartbeats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fix_heartbeats_total",
			Help: "Heartbeats exchanged, by session and direction.",
		}, []string{"session", "direction"}),
		StoreLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "fix_store_latency_seconds",
			Help: "MessageStore operation latency, by session and operation.",
		}, []string{"session", "op"}),
	}
	reg.MustRegister(m.MessagesReceived, m.MessagesSent, m.SequenceGaps,
		m.ResendRequests, m.Heartbeats, m.StoreLatency)
	return m
}
