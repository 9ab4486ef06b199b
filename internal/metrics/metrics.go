// internal/metrics/metrics.go

// Package metrics exposes prometheus instrumentation for the
// synchronization client. A nil *Metrics is a valid no-op recorder so
// instrumentation stays optional for library users.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the client's counters.
type Metrics struct {
	Connects          prometheus.Counter
	ReconnectAttempts prometheus.Counter
	MessagesReceived  prometheus.Counter
	DecodeErrors      prometheus.Counter
	SendsDropped      prometheus.Counter
}

// New creates the counter set under the given namespace. Counters are
// not registered; call Register with the target registerer.
func New(namespace string) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		Connects:          counter("connects_total", "Successful websocket connections"),
		ReconnectAttempts: counter("reconnect_attempts_total", "Scheduled reconnection attempts"),
		MessagesReceived:  counter("messages_received_total", "Inbound frames read from the socket"),
		DecodeErrors:      counter("decode_errors_total", "Inbound frames dropped as undecodable"),
		SendsDropped:      counter("sends_dropped_total", "Outbound messages dropped while the link was not open"),
	}
}

// Register registers every counter with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Connects, m.ReconnectAttempts, m.MessagesReceived, m.DecodeErrors, m.SendsDropped,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncConnects records a successful connection.
func (m *Metrics) IncConnects() {
	if m != nil {
		m.Connects.Inc()
	}
}

// IncReconnectAttempts records a scheduled reconnection.
func (m *Metrics) IncReconnectAttempts() {
	if m != nil {
		m.ReconnectAttempts.Inc()
	}
}

// IncMessagesReceived records an inbound frame.
func (m *Metrics) IncMessagesReceived() {
	if m != nil {
		m.MessagesReceived.Inc()
	}
}

// IncDecodeErrors records a dropped undecodable frame.
func (m *Metrics) IncDecodeErrors() {
	if m != nil {
		m.DecodeErrors.Inc()
	}
}

// IncSendsDropped records an outbound message dropped on a closed link.
func (m *Metrics) IncSendsDropped() {
	if m != nil {
		m.SendsDropped.Inc()
	}
}
