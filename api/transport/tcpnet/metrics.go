package tcpnet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds transport-level Prometheus counters. Only wire traffic is
// counted; loopback messages never touch a socket and are not recorded.
type Metrics struct {
	MessagesSent     prometheus.Counter
	MessagesReceived prometheus.Counter
	BytesSent        prometheus.Counter
	BytesReceived    prometheus.Counter
}

// NewMetrics creates transport counters registered on reg under the given
// namespace. Pass the result to the network via WithMetrics.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "messages_sent_total",
			Help:      "Total number of messages written to peer channels",
		}),
		MessagesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "messages_received_total",
			Help:      "Total number of messages read from peer channels",
		}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "bytes_sent_total",
			Help:      "Total payload bytes written to peer channels",
		}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "bytes_received_total",
			Help:      "Total payload bytes read from peer channels",
		}),
	}
}

func (m *Metrics) addSent(bytes int) {
	if m == nil {
		return
	}
	m.MessagesSent.Inc()
	m.BytesSent.Add(float64(bytes))
}

func (m *Metrics) addReceived(bytes int) {
	if m == nil {
		return
	}
	m.MessagesReceived.Inc()
	m.BytesReceived.Add(float64(bytes))
}
