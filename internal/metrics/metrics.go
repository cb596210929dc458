package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons used as label values on DroppedTotal.
const (
	ReasonUnknownRoom  = "unknown_room"
	ReasonViolation    = "protocol_violation"
	ReasonNoSender     = "no_sender"
	ReasonBackpressure = "backpressure"
	ReasonMalformed    = "malformed"
)

// Metrics holds the service's Prometheus instruments. All mutation happens
// from the hub and the transport layer; the instruments themselves are safe
// for concurrent use.
type Metrics struct {
	Participants prometheus.Gauge
	Waiting      prometheus.Gauge
	Rooms        prometheus.Gauge
	MatchesTotal prometheus.Counter
	RelayedTotal *prometheus.CounterVec
	DroppedTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Participants: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pairwire_participants",
			Help: "Currently connected participants.",
		}),
		Waiting: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pairwire_waiting_participants",
			Help: "Participants waiting in the pairing queue.",
		}),
		Rooms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pairwire_rooms",
			Help: "Active rooms.",
		}),
		MatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pairwire_matches_total",
			Help: "Pairs matched since process start.",
		}),
		RelayedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pairwire_relayed_messages_total",
			Help: "Signaling messages relayed between peers, by type.",
		}, []string{"type"}),
		DroppedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pairwire_dropped_messages_total",
			Help: "Inbound or outbound messages dropped, by reason.",
		}, []string{"reason"}),
	}
}
