package hub

import "github.com/prometheus/client_golang/prometheus"

var (
	publishesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "keybusd",
			Subsystem: "hub",
			Name:      "publishes_total",
			Help:      "Total invalidations published",
		},
	)

	deliveriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "keybusd",
			Subsystem: "hub",
			Name:      "deliveries_total",
			Help:      "Total invalidations queued for subscribers",
		},
	)

	dropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "keybusd",
			Subsystem: "hub",
			Name:      "drops_total",
			Help:      "Total deliveries dropped on a full subscriber buffer",
		},
	)

	subscribersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "keybusd",
			Subsystem: "hub",
			Name:      "subscribers",
			Help:      "Live subscriptions",
		},
	)

	rejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keybusd",
			Subsystem: "hub",
			Name:      "rejected_total",
			Help:      "Publish or subscribe requests rejected by the hub",
		},
		[]string{"op", "reason"},
	)
)

func init() {
	prometheus.MustRegister(publishesTotal, deliveriesTotal, dropsTotal, subscribersGauge, rejectedTotal)
}

func rejectReason(err error) string {
	switch {
	case IsTooBusy(err):
		return "too_busy"
	case IsInvalidKey(err):
		return "invalid_key"
	case IsRootNotAllowed(err):
		return "root_not_allowed"
	case IsDraining(err):
		return "draining"
	default:
		return "other"
	}
}
