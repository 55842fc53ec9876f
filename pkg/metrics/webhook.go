package metrics

import "github.com/prometheus/client_golang/prometheus"

// Webhook outcomes.
const (
	OutcomeRelayed        = "relayed"
	OutcomeUnverified     = "unverified"
	OutcomeUnhandled      = "unhandled"
	OutcomeUndecodable    = "undecodable"
	DeliveryStatusOK      = "ok"
	DeliveryStatusError   = "error"
	DeliveryStatusDropped = "dropped"
)

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Inbound Stripe webhook events by type and outcome",
		},
		[]string{"event_type", "outcome"},
	)

	NotificationDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "deliveries_total",
			Help:      "Discord notification deliveries by status",
		},
		[]string{"status"},
	)

	NotificationDeliveryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "delivery_duration_seconds",
			Help:      "Discord notification delivery latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)

func init() {
	Registry.MustRegister(WebhookEventsTotal, NotificationDeliveriesTotal, NotificationDeliveryDuration)
}
