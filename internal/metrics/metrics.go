package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var WebhookEventsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sweepstakes",
	Subsystem: "payments",
	Name:      "webhook_events_total",
	Help:      "Count of received Stripe webhook events by type and outcome",
}, []string{"type", "outcome"})

var CheckoutSessionsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sweepstakes",
	Subsystem: "payments",
	Name:      "checkout_sessions_total",
	Help:      "Count of checkout session requests by type and status",
}, []string{"type", "status"})

var GeolocationLookupsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sweepstakes",
	Subsystem: "geolocation",
	Name:      "lookups_total",
	Help:      "Count of country lookups by source",
}, []string{"source"})
