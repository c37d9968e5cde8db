package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewGatewayRetriesTotal returns a counter for retry attempts performed by
// the dispatch gateway.
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by the dispatch gateway",
	})
}

// NewPollsTotal returns a counter for current-delivery poll requests.
func NewPollsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "current_delivery_polls_total",
		Help: "Total number of current-delivery poll requests",
	})
}

// NewEventsSurfacedTotal returns a counter for new-order alerts surfaced to
// the courier.
func NewEventsSurfacedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_events_surfaced_total",
		Help: "Total number of new-order alerts surfaced to the courier",
	})
}

// NewBroadcastDroppedTotal returns a counter for broadcast messages dropped
// because a subscriber buffer was full.
func NewBroadcastDroppedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "broadcast_messages_dropped_total",
		Help: "Total number of broadcast messages dropped due to a full subscriber buffer",
	})
}
