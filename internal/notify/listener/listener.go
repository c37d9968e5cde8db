// Package listener is the courier-facing end of the notification pipeline:
// it receives events from any transport, deduplicates by order identity and
// surfaces at most one active alert at a time.
package listener

import (
	"context"
	"sync"
	"time"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

// CurrentDeliveryPath is the deep link every alert points at.
const CurrentDeliveryPath = "/current-delivery"

type notifier interface {
	Notify(orderID string)
}

type counter interface {
	Inc()
}

// Alert is the in-app banner presented to the courier. Dismiss and View
// both consume it.
type Alert struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
	Link      string    `json:"link"`
}

// Listener presents new-order events for one courier identity. An event
// for an order id already surfaced is ignored regardless of which
// transport delivered it; an event for a different id replaces the active
// alert.
type Listener struct {
	courierID string
	notifier  notifier
	surfaced  counter
	logger    logx.Logger

	mu          sync.Mutex
	lastOrderID string
	active      *Alert
}

// New creates a Listener for the courier identity. The notifier may be nil
// when OS notifications are unavailable.
func New(courierID string, n notifier, surfaced counter, logger logx.Logger) *Listener {
	return &Listener{courierID: courierID, notifier: n, surfaced: surfaced, logger: logger}
}

// Handle surfaces a qualifying event. It is safe to call from multiple
// transports concurrently and never returns an error for events that are
// merely duplicates or addressed elsewhere.
func (l *Listener) Handle(_ context.Context, ev domain.Event) error {
	if ev.Kind != domain.EventKindNewOrder || ev.OrderID == "" {
		return nil
	}
	if ev.TargetCourierID != "" && ev.TargetCourierID != l.courierID {
		return nil
	}

	l.mu.Lock()
	if ev.OrderID == l.lastOrderID {
		l.mu.Unlock()
		return nil
	}
	l.lastOrderID = ev.OrderID
	l.active = &Alert{
		EventID:   ev.ID,
		OrderID:   ev.OrderID,
		CreatedAt: ev.CreatedAt,
		Link:      CurrentDeliveryPath,
	}
	l.mu.Unlock()

	if l.surfaced != nil {
		l.surfaced.Inc()
	}
	l.logger.Info("new order alert surfaced",
		logx.String("event_id", ev.ID),
		logx.String("order_id", ev.OrderID),
	)
	if l.notifier != nil {
		l.notifier.Notify(ev.OrderID)
	}
	return nil
}

// Active returns the currently surfaced alert, if any.
func (l *Listener) Active() (Alert, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil {
		return Alert{}, false
	}
	return *l.active, true
}

// Dismiss consumes the active alert. The order id stays remembered so a
// replay of the same order does not re-surface it.
func (l *Listener) Dismiss() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = nil
}
