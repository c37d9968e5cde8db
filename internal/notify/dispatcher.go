package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

type publisher interface {
	Publish(ev domain.Event)
}

// Dispatcher schedules new-order events onto the broadcast bus. The delay
// before publishing paces the alert behind server propagation; it is not
// load-bearing for correctness.
type Dispatcher struct {
	pub    publisher
	delay  time.Duration
	logger logx.Logger
	newID  func() string
	now    func() time.Time

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

// NewDispatcher creates a Dispatcher publishing after the given delay.
func NewDispatcher(pub publisher, delay time.Duration, logger logx.Logger) *Dispatcher {
	return &Dispatcher{
		pub:    pub,
		delay:  delay,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Dispatch schedules exactly one event addressed to the courier carrying
// the order id. Fire-and-forget: a dispatcher shut down before the delay
// elapses drops the event.
func (d *Dispatcher) Dispatch(courierID, orderID string) {
	ev := domain.Event{
		ID:              d.newID(),
		Kind:            domain.EventKindNewOrder,
		TargetCourierID: courierID,
		OrderID:         orderID,
		CreatedAt:       d.now(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, t)
		closed := d.closed
		d.mu.Unlock()
		if closed {
			return
		}
		d.pub.Publish(ev)
		d.logger.Info("new order event dispatched",
			logx.String("event_id", ev.ID),
			logx.String("order_id", ev.OrderID),
			logx.String("target_courier_id", ev.TargetCourierID),
		)
	})
	d.timers[t] = struct{}{}
}

// Close cancels pending dispatches.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for t := range d.timers {
		t.Stop()
		delete(d.timers, t)
	}
}
