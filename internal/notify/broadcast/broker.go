// Package broadcast is an in-process publish/subscribe bus scoped to one
// fixed channel name. Delivery is fire-and-forget and at-most-once: there
// is no backpressure, no replay, and a message published while nobody is
// subscribed is lost.
package broadcast

import (
	"sync"

	"github.com/google/uuid"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

// ChannelName identifies the bus, mirroring the fixed browser channel name.
const ChannelName = "pedidos-notifications"

type counter interface {
	Inc()
}

// Broker fans events out to all current subscribers.
type Broker struct {
	mu      sync.Mutex
	subs    map[string]chan domain.Event
	buffer  int
	closed  bool
	dropped counter
	logger  logx.Logger
}

// NewBroker creates a Broker. Each subscriber gets a buffer of the given
// size; a full buffer drops the message for that subscriber only.
func NewBroker(buffer int, dropped counter, logger logx.Logger) *Broker {
	if buffer <= 0 {
		buffer = 1
	}
	return &Broker{
		subs:    make(map[string]chan domain.Event),
		buffer:  buffer,
		dropped: dropped,
		logger:  logger,
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes
// the subscription and closes the channel; it is safe to call twice.
func (b *Broker) Subscribe() (<-chan domain.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := uuid.NewString()
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that has buffer room.
func (b *Broker) Publish(ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			if b.dropped != nil {
				b.dropped.Inc()
			}
			b.logger.Warn("broadcast message dropped",
				logx.String("order_id", ev.OrderID),
				logx.String("target_courier_id", ev.TargetCourierID),
			)
		}
	}
}

// Close drops all subscriptions; further publishes are no-ops.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
