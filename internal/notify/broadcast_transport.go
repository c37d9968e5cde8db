package notify

import (
	"context"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

// HandleFunc processes a single delivered event.
type HandleFunc func(ctx context.Context, ev domain.Event) error

type subscriber interface {
	Subscribe() (<-chan domain.Event, func())
}

// BroadcastTransport consumes the in-process bus on behalf of one courier
// identity, ignoring events addressed elsewhere.
type BroadcastTransport struct {
	bus       subscriber
	courierID string
	handle    HandleFunc
	logger    logx.Logger
}

// NewBroadcastTransport creates a transport bound to the courier identity.
func NewBroadcastTransport(bus subscriber, courierID string, handle HandleFunc, logger logx.Logger) *BroadcastTransport {
	return &BroadcastTransport{bus: bus, courierID: courierID, handle: handle, logger: logger}
}

// Run subscribes and forwards matching events until the context is
// canceled or the bus closes. Handler failures are logged per event and do
// not stop the transport.
func (t *BroadcastTransport) Run(ctx context.Context) error {
	ch, cancel := t.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if ev.Kind != domain.EventKindNewOrder {
				continue
			}
			if ev.TargetCourierID != "" && ev.TargetCourierID != t.courierID {
				continue
			}
			if err := t.handle(ctx, ev); err != nil {
				t.logger.Error("broadcast event handling failed",
					logx.String("event_id", ev.ID),
					logx.Err(err),
				)
			}
		}
	}
}

var _ Transport = (*BroadcastTransport)(nil)
