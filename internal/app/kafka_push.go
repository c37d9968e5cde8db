package app

import (
	"context"
	"time"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/notify"
	"dispatch-admin/internal/notify/broadcast"
)

type currentGateway interface {
	CurrentDelivery(ctx context.Context) (*domain.Order, error)
}

// makePushHandler verifies an inbound push against the backend before it
// reaches the bus. A push for an order that is no longer the current
// delivery is stale and dropped; a gateway error is returned so the
// consumer retries the message.
func makePushHandler(gw currentGateway, bus *broadcast.Broker) notify.HandleFunc {
	return func(ctx context.Context, ev domain.Event) error {
		if gw == nil {
			bus.Publish(ev)
			return nil
		}

		gwCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		ord, err := gw.CurrentDelivery(gwCtx)
		if err != nil {
			return err
		}
		if ord == nil || ord.ID != ev.OrderID {
			return nil
		}

		bus.Publish(ev)
		return nil
	}
}
