// Package poller converges on server truth by polling the current-delivery
// endpoint at a fixed period. Unlike the broadcast bus it detects genuinely
// new server state, so it works across devices.
package poller

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/notify"
)

type gateway interface {
	CurrentDelivery(ctx context.Context) (*domain.Order, error)
}

type counter interface {
	Inc()
}

// Poller detects new orders by identity change, not mere presence: an
// event fires when the current order id differs from the last seen one.
// A response with no current order resets last-seen, so a later
// reassignment is detected as new rather than ignored as a repeat.
type Poller struct {
	gw        gateway
	handle    notify.HandleFunc
	courierID string
	interval  time.Duration
	polls     counter
	logger    logx.Logger
	newID     func() string
	now       func() time.Time

	lastSeen string
}

// New creates a Poller for the courier identity.
func New(gw gateway, courierID string, interval time.Duration, handle notify.HandleFunc, polls counter, logger logx.Logger) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{
		gw:        gw,
		handle:    handle,
		courierID: courierID,
		interval:  interval,
		polls:     polls,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Run polls until the context is canceled. Polls are serialized: the next
// request starts only after the previous one returned, so responses can
// never be observed out of order.
func (p *Poller) Run(ctx context.Context) error {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if p.polls != nil {
		p.polls.Inc()
	}

	ord, err := p.gw.CurrentDelivery(ctx)
	if err != nil {
		// Last-seen is left unchanged: resetting it here would re-alert
		// an order that was already surfaced.
		p.logger.Warn("current delivery poll failed", logx.Err(err))
		return
	}

	if ord == nil {
		p.lastSeen = ""
		return
	}
	if ord.ID == p.lastSeen {
		return
	}
	p.lastSeen = ord.ID

	ev := domain.Event{
		ID:              p.newID(),
		Kind:            domain.EventKindNewOrder,
		TargetCourierID: p.courierID,
		OrderID:         ord.ID,
		CreatedAt:       p.now(),
	}
	if err := p.handle(ctx, ev); err != nil {
		p.logger.Error("poll event handling failed",
			logx.String("order_id", ord.ID),
			logx.Err(err),
		)
	}
}

var _ notify.Transport = (*Poller)(nil)
