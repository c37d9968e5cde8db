package dispatch

import (
	"context"
	"errors"
	"time"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/config"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

// Gateway is the full dispatch backend surface.
type Gateway interface {
	ListCouriers(ctx context.Context) ([]domain.Courier, error)
	ListMerchants(ctx context.Context) ([]domain.Merchant, error)
	CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error)
	ListToday(ctx context.Context) ([]domain.Order, error)
	ListHistory(ctx context.Context, date string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
	CurrentDelivery(ctx context.Context) (*domain.Order, error)
	SubscribePush(ctx context.Context, sub domain.PushSubscription) error
}

var _ Gateway = (*Client)(nil)

type counter interface {
	Inc()
}

// RetryingGateway retries the read-only operations on transient backend
// failures. Mutations pass through untouched: one creation request per
// confirmed submission is a hard contract.
type RetryingGateway struct {
	Gateway
	logger  logx.Logger
	retries counter
	cfg     config.Retry
}

// NewRetryingGateway wraps next with retry behavior for reads.
func NewRetryingGateway(next Gateway, logger logx.Logger, retries counter, cfg config.Retry) *RetryingGateway {
	if next == nil {
		return nil
	}
	return &RetryingGateway{Gateway: next, logger: logger, retries: retries, cfg: cfg}
}

func retry[T any](g *RetryingGateway, ctx context.Context, method string, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("dispatch gateway retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, lastErr
}

// ListCouriers retries the courier list fetch.
func (g *RetryingGateway) ListCouriers(ctx context.Context) ([]domain.Courier, error) {
	return retry(g, ctx, "ListCouriers", func() ([]domain.Courier, error) {
		return g.Gateway.ListCouriers(ctx)
	})
}

// ListMerchants retries the merchant list fetch.
func (g *RetryingGateway) ListMerchants(ctx context.Context) ([]domain.Merchant, error) {
	return retry(g, ctx, "ListMerchants", func() ([]domain.Merchant, error) {
		return g.Gateway.ListMerchants(ctx)
	})
}

// ListToday retries the today list fetch.
func (g *RetryingGateway) ListToday(ctx context.Context) ([]domain.Order, error) {
	return retry(g, ctx, "ListToday", func() ([]domain.Order, error) {
		return g.Gateway.ListToday(ctx)
	})
}

// ListHistory retries the history fetch.
func (g *RetryingGateway) ListHistory(ctx context.Context, date string) ([]domain.Order, error) {
	return retry(g, ctx, "ListHistory", func() ([]domain.Order, error) {
		return g.Gateway.ListHistory(ctx, date)
	})
}

// CurrentDelivery retries the current-delivery fetch.
func (g *RetryingGateway) CurrentDelivery(ctx context.Context) (*domain.Order, error) {
	return retry(g, ctx, "CurrentDelivery", func() (*domain.Order, error) {
		return g.Gateway.CurrentDelivery(ctx)
	})
}

func isRetryable(err error) bool {
	return errors.Is(err, apperr.ErrUnavailable)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
