package app

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/notify/broadcast"
)

type stubCurrentGateway struct {
	order *domain.Order
	err   error
	calls int
}

func (s *stubCurrentGateway) CurrentDelivery(context.Context) (*domain.Order, error) {
	s.calls++
	return s.order, s.err
}

func pushEvent(orderID string) domain.Event {
	return domain.Event{
		ID:      "ev1",
		Kind:    domain.EventKindNewOrder,
		OrderID: orderID,
	}
}

func TestMakePushHandler_VerifiedPushReachesBus(t *testing.T) {
	t.Parallel()

	bus := broadcast.NewBroker(1, nil, logx.Nop())
	defer bus.Close()
	ch, cancel := bus.Subscribe()
	defer cancel()

	gw := &stubCurrentGateway{order: &domain.Order{ID: "o1"}}
	handle := makePushHandler(gw, bus)

	require.NoError(t, handle(context.Background(), pushEvent("o1")))
	require.Equal(t, 1, gw.calls)
	require.Equal(t, "o1", (<-ch).OrderID)
}

func TestMakePushHandler_StalePushIsDropped(t *testing.T) {
	t.Parallel()

	bus := broadcast.NewBroker(1, nil, logx.Nop())
	defer bus.Close()
	ch, cancel := bus.Subscribe()
	defer cancel()

	gw := &stubCurrentGateway{order: &domain.Order{ID: "o2"}}
	handle := makePushHandler(gw, bus)

	require.NoError(t, handle(context.Background(), pushEvent("o1")))

	gw.order = nil
	require.NoError(t, handle(context.Background(), pushEvent("o1")))

	select {
	case ev := <-ch:
		t.Fatalf("stale push was published: %v", ev)
	default:
	}
}

func TestMakePushHandler_GatewayErrorPropagatesForRetry(t *testing.T) {
	t.Parallel()

	bus := broadcast.NewBroker(1, nil, logx.Nop())
	defer bus.Close()

	gw := &stubCurrentGateway{err: apperr.ErrUnavailable}
	handle := makePushHandler(gw, bus)

	require.ErrorIs(t, handle(context.Background(), pushEvent("o1")), apperr.ErrUnavailable)
}

func TestMakePushHandler_NilGatewayPublishesDirectly(t *testing.T) {
	t.Parallel()

	bus := broadcast.NewBroker(1, nil, logx.Nop())
	defer bus.Close()
	ch, cancel := bus.Subscribe()
	defer cancel()

	handle := makePushHandler(nil, bus)
	require.NoError(t, handle(context.Background(), pushEvent("o1")))
	require.Equal(t, "o1", (<-ch).OrderID)
}

func newTestCounter() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_counter_test_total",
		Help: "test counter",
	})
}

func TestRegisterCounter_ReusesExisting(t *testing.T) {
	t.Parallel()

	first := registerCounter(newTestCounter())
	second := registerCounter(newTestCounter())
	require.Same(t, first, second)
}
