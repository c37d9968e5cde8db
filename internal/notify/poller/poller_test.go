package poller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
	testlog "dispatch-admin/internal/testutil"
)

type scriptedGateway struct {
	responses []response
	idx       int
}

type response struct {
	order *domain.Order
	err   error
}

func (g *scriptedGateway) CurrentDelivery(context.Context) (*domain.Order, error) {
	if g.idx >= len(g.responses) {
		last := g.responses[len(g.responses)-1]
		return last.order, last.err
	}
	r := g.responses[g.idx]
	g.idx++
	return r.order, r.err
}

func newTestPoller(gw *scriptedGateway, handle func(domain.Event)) *Poller {
	p := New(gw, "c1", time.Second, func(_ context.Context, ev domain.Event) error {
		handle(ev)
		return nil
	}, nil, logx.Nop())
	return p
}

func drive(p *Poller, ticks int) {
	ctx := context.Background()
	for i := 0; i < ticks; i++ {
		p.tick(ctx)
	}
}

func TestPoller_AlertsOnIdentityChangeOnly(t *testing.T) {
	t.Parallel()

	a := &domain.Order{ID: "A"}
	b := &domain.Order{ID: "B"}
	gw := &scriptedGateway{responses: []response{
		{order: nil},
		{order: nil},
		{order: a},
		{order: a},
		{order: b},
	}}

	var events []domain.Event
	p := newTestPoller(gw, func(ev domain.Event) { events = append(events, ev) })

	drive(p, 5)

	require.Len(t, events, 2)
	require.Equal(t, "A", events[0].OrderID)
	require.Equal(t, "B", events[1].OrderID)
	require.Equal(t, domain.EventKindNewOrder, events[0].Kind)
	require.Equal(t, "c1", events[0].TargetCourierID)
}

func TestPoller_NullResetsSoReassignmentIsNew(t *testing.T) {
	t.Parallel()

	a := &domain.Order{ID: "A"}
	gw := &scriptedGateway{responses: []response{
		{order: a},
		{order: nil},
		{order: a},
	}}

	var events []domain.Event
	p := newTestPoller(gw, func(ev domain.Event) { events = append(events, ev) })

	drive(p, 3)

	require.Len(t, events, 2)
	require.Equal(t, "A", events[0].OrderID)
	require.Equal(t, "A", events[1].OrderID)
}

func TestPoller_ErrorLeavesLastSeenUnchanged(t *testing.T) {
	t.Parallel()

	a := &domain.Order{ID: "A"}
	gw := &scriptedGateway{responses: []response{
		{order: a},
		{err: apperr.ErrUnavailable},
		{order: a},
	}}

	rec := testlog.New()
	var events []domain.Event
	p := New(gw, "c1", time.Second, func(_ context.Context, ev domain.Event) error {
		events = append(events, ev)
		return nil
	}, nil, rec.Logger())

	drive(p, 3)

	// A failed poll must not re-alert the order that was already surfaced.
	require.Len(t, events, 1)
	require.True(t, rec.Contains("current delivery poll failed"))
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	gw := &scriptedGateway{responses: []response{{order: nil}}}
	p := New(gw, "c1", 5*time.Millisecond, func(context.Context, domain.Event) error {
		return nil
	}, nil, logx.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
