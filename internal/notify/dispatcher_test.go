package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

type recordingBus struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *recordingBus) Publish(ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBus) Events() []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Event, len(b.events))
	copy(out, b.events)
	return out
}

func TestDispatcher_PublishesOneEventAfterDelay(t *testing.T) {
	t.Parallel()

	bus := &recordingBus{}
	d := NewDispatcher(bus, 10*time.Millisecond, logx.Nop())
	defer d.Close()

	d.Dispatch("c1", "o1")
	require.Empty(t, bus.Events())

	require.Eventually(t, func() bool {
		return len(bus.Events()) == 1
	}, time.Second, 5*time.Millisecond)

	ev := bus.Events()[0]
	require.Equal(t, domain.EventKindNewOrder, ev.Kind)
	require.Equal(t, "c1", ev.TargetCourierID)
	require.Equal(t, "o1", ev.OrderID)
	require.NotEmpty(t, ev.ID)
	require.False(t, ev.CreatedAt.IsZero())
}

func TestDispatcher_EachDispatchIsOneEvent(t *testing.T) {
	t.Parallel()

	bus := &recordingBus{}
	d := NewDispatcher(bus, 0, logx.Nop())
	defer d.Close()

	d.Dispatch("c1", "o1")
	d.Dispatch("c1", "o2")

	require.Eventually(t, func() bool {
		return len(bus.Events()) == 2
	}, time.Second, 5*time.Millisecond)

	events := bus.Events()
	require.NotEqual(t, events[0].ID, events[1].ID)
}

func TestDispatcher_CloseCancelsPending(t *testing.T) {
	t.Parallel()

	bus := &recordingBus{}
	d := NewDispatcher(bus, 50*time.Millisecond, logx.Nop())

	d.Dispatch("c1", "o1")
	d.Close()

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, bus.Events())

	// Dispatch after close is a no-op.
	d.Dispatch("c1", "o2")
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, bus.Events())
}
