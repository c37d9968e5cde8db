package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/gateway/dispatch"
	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/metrics"
	"dispatch-admin/internal/notify"
	"dispatch-admin/internal/notify/broadcast"
	"dispatch-admin/internal/notify/listener"
	testlog "dispatch-admin/internal/testutil"
)

type stubGateway struct {
	createFn func(context.Context, dispatch.CreateOrderInput) (domain.Order, error)
	calls    int
}

func (s *stubGateway) CreateOrder(ctx context.Context, in dispatch.CreateOrderInput) (domain.Order, error) {
	s.calls++
	if s.createFn == nil {
		return domain.Order{}, nil
	}
	return s.createFn(ctx, in)
}

type stubDispatcher struct {
	courierIDs []string
	orderIDs   []string
}

func (s *stubDispatcher) Dispatch(courierID, orderID string) {
	s.courierIDs = append(s.courierIDs, courierID)
	s.orderIDs = append(s.orderIDs, orderID)
}

type stubReloader struct {
	err   error
	calls int
}

func (s *stubReloader) ReloadToday(context.Context) error {
	s.calls++
	return s.err
}

func pairedMachine(t *testing.T) *Machine {
	t.Helper()
	m := NewMachine()
	require.NoError(t, m.SelectCourier("c1"))
	require.NoError(t, m.SelectMerchant("m1"))
	return m
}

func TestSubmit_Success(t *testing.T) {
	t.Parallel()

	m := pairedMachine(t)
	m.SetDrafts("25000", "3000", "  Calle 1 # 2-3  ")

	gw := &stubGateway{
		createFn: func(_ context.Context, in dispatch.CreateOrderInput) (domain.Order, error) {
			require.Equal(t, "c1", in.CourierID)
			require.Equal(t, "m1", in.MerchantID)
			require.Equal(t, int64(25000), in.FinalValue)
			require.NotNil(t, in.DeliveryFee)
			require.Equal(t, int64(3000), *in.DeliveryFee)
			require.Equal(t, "Calle 1 # 2-3", in.Destination)
			return domain.Order{ID: "o1", Status: domain.StatusInProgress}, nil
		},
	}
	disp := &stubDispatcher{}
	reload := &stubReloader{}

	svc := NewService(m, gw, disp, reload, logx.Nop())
	order, err := svc.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "o1", order.ID)

	require.Equal(t, []string{"c1"}, disp.courierIDs)
	require.Equal(t, []string{"o1"}, disp.orderIDs)
	require.Equal(t, 1, reload.calls)
	require.Equal(t, StatusSuccess, m.Snapshot().Status)
}

func TestSubmit_EmptyFeeIsOmitted(t *testing.T) {
	t.Parallel()

	m := pairedMachine(t)
	m.SetDrafts("1200", "", "Calle 1")

	gw := &stubGateway{
		createFn: func(_ context.Context, in dispatch.CreateOrderInput) (domain.Order, error) {
			require.Nil(t, in.DeliveryFee)
			return domain.Order{ID: "o1"}, nil
		},
	}
	svc := NewService(m, gw, &stubDispatcher{}, &stubReloader{}, logx.Nop())
	_, err := svc.Submit(context.Background())
	require.NoError(t, err)
}

func TestSubmit_InvalidDraftsNeverReachNetwork(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		value   string
		fee     string
		address string
	}{
		{name: "zero value", value: "0", fee: "", address: "Calle 1"},
		{name: "negative value", value: "-5", fee: "", address: "Calle 1"},
		{name: "non numeric value", value: "abc", fee: "", address: "Calle 1"},
		{name: "negative fee", value: "100", fee: "-1", address: "Calle 1"},
		{name: "blank address", value: "100", fee: "", address: "   "},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := pairedMachine(t)
			m.SetDrafts(tc.value, tc.fee, tc.address)

			gw := &stubGateway{}
			disp := &stubDispatcher{}
			svc := NewService(m, gw, disp, &stubReloader{}, logx.Nop())

			_, err := svc.Submit(context.Background())
			require.ErrorIs(t, err, apperr.ErrInvalid)
			require.Zero(t, gw.calls)
			require.Empty(t, disp.orderIDs)

			snap := m.Snapshot()
			require.Equal(t, StatusError, snap.Status)
			require.NotEmpty(t, snap.Error)
			require.Equal(t, "c1", snap.CourierID)
		})
	}
}

func TestSubmit_BackendFailureKeepsSelections(t *testing.T) {
	t.Parallel()

	m := pairedMachine(t)
	m.SetDrafts("100", "", "Calle 1")

	gw := &stubGateway{
		createFn: func(context.Context, dispatch.CreateOrderInput) (domain.Order, error) {
			return domain.Order{}, &dispatch.BackendError{Status: 409, Message: "el domiciliario ya tiene un pedido"}
		},
	}
	disp := &stubDispatcher{}
	reload := &stubReloader{}
	svc := NewService(m, gw, disp, reload, logx.Nop())

	_, err := svc.Submit(context.Background())
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.Empty(t, disp.orderIDs)
	require.Zero(t, reload.calls)

	snap := m.Snapshot()
	require.Equal(t, StatusError, snap.Status)
	require.Equal(t, "el domiciliario ya tiene un pedido", snap.Error)
	require.Equal(t, "c1", snap.CourierID)
	require.Equal(t, "m1", snap.MerchantID)
}

func TestSubmit_ReloadFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	m := pairedMachine(t)
	m.SetDrafts("100", "", "Calle 1")

	rec := testlog.New()
	gw := &stubGateway{
		createFn: func(context.Context, dispatch.CreateOrderInput) (domain.Order, error) {
			return domain.Order{ID: "o1"}, nil
		},
	}
	svc := NewService(m, gw, &stubDispatcher{}, &stubReloader{err: apperr.ErrUnavailable}, rec.Logger())

	_, err := svc.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, rec.Contains("today list reload after submit failed"))
}

// The full courier-side path: a confirmed submission ends up as exactly one
// alert on the courier's screen, linking to the current-delivery view.
func TestSubmit_RoundTripToCourierAlert(t *testing.T) {
	t.Parallel()

	m := pairedMachine(t)
	m.SetDrafts("25000", "", "Calle 1")

	gw := &stubGateway{
		createFn: func(context.Context, dispatch.CreateOrderInput) (domain.Order, error) {
			return domain.Order{ID: "o1", CourierID: "c1", Status: domain.StatusInProgress}, nil
		},
	}

	bus := broadcast.NewBroker(8, nil, logx.Nop())
	defer bus.Close()
	disp := notify.NewDispatcher(bus, 0, logx.Nop())
	defer disp.Close()

	lst := listener.New("c1", nil, metrics.NewEventsSurfacedTotal(), logx.Nop())
	transport := notify.NewBroadcastTransport(bus, "c1", lst.Handle, logx.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = transport.Run(ctx)
	}()

	svc := NewService(m, gw, disp, &stubReloader{}, logx.Nop())
	order, err := svc.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "o1", order.ID)

	require.Eventually(t, func() bool {
		alert, ok := lst.Active()
		return ok && alert.OrderID == "o1" && alert.Link == listener.CurrentDeliveryPath
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
