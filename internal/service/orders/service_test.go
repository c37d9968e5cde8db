package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
	testlog "dispatch-admin/internal/testutil"
)

type stubGateway struct {
	todayFn   func() ([]domain.Order, error)
	historyFn func(date string) ([]domain.Order, error)
	updateFn  func(orderID string, status domain.OrderStatus) (domain.Order, error)

	todayCalls int
}

func (s *stubGateway) ListToday(context.Context) ([]domain.Order, error) {
	s.todayCalls++
	if s.todayFn == nil {
		return nil, nil
	}
	return s.todayFn()
}

func (s *stubGateway) ListHistory(_ context.Context, date string) ([]domain.Order, error) {
	if s.historyFn == nil {
		return nil, nil
	}
	return s.historyFn(date)
}

func (s *stubGateway) UpdateStatus(_ context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if s.updateFn == nil {
		return domain.Order{}, nil
	}
	return s.updateFn(orderID, status)
}

func TestToday_GroupsByCourierInFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		todayFn: func() ([]domain.Order, error) {
			return []domain.Order{
				{ID: "o1", CourierID: "c1", CourierName: "Juan"},
				{ID: "o2", CourierID: "c2", CourierName: "Ana"},
				{ID: "o3", CourierID: "c1", CourierName: "Juan"},
			}, nil
		},
	}
	svc := NewService(gw, logx.Nop())

	groups, err := svc.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	require.Equal(t, "c1", groups[0].CourierID)
	require.Equal(t, "Juan", groups[0].CourierName)
	require.Len(t, groups[0].Orders, 2)
	require.Equal(t, "o1", groups[0].Orders[0].ID)
	require.Equal(t, "o3", groups[0].Orders[1].ID)

	require.Equal(t, "c2", groups[1].CourierID)
	require.Len(t, groups[1].Orders, 1)
}

func TestToday_UsesCacheUntilReload(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		todayFn: func() ([]domain.Order, error) {
			return []domain.Order{{ID: "o1", CourierID: "c1"}}, nil
		},
	}
	svc := NewService(gw, logx.Nop())

	_, err := svc.Today(context.Background())
	require.NoError(t, err)
	_, err = svc.Today(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, gw.todayCalls)

	require.NoError(t, svc.ReloadToday(context.Background()))
	require.Equal(t, 2, gw.todayCalls)
}

func TestHistory_CountsByStatus(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		historyFn: func(date string) ([]domain.Order, error) {
			require.Equal(t, "2026-03-01", date)
			return []domain.Order{
				{ID: "o1", Status: domain.StatusDone},
				{ID: "o2", Status: domain.StatusDone},
				{ID: "o3", Status: domain.StatusInProgress},
				{ID: "o4", Status: domain.StatusCanceled},
			}, nil
		},
	}
	svc := NewService(gw, logx.Nop())

	view, err := svc.History(context.Background(), "2026-03-01")
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", view.Date)
	require.Len(t, view.Orders, 4)
	require.Equal(t, 1, view.Counts.InProgress)
	require.Equal(t, 2, view.Counts.Done)
	require.Equal(t, 1, view.Counts.Canceled)
}

func TestHistory_RejectsMalformedDate(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubGateway{}, logx.Nop())

	_, err := svc.History(context.Background(), "01/03/2026")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestChangeStatus_ReloadsTodayAfterTransition(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		updateFn: func(orderID string, status domain.OrderStatus) (domain.Order, error) {
			require.Equal(t, "o1", orderID)
			require.Equal(t, domain.StatusDone, status)
			return domain.Order{ID: "o1", Status: domain.StatusDone}, nil
		},
	}
	svc := NewService(gw, logx.Nop())

	updated, err := svc.ChangeStatus(context.Background(), "o1", domain.StatusDone)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDone, updated.Status)
	require.Equal(t, 1, gw.todayCalls)
}

func TestChangeStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubGateway{}, logx.Nop())

	_, err := svc.ChangeStatus(context.Background(), "o1", "ENTREGADO")
	require.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = svc.ChangeStatus(context.Background(), "", domain.StatusDone)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestChangeStatus_ReloadFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	gw := &stubGateway{
		updateFn: func(string, domain.OrderStatus) (domain.Order, error) {
			return domain.Order{ID: "o1"}, nil
		},
		todayFn: func() ([]domain.Order, error) {
			return nil, apperr.ErrUnavailable
		},
	}
	svc := NewService(gw, rec.Logger())

	_, err := svc.ChangeStatus(context.Background(), "o1", domain.StatusCanceled)
	require.NoError(t, err)
	require.True(t, rec.Contains("today list reload after status change failed"))
}
