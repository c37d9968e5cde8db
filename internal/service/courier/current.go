// Package courier serves the courier-facing current-delivery view.
package courier

import (
	"context"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/gateway/dispatch"
	"dispatch-admin/internal/logx"
)

type gateway interface {
	CurrentDelivery(ctx context.Context) (*domain.Order, error)
}

// ViewState distinguishes the render states of the screen.
type ViewState string

// Current-delivery view states. Absence of a delivery is a normal empty
// state, not a failure.
const (
	ViewEmpty     ViewState = "empty"
	ViewPopulated ViewState = "populated"
	ViewError     ViewState = "error"
)

// View is the current-delivery screen payload.
type View struct {
	State ViewState     `json:"state"`
	Order *domain.Order `json:"order,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Service fetches the authoritative current delivery for the courier.
type Service struct {
	gw     gateway
	logger logx.Logger
}

// NewService creates the current-delivery view service.
func NewService(gw gateway, logger logx.Logger) *Service {
	return &Service{gw: gw, logger: logger}
}

// CurrentDelivery resolves the view. Gateway failures are converted to an
// error state with a display message rather than propagated.
func (s *Service) CurrentDelivery(ctx context.Context) View {
	ord, err := s.gw.CurrentDelivery(ctx)
	if err != nil {
		s.logger.Warn("current delivery fetch failed", logx.Err(err))
		return View{
			State: ViewError,
			Error: dispatch.DisplayMessage(err, "could not load the current delivery"),
		}
	}
	if ord == nil {
		return View{State: ViewEmpty}
	}
	return View{State: ViewPopulated, Order: ord}
}
