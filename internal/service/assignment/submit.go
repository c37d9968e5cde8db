package assignment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/gateway/dispatch"
	"dispatch-admin/internal/logx"
)

type gateway interface {
	CreateOrder(ctx context.Context, in dispatch.CreateOrderInput) (domain.Order, error)
}

type dispatcher interface {
	Dispatch(courierID, orderID string)
}

type todayReloader interface {
	ReloadToday(ctx context.Context) error
}

// Service validates and submits confirmed assignments. Exactly one
// creation request is sent per confirmed submission; a notification
// dispatch is scheduled only after the backend accepted the order.
type Service struct {
	machine  *Machine
	gw       gateway
	notifier dispatcher
	orders   todayReloader
	logger   logx.Logger
}

// NewService creates an assignment submitter around the pairing machine.
func NewService(machine *Machine, gw gateway, notifier dispatcher, orders todayReloader, logger logx.Logger) *Service {
	return &Service{machine: machine, gw: gw, notifier: notifier, orders: orders, logger: logger}
}

// Machine exposes the pairing machine for selection and rendering.
func (s *Service) Machine() *Machine {
	return s.machine
}

// Submit validates the draft locally and posts the order. Validation
// failures never reach the network. On success the notification dispatch
// is scheduled, the today list reloaded and the machine reset; on failure
// the selections are preserved for a retry.
func (s *Service) Submit(ctx context.Context) (domain.Order, error) {
	snap, err := s.machine.beginSubmit()
	if err != nil {
		return domain.Order{}, err
	}

	in, err := buildInput(snap)
	if err != nil {
		s.machine.fail(err.Error())
		return domain.Order{}, fmt.Errorf("%w: %s", apperr.ErrInvalid, err.Error())
	}

	order, err := s.gw.CreateOrder(ctx, in)
	if err != nil {
		msg := dispatch.DisplayMessage(err, "could not assign the order")
		s.machine.fail(msg)
		return domain.Order{}, err
	}

	s.machine.succeed()
	s.notifier.Dispatch(in.CourierID, order.ID)

	if err := s.orders.ReloadToday(ctx); err != nil {
		// The order exists server-side; a stale list is refreshed on the
		// next read.
		s.logger.Warn("today list reload after submit failed", logx.Err(err))
	}

	s.logger.Info("order assigned",
		logx.String("order_id", order.ID),
		logx.String("courier_id", in.CourierID),
		logx.String("merchant_id", in.MerchantID),
	)
	return order, nil
}

// buildInput parses and validates the draft fields.
func buildInput(snap Snapshot) (dispatch.CreateOrderInput, error) {
	address := strings.TrimSpace(snap.AddressDraft)
	if address == "" {
		return dispatch.CreateOrderInput{}, fmt.Errorf("destination address is required")
	}

	value, err := parseValue(snap.ValueDraft)
	if err != nil {
		return dispatch.CreateOrderInput{}, err
	}

	fee, err := parseFee(snap.FeeDraft)
	if err != nil {
		return dispatch.CreateOrderInput{}, err
	}

	return dispatch.CreateOrderInput{
		CourierID:   snap.CourierID,
		MerchantID:  snap.MerchantID,
		FinalValue:  value,
		DeliveryFee: fee,
		Destination: address,
	}, nil
}

func parseValue(draft string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(draft))
	if err != nil || !d.IsPositive() {
		return 0, fmt.Errorf("order value must be a positive number")
	}
	return d.IntPart(), nil
}

// parseFee returns nil when the draft is empty: the fee is omitted from
// the payload entirely.
func parseFee(draft string) (*int64, error) {
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(draft)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("delivery fee must be a non-negative number")
	}
	fee := d.IntPart()
	return &fee, nil
}
