package handlers

import (
	"context"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/notify/listener"
	"dispatch-admin/internal/service/assignment"
	"dispatch-admin/internal/service/courier"
	"dispatch-admin/internal/service/orders"
)

type createUsecase interface {
	Machine() *assignment.Machine
	Submit(ctx context.Context) (domain.Order, error)
}

type refsUsecase interface {
	Load(ctx context.Context) error
	Couriers() []domain.Courier
	Merchants() []domain.Merchant
	Loaded() bool
}

type ordersUsecase interface {
	Today(ctx context.Context) ([]orders.CourierGroup, error)
	History(ctx context.Context, date string) (orders.HistoryView, error)
	ChangeStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}

type currentDeliveryUsecase interface {
	CurrentDelivery(ctx context.Context) courier.View
}

type alertsUsecase interface {
	Active() (listener.Alert, bool)
	Dismiss()
}
