// Package orders serves the operator's order views: today's list grouped
// by courier, the date-filtered history with per-status counts, and status
// transitions. The backend is the single authority on order state; this
// service always re-reads after a transition instead of mutating locally.
package orders

import (
	"context"
	"sync"
	"time"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

type gateway interface {
	ListToday(ctx context.Context) ([]domain.Order, error)
	ListHistory(ctx context.Context, date string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}

// CourierGroup is one bucket of today's orders.
type CourierGroup struct {
	CourierID   string         `json:"courier_id"`
	CourierName string         `json:"courier_name,omitempty"`
	Orders      []domain.Order `json:"orders"`
}

// HistoryView is the history screen payload.
type HistoryView struct {
	Date   string              `json:"date"`
	Orders []domain.Order      `json:"orders"`
	Counts domain.StatusCounts `json:"counts"`
}

// Service owns the operator's order lists.
type Service struct {
	gw     gateway
	logger logx.Logger

	mu    sync.RWMutex
	today []domain.Order
}

// NewService creates the order views service.
func NewService(gw gateway, logger logx.Logger) *Service {
	return &Service{gw: gw, logger: logger}
}

// ReloadToday re-reads today's orders from the backend.
func (s *Service) ReloadToday(ctx context.Context) error {
	list, err := s.gw.ListToday(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.today = list
	s.mu.Unlock()
	return nil
}

// Today returns the cached today list grouped by courier, fetching it
// first when the cache is empty.
func (s *Service) Today(ctx context.Context) ([]CourierGroup, error) {
	s.mu.RLock()
	cached := s.today
	s.mu.RUnlock()

	if cached == nil {
		if err := s.ReloadToday(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		cached = s.today
		s.mu.RUnlock()
	}

	keys, buckets := domain.GroupByCourier(cached)
	groups := make([]CourierGroup, 0, len(keys))
	for _, id := range keys {
		orders := buckets[id]
		g := CourierGroup{CourierID: id, Orders: orders}
		if len(orders) > 0 {
			g.CourierName = orders[0].CourierName
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// History fetches the orders of the given date (YYYY-MM-DD) with
// per-status counts. An empty date means today.
func (s *Service) History(ctx context.Context, date string) (HistoryView, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return HistoryView{}, apperr.ErrInvalid
	}

	list, err := s.gw.ListHistory(ctx, date)
	if err != nil {
		return HistoryView{}, err
	}
	return HistoryView{Date: date, Orders: list, Counts: domain.CountByStatus(list)}, nil
}

// ChangeStatus requests a transition and re-reads the today list so the
// screens reflect server truth.
func (s *Service) ChangeStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if orderID == "" || !status.Valid() {
		return domain.Order{}, apperr.ErrInvalid
	}

	updated, err := s.gw.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.ReloadToday(ctx); err != nil {
		s.logger.Warn("today list reload after status change failed", logx.Err(err))
	}

	s.logger.Info("order status changed",
		logx.String("order_id", orderID),
		logx.String("status", string(status)),
	)
	return updated, nil
}
