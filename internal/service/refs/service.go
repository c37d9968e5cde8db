// Package refs loads the reference data the creation screen offers for
// selection: couriers and merchants.
package refs

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

type gateway interface {
	ListCouriers(ctx context.Context) ([]domain.Courier, error)
	ListMerchants(ctx context.Context) ([]domain.Merchant, error)
}

// Service fetches and caches assignment reference data.
type Service struct {
	gw     gateway
	logger logx.Logger

	mu        sync.RWMutex
	couriers  []domain.Courier
	merchants []domain.Merchant
	loaded    bool
}

// NewService creates a reference-data loader.
func NewService(gw gateway, logger logx.Logger) *Service {
	return &Service{gw: gw, logger: logger}
}

// Load fetches both collections concurrently. The cache is replaced only
// when both fetches succeed.
func (s *Service) Load(ctx context.Context) error {
	var couriers []domain.Courier
	var merchants []domain.Merchant

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		couriers, err = s.gw.ListCouriers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		merchants, err = s.gw.ListMerchants(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.couriers = couriers
	s.merchants = merchants
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("reference data loaded",
		logx.Int("couriers", len(couriers)),
		logx.Int("merchants", len(merchants)),
	)
	return nil
}

// Couriers returns the cached couriers.
func (s *Service) Couriers() []domain.Courier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.couriers
}

// Merchants returns the cached merchants.
func (s *Service) Merchants() []domain.Merchant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.merchants
}

// Loaded reports whether reference data has been fetched at least once.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
