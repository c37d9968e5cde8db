// Package push registers the agent's push subscription with the backend so
// that backgrounded or closed agents can still be reached. Registration
// failures are isolated per attempt and never block order management.
package push

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

type subscribeGateway interface {
	SubscribePush(ctx context.Context, sub domain.PushSubscription) error
}

// Source owns the platform subscription: it returns an existing one or
// creates a fresh subscription keyed by the server public key.
type Source interface {
	Existing(ctx context.Context) (*domain.PushSubscription, error)
	Create(ctx context.Context, serverKey []byte) (*domain.PushSubscription, error)
}

// Registrar hands the subscription to the backend exactly once per
// registration. The subscribe endpoint is idempotent, so a re-run after a
// restart is harmless.
type Registrar struct {
	gw        subscribeGateway
	source    Source
	publicKey string
	logger    logx.Logger

	mu         sync.Mutex
	registered bool
}

// NewRegistrar creates a Registrar using the server-provided public key.
func NewRegistrar(gw subscribeGateway, source Source, publicKey string, logger logx.Logger) *Registrar {
	return &Registrar{gw: gw, source: source, publicKey: publicKey, logger: logger}
}

// Ensure obtains or creates the subscription and posts it to the backend.
// It runs at most once per session; later calls are no-ops. The returned
// error is informational, callers log and swallow it.
func (r *Registrar) Ensure(ctx context.Context) error {
	r.mu.Lock()
	if r.registered {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if strings.TrimSpace(r.publicKey) == "" {
		return fmt.Errorf("push public key is not configured")
	}
	key, err := DecodeServerKey(r.publicKey)
	if err != nil {
		return fmt.Errorf("decode push public key: %w", err)
	}

	sub, err := r.source.Existing(ctx)
	if err != nil {
		r.logger.Warn("reading existing push subscription failed", logx.Err(err))
	}
	if sub == nil {
		if sub, err = r.source.Create(ctx, key); err != nil {
			return fmt.Errorf("create push subscription: %w", err)
		}
	}
	if sub == nil {
		return fmt.Errorf("no push subscription available")
	}

	if err := r.gw.SubscribePush(ctx, *sub); err != nil {
		return fmt.Errorf("post push subscription: %w", err)
	}

	r.mu.Lock()
	r.registered = true
	r.mu.Unlock()

	r.logger.Info("push subscription registered")
	return nil
}

// DecodeServerKey decodes the base64url server key, tolerating missing
// padding.
func DecodeServerKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if m := len(key) % 4; m != 0 {
		key += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(key)
}
