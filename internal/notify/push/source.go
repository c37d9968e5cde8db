package push

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"dispatch-admin/internal/domain"
)

// LocalSource fabricates a device-local subscription and keeps it for the
// process lifetime, so Ensure re-posts the same endpoint after transient
// failures instead of minting a new identity each attempt.
type LocalSource struct {
	mu  sync.Mutex
	sub *domain.PushSubscription
}

// NewLocalSource returns an empty LocalSource.
func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

// Existing returns the subscription created earlier in this process, if any.
func (s *LocalSource) Existing(_ context.Context) (*domain.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return nil, nil
	}
	sub := *s.sub
	return &sub, nil
}

// Create generates a fresh subscription keyed by the server public key.
func (s *LocalSource) Create(_ context.Context, serverKey []byte) (*domain.PushSubscription, error) {
	if len(serverKey) == 0 {
		return nil, fmt.Errorf("server key is empty")
	}

	p256dh, err := randomKey(65)
	if err != nil {
		return nil, fmt.Errorf("generate p256dh key: %w", err)
	}
	auth, err := randomKey(16)
	if err != nil {
		return nil, fmt.Errorf("generate auth secret: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sub = &domain.PushSubscription{
		Endpoint: fmt.Sprintf("urn:dispatch-agent:%s", uuid.NewString()),
		Keys: domain.SubscriptionKeys{
			P256DH: p256dh,
			Auth:   auth,
		},
	}
	sub := *s.sub
	return &sub, nil
}

func randomKey(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

var _ Source = (*LocalSource)(nil)
