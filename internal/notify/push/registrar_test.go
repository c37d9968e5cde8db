package push

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/apperr"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

const testPublicKey = "BObdX3v1Y5nEw0Zr8mKj2hQ" // base64url without padding

type stubSubscribeGateway struct {
	err   error
	calls int
	last  domain.PushSubscription
}

func (s *stubSubscribeGateway) SubscribePush(_ context.Context, sub domain.PushSubscription) error {
	s.calls++
	s.last = sub
	return s.err
}

type stubSource struct {
	existing *domain.PushSubscription
	created  *domain.PushSubscription
	creates  int
}

func (s *stubSource) Existing(context.Context) (*domain.PushSubscription, error) {
	return s.existing, nil
}

func (s *stubSource) Create(_ context.Context, serverKey []byte) (*domain.PushSubscription, error) {
	s.creates++
	if len(serverKey) == 0 {
		return nil, apperr.ErrInvalid
	}
	return s.created, nil
}

func TestEnsure_CreatesAndRegistersOnce(t *testing.T) {
	t.Parallel()

	gw := &stubSubscribeGateway{}
	source := &stubSource{created: &domain.PushSubscription{Endpoint: "urn:dispatch-agent:1"}}
	r := NewRegistrar(gw, source, testPublicKey, logx.Nop())

	require.NoError(t, r.Ensure(context.Background()))
	require.Equal(t, 1, gw.calls)
	require.Equal(t, 1, source.creates)
	require.Equal(t, "urn:dispatch-agent:1", gw.last.Endpoint)

	// A second call in the same session is a no-op.
	require.NoError(t, r.Ensure(context.Background()))
	require.Equal(t, 1, gw.calls)
}

func TestEnsure_ReusesExistingSubscription(t *testing.T) {
	t.Parallel()

	gw := &stubSubscribeGateway{}
	source := &stubSource{existing: &domain.PushSubscription{Endpoint: "urn:dispatch-agent:old"}}
	r := NewRegistrar(gw, source, testPublicKey, logx.Nop())

	require.NoError(t, r.Ensure(context.Background()))
	require.Zero(t, source.creates)
	require.Equal(t, "urn:dispatch-agent:old", gw.last.Endpoint)
}

func TestEnsure_FailureAllowsRetry(t *testing.T) {
	t.Parallel()

	gw := &stubSubscribeGateway{err: apperr.ErrUnavailable}
	source := &stubSource{created: &domain.PushSubscription{Endpoint: "urn:dispatch-agent:1"}}
	r := NewRegistrar(gw, source, testPublicKey, logx.Nop())

	require.Error(t, r.Ensure(context.Background()))

	gw.err = nil
	require.NoError(t, r.Ensure(context.Background()))
	require.Equal(t, 2, gw.calls)
}

func TestEnsure_RequiresConfiguredKey(t *testing.T) {
	t.Parallel()

	gw := &stubSubscribeGateway{}
	r := NewRegistrar(gw, &stubSource{}, "   ", logx.Nop())

	require.Error(t, r.Ensure(context.Background()))
	require.Zero(t, gw.calls)
}

func TestDecodeServerKey_ToleratesMissingPadding(t *testing.T) {
	t.Parallel()

	raw := []byte{1, 2, 3, 4, 5}
	padded := base64.URLEncoding.EncodeToString(raw)
	unpadded := base64.RawURLEncoding.EncodeToString(raw)

	got, err := DecodeServerKey(padded)
	require.NoError(t, err)
	require.Equal(t, raw, got)

	got, err = DecodeServerKey(unpadded)
	require.NoError(t, err)
	require.Equal(t, raw, got)
}

func TestLocalSource_StableEndpointPerProcess(t *testing.T) {
	t.Parallel()

	s := NewLocalSource()

	existing, err := s.Existing(context.Background())
	require.NoError(t, err)
	require.Nil(t, existing)

	created, err := s.Create(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	require.NotEmpty(t, created.Endpoint)
	require.NotEmpty(t, created.Keys.P256DH)
	require.NotEmpty(t, created.Keys.Auth)

	existing, err = s.Existing(context.Background())
	require.NoError(t, err)
	require.NotNil(t, existing)
	require.Equal(t, created.Endpoint, existing.Endpoint)
}
