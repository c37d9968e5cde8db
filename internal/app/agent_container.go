package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/dig"

	"dispatch-admin/internal/config"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/gateway/dispatch"
	"dispatch-admin/internal/http/handlers"
	"dispatch-admin/internal/http/router"
	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/metrics"
	"dispatch-admin/internal/notify"
	"dispatch-admin/internal/notify/broadcast"
	"dispatch-admin/internal/notify/desktop"
	"dispatch-admin/internal/notify/listener"
	"dispatch-admin/internal/notify/poller"
	"dispatch-admin/internal/notify/push"
	"dispatch-admin/internal/service/courier"
	"dispatch-admin/internal/session"
	"dispatch-admin/internal/transport/kafka"
)

// MustBuildAgentContainer builds the courier agent container. The agent
// needs a courier identity up front: every transport is keyed by it.
func MustBuildAgentContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildAgent(ctx)
	if err != nil {
		b.logFatalf("failed to build agent container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildAgent(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerAgentCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerAgentNotify(container); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	if err := registerAgentHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func registerAgentCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
		func(cfg *config.Config) (*session.Store, session.User, error) {
			store, err := session.FromToken(cfg.Token)
			if err != nil {
				return nil, session.User{}, err
			}
			user, ok := store.User()
			if !ok || !store.IsCourier() {
				return nil, session.User{}, fmt.Errorf("DISPATCH_TOKEN must carry a courier identity")
			}
			return store, user, nil
		},
	)
}

func registerAgentNotify(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger) *broadcast.Broker {
			dropped := registerCounter(metrics.NewBroadcastDroppedTotal())
			return broadcast.NewBroker(cfg.Notify.BufferSize, dropped, logger)
		},
		func(logger logx.Logger) *desktop.Notifier {
			return desktop.NewNotifier(desktop.NewBeeepSender(""), logger)
		},
		func(user session.User, n *desktop.Notifier, logger logx.Logger) *listener.Listener {
			surfaced := registerCounter(metrics.NewEventsSurfacedTotal())
			return listener.New(user.ID, n, surfaced, logger)
		},
		func(bus *broadcast.Broker, user session.User, l *listener.Listener, logger logx.Logger) *notify.BroadcastTransport {
			return notify.NewBroadcastTransport(bus, user.ID, l.Handle, logger)
		},
		func(gw dispatch.Gateway, user session.User, cfg *config.Config, bus *broadcast.Broker, logger logx.Logger) *poller.Poller {
			polls := registerCounter(metrics.NewPollsTotal())
			return poller.New(gw, user.ID, cfg.Notify.PollInterval, publishTo(bus), polls, logger)
		},
		func(cfg *config.Config, gw dispatch.Gateway, bus *broadcast.Broker, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, makePushHandler(gw, bus), logger)
		},
		func(gw dispatch.Gateway, cfg *config.Config, logger logx.Logger) *push.Registrar {
			return push.NewRegistrar(gw, push.NewLocalSource(), cfg.Push.PublicKey, logger)
		},
	)
}

func registerAgentHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		func(gw dispatch.Gateway, logger logx.Logger) *courier.Service {
			return courier.NewService(gw, logger)
		},
		func(logger logx.Logger, current *courier.Service, l *listener.Listener) *handlers.CourierHandler {
			return handlers.NewCourierHandler(logger, current, l)
		},
		func(
			logger logx.Logger,
			sess *session.Store,
			h *handlers.Handlers,
			courierH *handlers.CourierHandler,
		) http.Handler {
			return router.NewAgent(logger, sess, h, courierH)
		},
		newServer,
	)
}

// publishTo feeds transport output into the in-process bus, where the
// single broadcast transport consumes it for the listener.
func publishTo(bus *broadcast.Broker) notify.HandleFunc {
	return func(_ context.Context, ev domain.Event) error {
		bus.Publish(ev)
		return nil
	}
}
