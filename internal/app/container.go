package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"dispatch-admin/internal/config"
	"dispatch-admin/internal/gateway/dispatch"
	"dispatch-admin/internal/http/handlers"
	"dispatch-admin/internal/http/router"
	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/metrics"
	"dispatch-admin/internal/notify"
	"dispatch-admin/internal/notify/broadcast"
	"dispatch-admin/internal/service/assignment"
	"dispatch-admin/internal/service/orders"
	"dispatch-admin/internal/service/refs"
	"dispatch-admin/internal/session"
)

// ContainerBuilder is a dig container builder for the operator console.
type ContainerBuilder struct {
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{logFatalf: log.Fatalf}
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerNotify(container); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
		func(cfg *config.Config) (*session.Store, error) {
			return session.FromToken(cfg.Token)
		},
	)
}

func registerGateway(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, sess *session.Store, logger logx.Logger) *dispatch.Client {
			return dispatch.NewClient(cfg.API, sess, logger)
		},
		func(client *dispatch.Client, cfg *config.Config, logger logx.Logger) dispatch.Gateway {
			retries := registerCounter(metrics.NewGatewayRetriesTotal())
			return dispatch.NewRetryingGateway(client, logger, retries, cfg.Gateway)
		},
	)
}

func registerNotify(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger) *broadcast.Broker {
			dropped := registerCounter(metrics.NewBroadcastDroppedTotal())
			return broadcast.NewBroker(cfg.Notify.BufferSize, dropped, logger)
		},
		func(bus *broadcast.Broker, cfg *config.Config, logger logx.Logger) *notify.Dispatcher {
			return notify.NewDispatcher(bus, cfg.Notify.DispatchDelay, logger)
		},
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		assignment.NewMachine,
		func(gw dispatch.Gateway, logger logx.Logger) *refs.Service {
			return refs.NewService(gw, logger)
		},
		func(gw dispatch.Gateway, logger logx.Logger) *orders.Service {
			return orders.NewService(gw, logger)
		},
		func(
			machine *assignment.Machine,
			gw dispatch.Gateway,
			disp *notify.Dispatcher,
			ord *orders.Service,
			logger logx.Logger,
		) *assignment.Service {
			return assignment.NewService(machine, gw, disp, ord, logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		func(logger logx.Logger, create *assignment.Service, refsSvc *refs.Service) *handlers.CreateHandler {
			return handlers.NewCreateHandler(logger, create, refsSvc)
		},
		func(logger logx.Logger, ord *orders.Service) *handlers.OrdersHandler {
			return handlers.NewOrdersHandler(logger, ord)
		},
		func(
			logger logx.Logger,
			sess *session.Store,
			h *handlers.Handlers,
			create *handlers.CreateHandler,
			ord *handlers.OrdersHandler,
		) http.Handler {
			return router.NewAdmin(logger, sess, h, create, ord)
		},
		newServer,
	)
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
