package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/notify"
	"dispatch-admin/internal/notify/broadcast"
	"dispatch-admin/internal/notify/desktop"
	"dispatch-admin/internal/notify/poller"
	"dispatch-admin/internal/notify/push"
	"dispatch-admin/internal/transport/kafka"
)

// AgentRunner runs the courier agent transports and facade
type AgentRunner struct {
	runFn func(*dig.Container) error
}

// NewAgentRunner returns a new AgentRunner
func NewAgentRunner() *AgentRunner {
	return &AgentRunner{runFn: runAgent}
}

// MustRun starts the courier agent using the provided DI container
func (r *AgentRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runAgent(container *dig.Container) error {
	return container.Invoke(agentRun)
}

func agentRun(
	ctx context.Context,
	logger logx.Logger,
	server *http.Server,
	bus *broadcast.Broker,
	transport *notify.BroadcastTransport,
	pol *poller.Poller,
	consumer *kafka.Consumer,
	registrar *push.Registrar,
	notifier *desktop.Notifier,
) error {
	defer closeAgent(bus, consumer, logger)

	perm := notifier.RequestPermission()
	logger.Info("courier agent started",
		logx.String("addr", server.Addr),
		logx.String("notifications", string(perm)),
	)

	if err := registrar.Ensure(ctx); err != nil {
		logger.Warn("push registration skipped", logx.Err(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return transport.Run(gctx) })
	g.Go(func() error { return pol.Run(gctx) })
	if consumer != nil {
		g.Go(func() error { return consumer.Run(gctx) })
	}
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		gracefulShutdown(server, logger, 15*time.Second)
		return gctx.Err()
	})
	return g.Wait()
}

func closeAgent(bus *broadcast.Broker, consumer *kafka.Consumer, logger logx.Logger) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	bus.Close()
}
