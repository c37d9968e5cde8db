package main

import (
	"context"
	"os/signal"
	"syscall"

	"dispatch-admin/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	container := app.MustBuildAgentContainer(ctx)
	app.NewAgentRunner().MustRun(container)
}
