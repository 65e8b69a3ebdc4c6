package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/interfaces/cli"
	"github.com/noar-utils/snapshooter/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		container.Logger.Log(ports.LogLevelWarn, "Received shutdown signal, stopping after the current step", nil)
		cancel()
	}()

	cli.Execute(ctx, container.GetCLIContainer())

	if err := container.Shutdown(ctx); err != nil {
		container.Logger.LogError(err, "Error during shutdown", nil)
	}
}
