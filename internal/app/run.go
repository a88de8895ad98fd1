package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Main builds the service, serves until SIGINT/SIGTERM, then drains for up
// to ten seconds. It returns the process exit code.
func Main(service Service) int {
	a, err := New(service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start %s: %v\n", service, err)
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Start()
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			a.Log.Error("Server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		a.Log.Error("Shutdown failed", "error", err)
		return 1
	}
	return 0
}
