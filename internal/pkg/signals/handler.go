// Package signals wires OS termination signals to shutdown callbacks.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/relaymon/relaymon/internal/pkg/logger"
)

// SetupHandler invokes onSignal when SIGINT, SIGTERM, or SIGHUP arrives, or
// does nothing if ctx is cancelled first. The returned cleanup releases the
// signal registration and waits for the watcher goroutine to exit.
func SetupHandler(ctx context.Context, onSignal func()) (cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			onSignal()
		case <-ctx.Done():
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(sigCh)
		<-done
	}
}
