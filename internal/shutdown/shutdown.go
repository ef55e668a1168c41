// Package shutdown runs the interactive session so that an interrupt or
// terminate signal still gets a chance to persist the run.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ErrRunnerStuck is returned when the runner ignores cancellation past the
// timeout. The shutdown hook is not run because the runner still owns its
// state.
var ErrRunnerStuck = errors.New("runner did not stop after signal")

// notify is swapped in tests.
var notify = signal.Notify

// RunWithGracefulShutdown runs runner until it returns or SIGINT/SIGTERM
// arrives. On a signal the runner's context is cancelled and, once the
// runner has returned, onSignal runs with a context bounded by timeout.
// A runner still going after timeout yields ErrRunnerStuck and onSignal is
// skipped.
func RunWithGracefulShutdown(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	onSignal func(ctx context.Context) error,
) error {
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-runDone:
		return err
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig)
		runCancel()

		var runErr error
		select {
		case runErr = <-runDone:
		case <-time.After(timeout):
			logger.Error("runner did not stop before timeout, skipping shutdown hook")
			return ErrRunnerStuck
		}

		saveCtx, saveCancel := context.WithTimeout(context.Background(), timeout)
		defer saveCancel()
		if err := onSignal(saveCtx); err != nil {
			logger.Error("shutdown hook failed", "error", err)
			return err
		}

		logger.Info("shutdown complete")
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}
		return nil
	}
}
