package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/npratt/splitclock/internal/config"
	"github.com/npratt/splitclock/internal/controller"
	"github.com/npratt/splitclock/internal/events"
	"github.com/npratt/splitclock/internal/exec"
	"github.com/npratt/splitclock/internal/shutdown"
	"github.com/npratt/splitclock/internal/tui"
	"github.com/npratt/splitclock/internal/wake"
	"github.com/npratt/splitclock/internal/window"
)

const (
	// refreshTimeout bounds wake.refresh_command.
	refreshTimeout = 2 * time.Minute
	// saveTimeout bounds the run-state save after a signal.
	saveTimeout = 5 * time.Second
)

// runTUI opens the timer. On SIGINT or SIGTERM the run state is saved
// before exiting.
func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	cfg, paths, err := a.load()
	if err != nil {
		return err
	}
	if noFocus, _ := cmd.Flags().GetBool(FlagNoFocus); noFocus {
		cfg.Focus.Enabled = false
	}
	if !tui.IsTerminal() {
		return tui.ErrNotTerminal
	}

	ctx := cmd.Context()

	if refresh, _ := cmd.Flags().GetBool(FlagRefreshWake); refresh {
		refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		err := wake.Refresh(refreshCtx, exec.NewExecRunner(refreshTimeout), cfg.Wake.RefreshCommand)
		cancel()
		if err != nil {
			a.logger.Warn("wake source refresh failed", "error", err)
		}
	}

	// TUI mode: log to a file so nothing is printed over the screen
	logResult, err := SetupTUILogger(paths.LogDir, a.logLevel, cfg.LogRotation)
	if err != nil {
		return err
	}
	defer func() { _ = logResult.Close() }()
	logger := logResult.Logger
	slog.SetDefault(logger)

	router := events.NewRouter(events.DefaultBufferSize)
	journal := events.NewLogSink(paths.Journal, events.Rotation{
		MaxSizeMB:  cfg.LogRotation.MaxSizeMB,
		MaxBackups: cfg.LogRotation.MaxBackups,
		MaxAgeDays: cfg.LogRotation.MaxAgeDays,
		Compress:   cfg.LogRotation.Compress,
	})
	sinkCtx, sinkCancel := context.WithCancel(ctx)
	if err := journal.Start(sinkCtx, router.Subscribe()); err != nil {
		sinkCancel()
		router.Close()
		return fmt.Errorf("start journal: %w", err)
	}
	defer func() {
		sinkCancel()
		router.Close()
		_ = journal.Stop()
		if dropped := router.Dropped(); dropped > 0 {
			logger.Warn("journal events dropped", "count", dropped)
		}
	}()

	ctrl := newController(cfg, paths, router, logger)
	template, _ := cmd.Flags().GetString(FlagTemplate)
	source, err := ctrl.LoadStartupTemplate(template)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	logger.Info("splitclock starting",
		"version", version,
		"template_source", source,
		"label", ctrl.Run().Label(),
		"splits", ctrl.Run().Len(),
		"focus", cfg.Focus.Enabled,
		"wake_source", cfg.Wake.Source,
	)

	ui := tui.New(ctrl, tui.WithOnQuit(func() {
		logger.Info("quit requested", "label", ctrl.Run().Label(), "elapsed", ctrl.Run().Elapsed())
	}))
	return shutdown.RunWithGracefulShutdown(ctx, logger, saveTimeout,
		ui.Run,
		func(context.Context) error {
			return ctrl.SaveRun()
		},
	)
}

// newController wires the controller to the journal, the foreground window
// query and, when configured, the wake time source.
func newController(cfg *config.Config, paths config.PathsConfig, emitter events.Emitter, logger *slog.Logger) *controller.Controller {
	runner := exec.NewExecRunner(exec.DefaultTimeout)
	opts := []controller.Option{
		controller.WithEmitter(emitter),
		controller.WithLogger(logger),
		controller.WithQuerier(window.NewCommandQuerier(runner, cfg.Focus.Command)),
	}
	if cfg.Wake.Enabled && cfg.Wake.Source != "" {
		src := wake.NewCSVSource(cfg.Wake.Source, wake.Options{
			DateColumn: cfg.Wake.DateColumn,
			TimeColumn: cfg.Wake.TimeColumn,
			DateLayout: cfg.Wake.DateLayout,
			TimeLayout: cfg.Wake.TimeLayout,
		})
		opts = append(opts, controller.WithWakeSource(src.WakeTime))
	}
	return controller.New(cfg, paths, opts...)
}
