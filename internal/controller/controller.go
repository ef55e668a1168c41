// Package controller drives a run on behalf of the user interface. It owns
// the timer.Run, connects it to files, the wake source and the window
// querier, and journals every operation. A Controller is not safe for
// concurrent use; the UI event loop owns it. QueryWindow is the exception
// and may run on any goroutine.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/npratt/splitclock/internal/config"
	"github.com/npratt/splitclock/internal/events"
	"github.com/npratt/splitclock/internal/runstate"
	"github.com/npratt/splitclock/internal/template"
	"github.com/npratt/splitclock/internal/timer"
	"github.com/npratt/splitclock/internal/window"
)

// ErrNoTemplate is returned when an operation needs a loaded template file.
var ErrNoTemplate = errors.New("no template file loaded")

// Controller coordinates the run with persistence and focus tracking.
type Controller struct {
	cfg     *config.Config
	paths   config.PathsConfig
	run     *timer.Run
	now     func() time.Time
	wake    timer.WakeFunc
	querier window.Querier
	emitter events.Emitter
	logger  *slog.Logger

	store   *runstate.Store
	pointer *template.Pointer
	library *template.Library

	templatePath string
	lastReport   string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the wall-clock source for the run, events and reports.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithWakeSource sets where the first split's wake time comes from.
func WithWakeSource(wake timer.WakeFunc) Option {
	return func(c *Controller) {
		c.wake = wake
	}
}

// WithQuerier sets the foreground window querier used for focus tracking.
func WithQuerier(q window.Querier) Option {
	return func(c *Controller) {
		c.querier = q
	}
}

// WithEmitter sets where journal events go.
func WithEmitter(e events.Emitter) Option {
	return func(c *Controller) {
		c.emitter = e
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a Controller with an empty run. paths must already be
// resolved. Call LoadStartupTemplate to load the first template.
func New(cfg *config.Config, paths config.PathsConfig, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		paths:   paths,
		now:     time.Now,
		logger:  slog.Default(),
		store:   runstate.NewStore(paths.RunState),
		pointer: template.NewPointer(paths.LastTemplate),
		library: template.NewLibrary(paths.Library),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.run = timer.New(timer.DefaultLabel, nil,
		timer.WithClock(c.now),
		timer.WithWakeKeywords(cfg.Wake.Keywords),
	)
	return c
}

// Run returns the run for reading. Mutations go through the Controller.
func (c *Controller) Run() *timer.Run {
	return c.run
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() *config.Config {
	return c.cfg
}

// TemplatePath returns the template file the current splits came from.
func (c *Controller) TemplatePath() string {
	return c.templatePath
}

// LastReport returns the path of the most recent CSV export.
func (c *Controller) LastReport() string {
	return c.lastReport
}

// Start starts the clock, auto-completing a wake-up first split when the
// wake source is enabled.
func (c *Controller) Start() (timer.StartResult, error) {
	if c.run.Running() {
		return timer.StartResult{}, nil
	}
	res, err := c.run.Start(c.wakeFunc())
	if err != nil {
		c.fail("start", err)
		return res, err
	}
	c.noteWake(res)
	c.emit(c.runEvent(events.EventRunStart, events.SourceUser))
	c.logger.Info("run started", "label", c.run.Label(), "index", c.run.CurrentIndex(), "elapsed", c.run.Elapsed())
	return res, nil
}

// Stop stops the clock.
func (c *Controller) Stop() {
	if !c.run.Running() {
		return
	}
	c.run.Stop()
	c.emit(c.runEvent(events.EventRunStop, events.SourceUser))
	c.logger.Info("run stopped", "label", c.run.Label(), "elapsed", c.run.Elapsed())
}

// Toggle starts a stopped run or stops a running one.
func (c *Controller) Toggle() (timer.StartResult, error) {
	if c.run.Running() {
		c.Stop()
		return timer.StartResult{}, nil
	}
	return c.Start()
}

// Reset stops the run and clears its times, keeping names and bests.
func (c *Controller) Reset() {
	c.run.Reset()
	c.emit(c.runEvent(events.EventRunReset, events.SourceUser))
	c.logger.Info("run reset", "label", c.run.Label())
}

// Tick refreshes the live times. It is called on every display tick.
func (c *Controller) Tick() {
	c.run.Tick()
}

// Split completes the split in progress. It reports false when there was
// nothing to complete.
func (c *Controller) Split() bool {
	idx := c.run.CurrentIndex()
	var prevBest *time.Duration
	if s, ok := c.run.Split(idx); ok && s.BestSegment != nil {
		prevBest = timer.Dur(*s.BestSegment)
	}
	if !c.run.CommitSplit() {
		return false
	}

	s, _ := c.run.Split(idx)
	ev := &events.SplitCommitEvent{
		BaseEvent:   events.NewBase(events.EventSplitCommit, events.SourceUser, c.now()),
		Index:       idx,
		Name:        s.Name,
		SplitTime:   seconds(s.SplitTime),
		SegmentTime: seconds(s.SegmentTime),
		BestSegment: timer.Seconds(s.BestSegment),
		NewBest:     prevBest == nil || (s.BestSegment != nil && *s.BestSegment < *prevBest),
		Finished:    c.run.Finished(),
	}
	c.emit(ev)
	c.logger.Info("split committed", "split", s.Name, "index", idx,
		"split_time", timer.FormatOptional(s.SplitTime), "segment", timer.FormatOptional(s.SegmentTime))
	if ev.Finished {
		c.emit(c.runEvent(events.EventRunStop, events.SourceTimer))
		c.logger.Info("run finished", "label", c.run.Label(), "elapsed", c.run.Elapsed())
	}
	return true
}

func (c *Controller) wakeFunc() timer.WakeFunc {
	if !c.cfg.Wake.Enabled || c.wake == nil {
		return nil
	}
	return c.wake
}

func (c *Controller) noteWake(res timer.StartResult) {
	if !res.AutoCompleted && res.WakeErr == nil {
		return
	}
	first, _ := c.run.Split(0)
	ev := &events.WakeAutoCompleteEvent{
		BaseEvent: events.NewBase(events.EventWakeAutoComplete, events.SourceTimer, c.now()),
		Name:      first.Name,
	}
	if res.AutoCompleted {
		ev.Offset = res.WakeOffset.Seconds()
		c.logger.Info("first split completed from wake time", "split", first.Name, "offset", res.WakeOffset)
	} else {
		ev.Error = res.WakeErr.Error()
		c.logger.Warn("wake auto-complete skipped", "split", first.Name, "error", res.WakeErr)
	}
	c.emit(ev)
}

func (c *Controller) runEvent(t events.EventType, src string) *events.RunEvent {
	return &events.RunEvent{
		BaseEvent:    events.NewBase(t, src, c.now()),
		Label:        c.run.Label(),
		Elapsed:      c.run.Elapsed().Seconds(),
		CurrentIndex: c.run.CurrentIndex(),
		Splits:       c.run.Len(),
	}
}

func (c *Controller) emit(ev events.Event) {
	if c.emitter != nil {
		c.emitter.Emit(ev)
	}
}

// fail journals and logs a failed operation.
func (c *Controller) fail(op string, err error) {
	c.emit(&events.ErrorEvent{
		BaseEvent: events.NewBase(events.EventError, events.SourceUser, c.now()),
		Op:        op,
		Message:   err.Error(),
	})
	c.logger.Error(op+" failed", "error", err)
}

func seconds(d *time.Duration) float64 {
	if d == nil {
		return 0
	}
	return d.Seconds()
}

// QueryWindow asks the querier for the foreground window title.
func (c *Controller) QueryWindow(ctx context.Context) (string, error) {
	if c.querier == nil {
		return "", window.ErrUnsupported
	}
	return c.querier.ActiveWindowTitle(ctx)
}
