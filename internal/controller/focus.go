package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/npratt/splitclock/internal/events"
	"github.com/npratt/splitclock/internal/timer"
)

// ErrFocusDisabled is returned when focus tracking is turned off in config.
var ErrFocusDisabled = errors.New("focus tracking disabled")

// Capture identifies a pending foreground-window capture.
type Capture struct {
	Index int
	Token uint64
}

// FocusEnabled reports whether focus tracking is configured on.
func (c *Controller) FocusEnabled() bool {
	return c.cfg.Focus.Enabled
}

// CaptureDelay is how long to wait between arming and capturing.
func (c *Controller) CaptureDelay() time.Duration {
	return c.cfg.Focus.CaptureDelay
}

// PollInterval is the focus sampling cadence and the credit per sample.
func (c *Controller) PollInterval() time.Duration {
	return c.cfg.Focus.PollInterval
}

// TickInterval is the display refresh cadence.
func (c *Controller) TickInterval() time.Duration {
	return c.cfg.Timer.TickInterval
}

// ToggleFocus arms, cancels or stops focus tracking on the split in
// progress. When it arms, the returned Capture must be completed with
// CompleteCapture after CaptureDelay.
func (c *Controller) ToggleFocus() (timer.FocusAction, *Capture, error) {
	if !c.FocusEnabled() {
		return 0, nil, ErrFocusDisabled
	}
	idx := c.run.CurrentIndex()
	before, _ := c.run.Split(idx)
	action, token, err := c.run.ArmFocus(idx)
	if err != nil {
		c.logger.Warn("focus toggle rejected", "index", idx, "error", err)
		return 0, nil, err
	}

	s, _ := c.run.Split(idx)
	ev := &events.FocusEvent{
		BaseEvent: events.NewBase(events.EventFocusStopped, events.SourceUser, c.now()),
		Index:     idx,
		Name:      s.Name,
	}
	var capture *Capture
	switch action {
	case timer.FocusArmedAction:
		ev.EventType = events.EventFocusArmed
		capture = &Capture{Index: idx, Token: token}
		c.logger.Info("focus armed", "split", s.Name, "delay", c.CaptureDelay())
	case timer.FocusStoppedAction:
		ev.Target = before.FocusTarget
		ev.FocusTime = s.FocusTime.Seconds()
		c.logger.Info("focus tracking stopped", "split", s.Name, "focus_time", s.FocusTime)
	case timer.FocusCancelledAction:
		ev.Cancelled = true
		c.logger.Info("focus capture cancelled", "split", s.Name)
	}
	c.emit(ev)
	return action, capture, nil
}

// CompleteCapture finishes a pending capture with the queried window title,
// or abandons it when the query failed. A capture that was cancelled or
// superseded in the meantime returns timer.ErrStaleCapture.
func (c *Controller) CompleteCapture(capture Capture, title string, queryErr error) error {
	if queryErr != nil {
		c.run.AbortCapture(capture.Index, capture.Token)
		err := fmt.Errorf("capture foreground window: %w", queryErr)
		c.fail("focus", err)
		return err
	}
	if err := c.run.CaptureFocus(capture.Index, capture.Token, title); err != nil {
		c.logger.Debug("capture ignored", "index", capture.Index, "error", err)
		return err
	}

	s, _ := c.run.Split(capture.Index)
	c.emit(&events.FocusEvent{
		BaseEvent: events.NewBase(events.EventFocusTracking, events.SourceFocus, c.now()),
		Index:     capture.Index,
		Name:      s.Name,
		Target:    title,
	})
	c.logger.Info("focus tracking", "split", s.Name, "target", title)
	return nil
}

// Tracking reports whether the split in progress is sampling a target.
func (c *Controller) Tracking() bool {
	_, ok := c.run.TrackingTarget()
	return ok
}

// SampleFocus credits one poll interval of focus time when title matches
// the tracked window. A failed query is logged and skipped.
func (c *Controller) SampleFocus(title string, queryErr error) bool {
	if queryErr != nil {
		c.logger.Debug("focus sample skipped", "error", queryErr)
		return false
	}
	return c.run.SampleFocus(title, c.PollInterval())
}
