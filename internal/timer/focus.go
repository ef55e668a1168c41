package timer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotRunning is returned when focus tracking is requested while stopped.
	ErrNotRunning = errors.New("timer must be running to track focus")
	// ErrNotCurrentSplit is returned when focus tracking targets a split other
	// than the one in progress.
	ErrNotCurrentSplit = errors.New("can only track focus for the current split")
	// ErrNoSuchSplit is returned for an out-of-range split index.
	ErrNoSuchSplit = errors.New("no such split")
	// ErrStaleCapture is returned when a delayed capture no longer applies.
	ErrStaleCapture = errors.New("focus capture no longer pending")
)

// FocusAction is what ArmFocus did.
type FocusAction int

const (
	// FocusArmedAction scheduled a foreground-window capture.
	FocusArmedAction FocusAction = iota + 1
	// FocusStoppedAction stopped tracking a captured window.
	FocusStoppedAction
	// FocusCancelledAction dropped a capture that had not happened yet.
	FocusCancelledAction
)

// String returns a short label for the action.
func (a FocusAction) String() string {
	switch a {
	case FocusArmedAction:
		return "armed"
	case FocusStoppedAction:
		return "stopped"
	case FocusCancelledAction:
		return "cancelled"
	default:
		return "none"
	}
}

// ArmFocus toggles focus tracking on split i, which must be the split in
// progress of a running run. An idle split is armed and the returned token
// must be passed to CaptureFocus once the capture delay has passed. Arming a
// tracking split stops tracking and keeps the focus time gathered so far;
// arming an armed split cancels the pending capture.
func (r *Run) ArmFocus(i int) (FocusAction, uint64, error) {
	if i < 0 || i >= len(r.splits) {
		return 0, 0, fmt.Errorf("%w: %d", ErrNoSuchSplit, i)
	}
	if !r.running {
		return 0, 0, ErrNotRunning
	}
	if i != r.currentIndex {
		return 0, 0, ErrNotCurrentSplit
	}

	s := &r.splits[i]
	switch s.Focus {
	case FocusTracking:
		s.Focus = FocusIdle
		s.FocusTarget = ""
		return FocusStoppedAction, 0, nil
	case FocusArmed:
		s.Focus = FocusIdle
		s.captureToken = 0
		return FocusCancelledAction, 0, nil
	}

	r.nextToken++
	s.Focus = FocusArmed
	s.captureToken = r.nextToken
	return FocusArmedAction, s.captureToken, nil
}

// CaptureFocus records title as the focus target of split i and starts
// tracking it. token must match the one handed out by the arming call.
func (r *Run) CaptureFocus(i int, token uint64, title string) error {
	if i < 0 || i >= len(r.splits) {
		return fmt.Errorf("%w: %d", ErrNoSuchSplit, i)
	}
	s := &r.splits[i]
	if s.Focus != FocusArmed || token == 0 || s.captureToken != token {
		return ErrStaleCapture
	}
	s.FocusTarget = title
	s.Focus = FocusTracking
	s.captureToken = 0
	return nil
}

// AbortCapture returns an armed split to idle, for when the capture failed.
func (r *Run) AbortCapture(i int, token uint64) {
	if i < 0 || i >= len(r.splits) {
		return
	}
	s := &r.splits[i]
	if s.Focus == FocusArmed && s.captureToken == token {
		s.Focus = FocusIdle
		s.captureToken = 0
	}
}

// TrackingTarget returns the focus target of the split in progress, if the
// run is running and that split is tracking.
func (r *Run) TrackingTarget() (string, bool) {
	if !r.running || r.currentIndex >= len(r.splits) {
		return "", false
	}
	s := r.splits[r.currentIndex]
	if !s.IsFocusing() {
		return "", false
	}
	return s.FocusTarget, true
}

// SampleFocus credits unit of focus time to the split in progress when title
// is its tracked window. It reports whether time was credited.
func (r *Run) SampleFocus(title string, unit time.Duration) bool {
	target, ok := r.TrackingTarget()
	if !ok || title != target {
		return false
	}
	r.splits[r.currentIndex].FocusTime += unit
	return true
}
