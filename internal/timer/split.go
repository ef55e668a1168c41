// Package timer holds the split-timer engine: the ordered splits of a run,
// the wall-clock bookkeeping that fills in split and segment times, best
// segment tracking, and per-split window focus accounting.
package timer

import "time"

// FocusState is the window-focus tracking state of a single split.
type FocusState int

const (
	// FocusIdle means no window is tracked for the split.
	FocusIdle FocusState = iota
	// FocusArmed means a foreground-window capture is pending.
	FocusArmed
	// FocusTracking means the captured window is being sampled.
	FocusTracking
)

// String returns a short label for the state.
func (s FocusState) String() string {
	switch s {
	case FocusArmed:
		return "armed"
	case FocusTracking:
		return "tracking"
	default:
		return "idle"
	}
}

// Split is one named checkpoint of a run.
type Split struct {
	Name        string
	SplitTime   *time.Duration
	SegmentTime *time.Duration
	BestSegment *time.Duration

	// FocusTime accumulates while FocusTarget is the foreground window.
	FocusTime   time.Duration
	FocusTarget string
	Focus       FocusState

	captureToken uint64
}

// NewSplit returns an empty split with the given name.
func NewSplit(name string) Split {
	return Split{Name: name}
}

// IsFocusing reports whether the split is sampling its focus target.
func (s Split) IsFocusing() bool {
	return s.Focus == FocusTracking
}

// FocusPercent returns focus time as a percentage of the segment time.
// ok is false when there is no positive segment time to divide by.
func (s Split) FocusPercent() (pct float64, ok bool) {
	if s.SegmentTime == nil || *s.SegmentTime <= 0 {
		return 0, false
	}
	return float64(s.FocusTime) / float64(*s.SegmentTime) * 100, true
}

// clearTimes drops the recorded times and focus state, keeping the name and
// best segment.
func (s *Split) clearTimes() {
	s.SplitTime = nil
	s.SegmentTime = nil
	s.FocusTime = 0
	s.FocusTarget = ""
	s.Focus = FocusIdle
}

// Dur returns a pointer to a copy of d.
func Dur(d time.Duration) *time.Duration {
	return &d
}

// cloneDur copies the pointee so callers never share mutable durations.
func cloneDur(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	return Dur(*d)
}

func (s Split) clone() Split {
	c := s
	c.SplitTime = cloneDur(s.SplitTime)
	c.SegmentTime = cloneDur(s.SegmentTime)
	c.BestSegment = cloneDur(s.BestSegment)
	return c
}
