package timer

import (
	"errors"
	"testing"
	"time"
)

func TestArmFocus_Rejections(t *testing.T) {
	t.Run("not running", func(t *testing.T) {
		r, _ := newTestRun("A", "B")
		if _, _, err := r.ArmFocus(0); !errors.Is(err, ErrNotRunning) {
			t.Errorf("err = %v, want ErrNotRunning", err)
		}
	})

	t.Run("not current split", func(t *testing.T) {
		r, _ := newTestRun("A", "B")
		_, _ = r.Start(nil)
		if _, _, err := r.ArmFocus(1); !errors.Is(err, ErrNotCurrentSplit) {
			t.Errorf("err = %v, want ErrNotCurrentSplit", err)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		r, _ := newTestRun("A")
		_, _ = r.Start(nil)
		if _, _, err := r.ArmFocus(5); !errors.Is(err, ErrNoSuchSplit) {
			t.Errorf("err = %v, want ErrNoSuchSplit", err)
		}
	})
}

func TestFocus_ArmCaptureSample(t *testing.T) {
	r, clock := newTestRun("Work", "Lunch")
	_, _ = r.Start(nil)

	action, token, err := r.ArmFocus(0)
	if err != nil {
		t.Fatalf("ArmFocus: %v", err)
	}
	if action != FocusArmedAction || token == 0 {
		t.Fatalf("action=%v token=%d, want armed with token", action, token)
	}
	if s, _ := r.Split(0); s.Focus != FocusArmed {
		t.Errorf("state = %v, want armed", s.Focus)
	}

	if err := r.CaptureFocus(0, token, "editor"); err != nil {
		t.Fatalf("CaptureFocus: %v", err)
	}
	s, _ := r.Split(0)
	if !s.IsFocusing() || s.FocusTarget != "editor" {
		t.Fatalf("split not tracking editor: %+v", s)
	}

	for _, title := range []string{"editor", "browser", "editor", "editor"} {
		clock.Advance(time.Second)
		r.Tick()
		r.SampleFocus(title, time.Second)
	}
	s, _ = r.Split(0)
	if s.FocusTime != 3*time.Second {
		t.Errorf("FocusTime = %v, want 3s", s.FocusTime)
	}

	pct, ok := s.FocusPercent()
	if !ok || pct != 75 {
		t.Errorf("FocusPercent = %v,%v, want 75,true", pct, ok)
	}
}

func TestFocus_ToggleStopsAndKeepsTime(t *testing.T) {
	r, _ := newTestRun("Work")
	_, _ = r.Start(nil)

	_, token, _ := r.ArmFocus(0)
	_ = r.CaptureFocus(0, token, "editor")
	r.SampleFocus("editor", time.Second)
	r.SampleFocus("editor", time.Second)

	action, _, err := r.ArmFocus(0)
	if err != nil {
		t.Fatalf("ArmFocus: %v", err)
	}
	if action != FocusStoppedAction {
		t.Errorf("action = %v, want stopped", action)
	}

	s, _ := r.Split(0)
	if s.Focus != FocusIdle || s.FocusTarget != "" {
		t.Errorf("split should be idle with no target: %+v", s)
	}
	if s.FocusTime != 2*time.Second {
		t.Errorf("FocusTime = %v, want 2s preserved", s.FocusTime)
	}

	if r.SampleFocus("editor", time.Second) {
		t.Error("idle split should not accumulate focus")
	}
}

func TestFocus_ArmTwiceBeforeCaptureCancels(t *testing.T) {
	r, _ := newTestRun("Work")
	_, _ = r.Start(nil)

	_, token, _ := r.ArmFocus(0)
	action, _, _ := r.ArmFocus(0)
	if action != FocusCancelledAction {
		t.Errorf("action = %v, want cancelled", action)
	}
	if err := r.CaptureFocus(0, token, "editor"); !errors.Is(err, ErrStaleCapture) {
		t.Errorf("stale capture err = %v, want ErrStaleCapture", err)
	}
	if s, _ := r.Split(0); s.Focus != FocusIdle {
		t.Errorf("state = %v, want idle", s.Focus)
	}

	// A new arm issues a fresh token; the old one stays stale.
	_, fresh, _ := r.ArmFocus(0)
	if fresh == token {
		t.Error("expected a new token")
	}
	if err := r.CaptureFocus(0, token, "x"); !errors.Is(err, ErrStaleCapture) {
		t.Errorf("old token err = %v, want ErrStaleCapture", err)
	}
	if err := r.CaptureFocus(0, fresh, "x"); err != nil {
		t.Errorf("fresh token err = %v", err)
	}
}

func TestFocus_AbortCapture(t *testing.T) {
	r, _ := newTestRun("Work")
	_, _ = r.Start(nil)
	_, token, _ := r.ArmFocus(0)
	r.AbortCapture(0, token)
	if s, _ := r.Split(0); s.Focus != FocusIdle {
		t.Errorf("state = %v, want idle", s.Focus)
	}
}

func TestFocus_SampleOnlyWhileRunning(t *testing.T) {
	r, _ := newTestRun("Work", "Rest")
	_, _ = r.Start(nil)
	_, token, _ := r.ArmFocus(0)
	_ = r.CaptureFocus(0, token, "editor")

	r.Stop()
	if r.SampleFocus("editor", time.Second) {
		t.Error("stopped run should not accumulate focus")
	}
}

func TestSplit_FocusPercentWithoutSegment(t *testing.T) {
	s := NewSplit("A")
	s.FocusTime = time.Second
	if _, ok := s.FocusPercent(); ok {
		t.Error("FocusPercent should be undefined without segment time")
	}
	s.SegmentTime = Dur(0)
	if _, ok := s.FocusPercent(); ok {
		t.Error("FocusPercent should be undefined for zero segment time")
	}
}

func TestFocus_CommitEndsTracking(t *testing.T) {
	r, clock := newTestRun("Work", "Lunch")
	_, _ = r.Start(nil)
	_, token, _ := r.ArmFocus(0)
	_ = r.CaptureFocus(0, token, "editor")

	clock.Advance(time.Second)
	r.SampleFocus("editor", time.Second)
	r.CommitSplit()

	s, _ := r.Split(0)
	if s.IsFocusing() || s.FocusTarget != "editor" || s.FocusTime != time.Second {
		t.Errorf("committed split = %+v", s)
	}
	if r.SampleFocus("editor", time.Second) {
		t.Error("next split is not tracking and should not be credited")
	}
}

func TestFocus_StopDropsPendingCapture(t *testing.T) {
	r, _ := newTestRun("A", "B")
	_, _ = r.Start(nil)
	_, token, _ := r.ArmFocus(0)

	r.Stop()
	if s, _ := r.Split(0); s.Focus != FocusIdle {
		t.Fatalf("state after stop = %v, want idle", s.Focus)
	}
	if err := r.CaptureFocus(0, token, "editor"); !errors.Is(err, ErrStaleCapture) {
		t.Errorf("CaptureFocus after stop: err = %v, want ErrStaleCapture", err)
	}

	_, _ = r.Start(nil)
	action, _, err := r.ArmFocus(0)
	if err != nil || action != FocusArmedAction {
		t.Errorf("ArmFocus after restart = %v, %v; want armed", action, err)
	}
}

func TestFocus_TrackingSurvivesStopStart(t *testing.T) {
	r, _ := newTestRun("A")
	_, _ = r.Start(nil)
	_, token, _ := r.ArmFocus(0)
	if err := r.CaptureFocus(0, token, "editor"); err != nil {
		t.Fatalf("CaptureFocus: %v", err)
	}

	r.Stop()
	if _, ok := r.TrackingTarget(); ok {
		t.Error("stopped run should not report a tracking target")
	}
	_, _ = r.Start(nil)
	if target, ok := r.TrackingTarget(); !ok || target != "editor" {
		t.Errorf("TrackingTarget after restart = %q, %v", target, ok)
	}
}
