package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/npratt/splitclock/internal/config"
	"github.com/npratt/splitclock/internal/events"
	"github.com/npratt/splitclock/internal/runstate"
	"github.com/npratt/splitclock/internal/testutil"
	"github.com/npratt/splitclock/internal/timer"
	"github.com/npratt/splitclock/internal/window"
)

var t0 = time.Date(2026, 3, 4, 6, 37, 0, 0, time.Local)

type fixture struct {
	c     *Controller
	cfg   *config.Config
	paths config.PathsConfig
	clock *testutil.FakeClock
	rec   *events.Recorder
	dir   string
}

func newFixture(t *testing.T, mutate func(*config.Config), opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	f := &fixture{
		cfg:   cfg,
		paths: config.ResolvePaths(cfg.Paths, dir),
		clock: testutil.NewFakeClock(t0),
		rec:   &events.Recorder{},
		dir:   dir,
	}
	base := []Option{
		WithClock(f.clock.Now),
		WithEmitter(f.rec),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	f.c = New(cfg, f.paths, append(base, opts...)...)
	return f
}

// loaded returns a fixture with the given split names already loaded.
func loaded(t *testing.T, names ...string) *fixture {
	t.Helper()
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Template.DefaultSplits = names
	})
	if _, err := f.c.LoadStartupTemplate(""); err != nil {
		t.Fatalf("LoadStartupTemplate: %v", err)
	}
	return f
}

func hasType(types []events.EventType, want events.EventType) bool {
	for _, ty := range types {
		if ty == want {
			return true
		}
	}
	return false
}

func TestLoadStartupTemplate_Library(t *testing.T) {
	f := newFixture(t, nil)

	src, err := f.c.LoadStartupTemplate("")
	if err != nil {
		t.Fatalf("LoadStartupTemplate: %v", err)
	}
	if src != SourceLibrary {
		t.Errorf("source = %q, want %q", src, SourceLibrary)
	}
	if f.c.Run().Label() != "RIGID_SCHEDULE" {
		t.Errorf("label = %q", f.c.Run().Label())
	}
	if got := f.c.Run().Names(); !reflect.DeepEqual(got, f.cfg.Template.DefaultSplits) {
		t.Errorf("names = %v", got)
	}
	if !testutil.FileExists(t, f.paths.Library) {
		t.Error("library file should be created with the default template")
	}
}

func TestLoadStartupTemplate_Pointer(t *testing.T) {
	f := newFixture(t, nil)
	tplPath := testutil.WriteFile(t, filepath.Join(f.dir, "Weekend.json"),
		`{"Current_Template": {"splits": [{"name": "Sleep In", "best_segment": 30}]}}`)
	testutil.WriteFile(t, f.paths.LastTemplate, tplPath+"\n")

	src, err := f.c.LoadStartupTemplate("")
	if err != nil || src != SourcePointer {
		t.Fatalf("LoadStartupTemplate = %q, %v", src, err)
	}
	if f.c.Run().Label() != "Weekend" || f.c.TemplatePath() != tplPath {
		t.Errorf("label=%q path=%q", f.c.Run().Label(), f.c.TemplatePath())
	}
	s, _ := f.c.Run().Split(0)
	if s.BestSegment == nil || *s.BestSegment != 30*time.Second {
		t.Errorf("best = %v", s.BestSegment)
	}
}

func TestLoadStartupTemplate_StalePointer(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteFile(t, f.paths.LastTemplate, filepath.Join(f.dir, "gone.json"))

	src, err := f.c.LoadStartupTemplate("")
	if err != nil || src != SourceLibrary {
		t.Errorf("LoadStartupTemplate = %q, %v; want library fallback", src, err)
	}
}

func TestLoadStartupTemplate_ExplicitMissing(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.c.LoadStartupTemplate(filepath.Join(f.dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing explicit template")
	}
	if !hasType(f.rec.Types(), events.EventError) {
		t.Error("failure should be journaled")
	}
}

func TestStart_WakeAutoComplete(t *testing.T) {
	wake := func(now time.Time) (time.Time, error) { return now.Add(-1200 * time.Second), nil }
	f := newFixture(t, nil, WithWakeSource(wake))
	if _, err := f.c.LoadStartupTemplate(""); err != nil {
		t.Fatal(err)
	}

	res, err := f.c.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !res.AutoCompleted || res.WakeOffset != 1200*time.Second {
		t.Fatalf("result = %+v", res)
	}
	run := f.c.Run()
	s, _ := run.Split(0)
	if *s.SplitTime != 1200*time.Second || *s.SegmentTime != 1200*time.Second {
		t.Errorf("first split = %+v", s)
	}
	if run.CurrentIndex() != 1 || run.Elapsed() != 1200*time.Second {
		t.Errorf("index=%d elapsed=%v", run.CurrentIndex(), run.Elapsed())
	}
	want := []events.EventType{events.EventWakeAutoComplete, events.EventRunStart}
	if got := f.rec.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestStart_WakeDisabledOrFailing(t *testing.T) {
	called := false
	wake := func(now time.Time) (time.Time, error) {
		called = true
		return time.Time{}, errors.New("no data")
	}

	f := newFixture(t, func(cfg *config.Config) { cfg.Wake.Enabled = false }, WithWakeSource(wake))
	_, _ = f.c.LoadStartupTemplate("")
	if _, err := f.c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if called {
		t.Error("disabled wake source should not be consulted")
	}

	f = newFixture(t, nil, WithWakeSource(wake))
	_, _ = f.c.LoadStartupTemplate("")
	res, err := f.c.Start()
	if err != nil || res.WakeErr == nil || res.AutoCompleted {
		t.Fatalf("Start = %+v, %v", res, err)
	}
	if !f.c.Run().Running() || f.c.Run().CurrentIndex() != 0 {
		t.Error("run should start normally when the wake source fails")
	}
	evs := f.rec.Events()
	wakeEv, ok := evs[0].(*events.WakeAutoCompleteEvent)
	if !ok || !strings.Contains(wakeEv.Error, "no data") {
		t.Errorf("first event = %#v", evs[0])
	}
}

func TestSplits_ThroughFinish(t *testing.T) {
	f := loaded(t, "A", "B")

	if f.c.Split() {
		t.Error("split while stopped should be a no-op")
	}
	if _, err := f.c.Start(); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(10 * time.Second)
	if !f.c.Split() {
		t.Fatal("first split failed")
	}
	f.clock.Advance(15 * time.Second)
	f.c.Split()

	run := f.c.Run()
	if run.Running() || !run.Finished() {
		t.Error("run should stop after the last split")
	}
	b, _ := run.Split(1)
	if *b.SplitTime != 25*time.Second || *b.SegmentTime != 15*time.Second {
		t.Errorf("B = %+v", b)
	}

	want := []events.EventType{events.EventRunStart, events.EventSplitCommit, events.EventSplitCommit, events.EventRunStop}
	if got := f.rec.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	last := f.rec.Events()[2].(*events.SplitCommitEvent)
	if !last.Finished || !last.NewBest || last.SegmentTime != 15 {
		t.Errorf("last commit = %+v", last)
	}

	if _, err := f.c.Start(); !errors.Is(err, timer.ErrFinished) {
		t.Errorf("restart err = %v, want ErrFinished", err)
	}
	f.c.Reset()
	if run.CurrentIndex() != 0 || run.Elapsed() != 0 {
		t.Error("reset should clear the run")
	}
}

func TestToggle(t *testing.T) {
	f := loaded(t, "A")
	_, _ = f.c.Toggle()
	f.clock.Advance(3 * time.Second)
	_, _ = f.c.Toggle()
	if f.c.Run().Running() || f.c.Run().Elapsed() != 3*time.Second {
		t.Errorf("running=%v elapsed=%v", f.c.Run().Running(), f.c.Run().Elapsed())
	}
	f.c.Stop()
	want := []events.EventType{events.EventRunStart, events.EventRunStop}
	if got := f.rec.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestFocus_CaptureAndSample(t *testing.T) {
	f := loaded(t, "Work", "Lunch")

	if _, _, err := f.c.ToggleFocus(); !errors.Is(err, timer.ErrNotRunning) {
		t.Errorf("stopped toggle err = %v", err)
	}
	_, _ = f.c.Start()

	action, capture, err := f.c.ToggleFocus()
	if err != nil || action != timer.FocusArmedAction || capture == nil {
		t.Fatalf("ToggleFocus = %v, %v, %v", action, capture, err)
	}
	if err := f.c.CompleteCapture(*capture, "editor", nil); err != nil {
		t.Fatalf("CompleteCapture: %v", err)
	}
	if !f.c.Tracking() {
		t.Fatal("should be tracking")
	}

	for _, title := range []string{"editor", "browser", "editor"} {
		f.clock.Advance(time.Second)
		f.c.Tick()
		f.c.SampleFocus(title, nil)
	}
	f.c.SampleFocus("", errors.New("no display"))

	action, _, _ = f.c.ToggleFocus()
	if action != timer.FocusStoppedAction {
		t.Errorf("second toggle = %v, want stopped", action)
	}
	s, _ := f.c.Run().Split(0)
	if s.FocusTime != 2*time.Second {
		t.Errorf("FocusTime = %v, want 2s", s.FocusTime)
	}

	evs := f.rec.Events()
	stopped := evs[len(evs)-1].(*events.FocusEvent)
	if stopped.Type() != events.EventFocusStopped || stopped.Target != "editor" || stopped.FocusTime != 2 {
		t.Errorf("stop event = %+v", stopped)
	}
	if !hasType(f.rec.Types(), events.EventFocusTracking) {
		t.Error("missing focus.tracking event")
	}
}

func TestFocus_CaptureFailureAndCancel(t *testing.T) {
	f := loaded(t, "Work")
	_, _ = f.c.Start()

	_, capture, _ := f.c.ToggleFocus()
	if err := f.c.CompleteCapture(*capture, "", errors.New("xdotool missing")); err == nil {
		t.Fatal("expected capture error")
	}
	if s, _ := f.c.Run().Split(0); s.Focus != timer.FocusIdle {
		t.Errorf("state = %v, want idle", s.Focus)
	}

	_, capture, _ = f.c.ToggleFocus()
	action, _, _ := f.c.ToggleFocus()
	if action != timer.FocusCancelledAction {
		t.Fatalf("action = %v, want cancelled", action)
	}
	if err := f.c.CompleteCapture(*capture, "editor", nil); !errors.Is(err, timer.ErrStaleCapture) {
		t.Errorf("stale capture err = %v", err)
	}
	if f.c.Tracking() {
		t.Error("cancelled capture must not start tracking")
	}
}

func TestFocus_Disabled(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Focus.Enabled = false })
	_, _ = f.c.LoadStartupTemplate("")
	_, _ = f.c.Start()
	if _, _, err := f.c.ToggleFocus(); !errors.Is(err, ErrFocusDisabled) {
		t.Errorf("err = %v, want ErrFocusDisabled", err)
	}
}

func TestQueryWindow(t *testing.T) {
	f := newFixture(t, nil, WithQuerier(window.Static("Terminal")))
	title, err := f.c.QueryWindow(context.Background())
	if err != nil || title != "Terminal" {
		t.Errorf("QueryWindow = %q, %v", title, err)
	}

	f = newFixture(t, nil)
	if _, err := f.c.QueryWindow(context.Background()); !errors.Is(err, window.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestTemplate_ExportImportAndBests(t *testing.T) {
	f := loaded(t, "A", "B")
	path := filepath.Join(f.dir, "templates", "Morning.json")

	if _, err := f.c.UpdateBests(""); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("UpdateBests without template err = %v", err)
	}

	_, _ = f.c.Start()
	f.clock.Advance(40 * time.Second)
	f.c.Split()
	if err := f.c.ExportTemplate(path); err != nil {
		t.Fatalf("ExportTemplate: %v", err)
	}
	if got := strings.TrimSpace(testutil.ReadFile(t, f.paths.LastTemplate)); got != path {
		t.Errorf("pointer = %q, want %q", got, path)
	}

	f.c.Reset()
	f.clock.Advance(time.Minute)
	_, _ = f.c.Start()
	f.clock.Advance(50 * time.Second)
	f.c.Split()

	updated, err := f.c.UpdateBests("")
	if err != nil || !updated {
		t.Fatalf("UpdateBests = %v, %v", updated, err)
	}

	if err := f.c.ImportTemplate(path); err != nil {
		t.Fatalf("ImportTemplate: %v", err)
	}
	run := f.c.Run()
	if run.Label() != "Morning" || run.Running() || run.CurrentIndex() != 0 {
		t.Errorf("imported run label=%q running=%v index=%d", run.Label(), run.Running(), run.CurrentIndex())
	}
	a, _ := run.Split(0)
	if a.BestSegment == nil || *a.BestSegment != 50*time.Second {
		t.Errorf("best after sync = %v, want 50s", a.BestSegment)
	}
}

func TestImportTemplate_FailureKeepsRun(t *testing.T) {
	f := loaded(t, "A", "B")
	bad := testutil.WriteFile(t, filepath.Join(f.dir, "bad.json"), `{"x": 1}`)

	if err := f.c.ImportTemplate(bad); err == nil {
		t.Fatal("expected error")
	}
	if got := f.c.Run().Names(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("names changed to %v", got)
	}
}

func TestRunState_SaveLoad(t *testing.T) {
	f := loaded(t, "A", "B", "C")

	if err := f.c.LoadRun(); !errors.Is(err, runstate.ErrNoSavedRun) {
		t.Errorf("LoadRun without file err = %v", err)
	}

	_, _ = f.c.Start()
	f.clock.Advance(12 * time.Second)
	f.c.Split()
	f.clock.Advance(3 * time.Second)
	if err := f.c.SaveRun(); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if !f.c.HasSavedRun() {
		t.Error("HasSavedRun = false after save")
	}

	f.c.Reset()
	_, _ = f.c.Start()
	if err := f.c.LoadRun(); err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	run := f.c.Run()
	if run.Running() {
		t.Error("loaded run should be stopped")
	}
	if run.CurrentIndex() != 1 || run.Elapsed() != 15*time.Second || run.LastSplitTime() != 12*time.Second {
		t.Errorf("index=%d elapsed=%v last=%v", run.CurrentIndex(), run.Elapsed(), run.LastSplitTime())
	}
	for _, want := range []events.EventType{events.EventStateSave, events.EventStateLoad} {
		if !hasType(f.rec.Types(), want) {
			t.Errorf("missing %s event", want)
		}
	}
}

func TestLoadRun_DetachesOtherTemplate(t *testing.T) {
	f := loaded(t, "A", "B")
	_, _ = f.c.Start()
	f.clock.Advance(10 * time.Second)
	f.c.Split()
	if err := f.c.SaveRun(); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	gym := testutil.WriteFile(t, filepath.Join(f.dir, "Gym.json"),
		`{"Current_Template": {"splits": [{"name": "Lift", "best_segment": 60}]}}`)
	if err := f.c.ImportTemplate(gym); err != nil {
		t.Fatalf("ImportTemplate: %v", err)
	}
	if err := f.c.LoadRun(); err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if f.c.TemplatePath() != "" {
		t.Errorf("template path = %q, want detached", f.c.TemplatePath())
	}
	if _, err := f.c.UpdateBests(""); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("UpdateBests err = %v, want ErrNoTemplate", err)
	}
	if got := testutil.ReadFile(t, gym); !strings.Contains(got, `"best_segment": 60`) {
		t.Errorf("unrelated template changed:\n%s", got)
	}
}

func TestLoadRun_KeepsMatchingTemplate(t *testing.T) {
	f := newFixture(t, nil)
	tpl := testutil.WriteFile(t, filepath.Join(f.dir, "Morning.json"),
		`{"Current_Template": {"splits": [{"name": "A"}, {"name": "B"}]}}`)
	if err := f.c.ImportTemplate(tpl); err != nil {
		t.Fatalf("ImportTemplate: %v", err)
	}
	_, _ = f.c.Start()
	if err := f.c.SaveRun(); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := f.c.LoadRun(); err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if f.c.TemplatePath() != tpl {
		t.Errorf("template path = %q, want %q", f.c.TemplatePath(), tpl)
	}
}

func TestExportCSV(t *testing.T) {
	f := loaded(t, "A")
	_, _ = f.c.Start()
	f.clock.Advance(90 * time.Second)
	f.c.Split()

	path, err := f.c.ExportCSV("")
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	wantName := "speedrun_RIGID_SCHEDULE_" + t0.Add(90*time.Second).Format("2006-01-02_15-04-05") + ".csv"
	if filepath.Dir(path) != f.paths.Reports || filepath.Base(path) != wantName {
		t.Errorf("path = %q", path)
	}
	if f.c.LastReport() != path {
		t.Errorf("LastReport = %q", f.c.LastReport())
	}
	body := testutil.ReadFile(t, path)
	if !strings.Contains(body, "A,00:01:30,00:01:30,00:01:30,,") {
		t.Errorf("report body:\n%s", body)
	}

	data, err := f.c.ReportCSV()
	if err != nil || !strings.HasPrefix(string(data), "Run Type,RIGID_SCHEDULE\n") {
		t.Errorf("ReportCSV = %q, %v", data, err)
	}
}

func TestEditing(t *testing.T) {
	f := loaded(t, "A", "B")

	if err := f.c.SetSplitTimes(0, "00:01:00", "bad", ""); !errors.Is(err, timer.ErrInvalidClock) {
		t.Errorf("invalid time err = %v", err)
	}
	if s, _ := f.c.Run().Split(0); s.SplitTime != nil {
		t.Error("failed edit must not change the split")
	}
	if err := f.c.SetSplitTimes(0, "00:01:00", "00:01:00", "00:00:50"); err != nil {
		t.Fatalf("SetSplitTimes: %v", err)
	}
	if err := f.c.RenameSplit(1, "Bee"); err != nil {
		t.Fatalf("RenameSplit: %v", err)
	}
	idx, _ := f.c.AddSplit("")
	if _, err := f.c.MoveSplit(idx, -1); err != nil {
		t.Fatalf("MoveSplit: %v", err)
	}
	if err := f.c.RemoveSplit(2); err != nil {
		t.Fatalf("RemoveSplit: %v", err)
	}
	if got := f.c.Run().Names(); !reflect.DeepEqual(got, []string{"A", "New Split 3"}) {
		t.Errorf("names = %v", got)
	}

	_, _ = f.c.Start()
	if err := f.c.RenameSplit(0, "x"); !errors.Is(err, timer.ErrRunning) {
		t.Errorf("edit while running err = %v", err)
	}
}
