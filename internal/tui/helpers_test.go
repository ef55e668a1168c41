package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/splitclock/internal/config"
	"github.com/npratt/splitclock/internal/controller"
	"github.com/npratt/splitclock/internal/testutil"
	"github.com/npratt/splitclock/internal/window"
)

var t0 = time.Date(2026, 3, 4, 7, 0, 0, 0, time.Local)

type harness struct {
	m      model
	ctrl   *controller.Controller
	clock  *testutil.FakeClock
	paths  config.PathsConfig
	dir    string
	copied []string
}

// newHarness builds a model over a controller with names loaded and a
// foreground window that is always "Editor".
func newHarness(t *testing.T, names ...string) *harness {
	return newHarnessWith(t, window.Static("Editor"), names...)
}

func newHarnessWith(t *testing.T, q window.Querier, names ...string) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Template.DefaultSplits = names
	cfg.Focus.CaptureDelay = 10 * time.Millisecond

	h := &harness{
		clock: testutil.NewFakeClock(t0),
		paths: config.ResolvePaths(cfg.Paths, dir),
		dir:   dir,
	}
	opts := []controller.Option{
		controller.WithClock(h.clock.Now),
		controller.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if q != nil {
		opts = append(opts, controller.WithQuerier(q))
	}
	h.ctrl = controller.New(cfg, h.paths, opts...)
	if _, err := h.ctrl.LoadStartupTemplate(""); err != nil {
		t.Fatalf("LoadStartupTemplate: %v", err)
	}

	clip := func(s string) error {
		h.copied = append(h.copied, s)
		return nil
	}
	h.m = newModel(context.Background(), h.ctrl, clip, nil)
	h.m.width = 100
	h.m.height = 30
	return h
}

// keyMsg builds the tea.KeyMsg for a key name as msg.String() reports it.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys in order and returns the last command.
func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = h.m.Update(keyMsg(k))
		h.m = next.(model)
	}
	return cmd
}

// send delivers msg and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(model)
	return cmd
}

// submit types value into the open input and presses enter.
func (h *harness) submit(value string) {
	h.m.input.SetValue(value)
	h.press("enter")
}
