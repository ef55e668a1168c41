// Package tui provides the terminal split timer using bubbletea.
package tui

import (
	"context"
	"errors"
	"io"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/splitclock/internal/controller"
)

// ErrNotTerminal is returned by Run when stdin or stdout is not a TTY.
var ErrNotTerminal = errors.New("splitclock needs an interactive terminal")

// TUI is the interactive split timer.
type TUI struct {
	ctrl   *controller.Controller
	copy   func(string) error
	onQuit func()
	input  io.Reader
	output io.Writer
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI driving ctrl.
func New(ctrl *controller.Controller, opts ...Option) *TUI {
	t := &TUI{
		ctrl: ctrl,
		copy: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithClipboard replaces the system clipboard writer used by the copy key.
func WithClipboard(fn func(string) error) Option {
	return func(t *TUI) {
		t.copy = fn
	}
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// WithIO runs the program over the given streams instead of the terminal.
// The TTY check is skipped.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(t *TUI) {
		t.input = in
		t.output = out
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.input != nil || t.output != nil {
		opts = append(opts, tea.WithInput(t.input), tea.WithOutput(t.output))
	} else {
		if !isTerminal() {
			return ErrNotTerminal
		}
		opts = append(opts, tea.WithAltScreen())
	}

	m := newModel(ctx, t.ctrl, t.copy, t.onQuit)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
