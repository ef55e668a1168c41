package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestRun_QuitsOnInput(t *testing.T) {
	h := newHarness(t, "A")
	quit := false
	ui := New(h.ctrl,
		WithIO(strings.NewReader("q"), io.Discard),
		WithOnQuit(func() { quit = true }),
		WithClipboard(func(string) error { return nil }),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ui.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !quit {
		t.Error("quit callback was not invoked")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	h := newHarness(t, "A")
	pr, pw := io.Pipe()
	defer pw.Close()
	ui := New(h.ctrl, WithIO(pr, io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ui.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
