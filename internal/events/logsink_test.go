package events

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLogSink_AppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")

	for _, label := range []string{"first", "second"} {
		sink := NewLogSink(path, Rotation{MaxSizeMB: 1})
		ch := make(chan Event, 4)
		ctx, cancel := context.WithCancel(context.Background())
		if err := sink.Start(ctx, ch); err != nil {
			t.Fatalf("Start: %v", err)
		}
		ch <- runStart(label)
		close(ch)
		if err := sink.Stop(); err != nil {
			t.Fatalf("Stop: %v", err)
		}
		cancel()
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer func() { _ = f.Close() }()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ev, err := ParseEvent(scanner.Bytes())
		if err != nil {
			t.Fatalf("ParseEvent: %v", err)
		}
		labels = append(labels, ev.(*RunEvent).Label)
	}
	if len(labels) != 2 || labels[0] != "first" || labels[1] != "second" {
		t.Errorf("labels = %v", labels)
	}
}

func TestLogSink_DrainsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	sink := NewLogSink(path, Rotation{})
	ch := make(chan Event, 4)
	ch <- runStart("a")
	ch <- runStart("b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sink.Start(ctx, ch); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sink.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("journal has %d lines, want 2", lines)
	}
}

func TestLogSink_Path(t *testing.T) {
	sink := NewLogSink("/tmp/j.jsonl", Rotation{})
	if sink.Path() != "/tmp/j.jsonl" {
		t.Errorf("Path = %q", sink.Path())
	}
}
