package events

import (
	"strings"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	at := time.Now()
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "run start",
			event: &RunEvent{BaseEvent: NewBase(EventRunStart, SourceUser, at), Label: "M", Elapsed: 65, CurrentIndex: 1, Splits: 4},
			want:  "run M started at 00:01:05 (split 2/4)",
		},
		{
			name:  "split with best",
			event: &SplitCommitEvent{BaseEvent: NewBase(EventSplitCommit, SourceUser, at), Index: 0, Name: "Wake", SplitTime: 3600, SegmentTime: 3600, NewBest: true},
			want:  `split 1 "Wake": 01:00:00 (segment 01:00:00) new best`,
		},
		{
			name:  "wake skipped",
			event: &WakeAutoCompleteEvent{BaseEvent: NewBase(EventWakeAutoComplete, SourceTimer, at), Name: "Wake Up", Error: "no entry"},
			want:  `wake auto-complete skipped for "Wake Up": no entry`,
		},
		{
			name:  "focus cancelled",
			event: &FocusEvent{BaseEvent: NewBase(EventFocusStopped, SourceFocus, at), Name: "Work", Cancelled: true},
			want:  `focus capture cancelled on "Work"`,
		},
		{
			name:  "bests unchanged",
			event: &TemplateEvent{BaseEvent: NewBase(EventTemplateBests, SourceFile, at), Path: "t.json"},
			want:  "best segments in t.json already up to date",
		},
		{
			name:  "error sanitized",
			event: &ErrorEvent{BaseEvent: NewBase(EventError, SourceFile, at), Op: "save", Message: "disk\nfull\x1b[31m"},
			want:  "error in save: disk full",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.event); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWithTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 4, 7, 8, 9, 0, time.Local)
	got := FormatWithTimestamp(&FileEvent{BaseEvent: NewBase(EventStateSave, SourceFile, at), Path: "s.json", Label: "M"})
	if got != "[2026-03-04 07:08:09] saved run M to s.json" {
		t.Errorf("got %q", got)
	}
	if FormatWithTimestamp(nil) != "" {
		t.Error("nil event should format as empty")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate(strings.Repeat("a", 20), 10); got != "aaaaaaa..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("abcdef", 2); got != "..." {
		t.Errorf("got %q", got)
	}
}
