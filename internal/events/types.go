// Package events defines the journal event taxonomy, the in-process router
// that fans events out, and the sinks that record them.
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

const (
	// Run lifecycle
	EventRunStart EventType = "run.start"
	EventRunStop  EventType = "run.stop"
	EventRunReset EventType = "run.reset"

	// Splits
	EventSplitCommit      EventType = "split.commit"
	EventWakeAutoComplete EventType = "wake.autocomplete"

	// Focus tracking
	EventFocusArmed    EventType = "focus.armed"
	EventFocusTracking EventType = "focus.tracking"
	EventFocusStopped  EventType = "focus.stopped"

	// Templates
	EventTemplateImport EventType = "template.import"
	EventTemplateExport EventType = "template.export"
	EventTemplateBests  EventType = "template.bests"

	// Run state and reports
	EventStateSave    EventType = "state.save"
	EventStateLoad    EventType = "state.load"
	EventReportExport EventType = "report.export"

	EventError EventType = "error"
)

// Source constants identify the origin of events.
const (
	SourceTimer = "timer"
	SourceFocus = "focus"
	SourceFile  = "file"
	SourceUser  = "user"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the event source.
func (e BaseEvent) Source() string {
	return e.Src
}

// NewBase creates a BaseEvent stamped with at.
func NewBase(t EventType, src string, at time.Time) BaseEvent {
	return BaseEvent{EventType: t, Time: at, Src: src}
}

// RunEvent covers run.start, run.stop and run.reset. Times are in seconds.
type RunEvent struct {
	BaseEvent
	Label        string  `json:"label"`
	Elapsed      float64 `json:"elapsed"`
	CurrentIndex int     `json:"current_index"`
	Splits       int     `json:"splits"`
}

// SplitCommitEvent is emitted when a split is hit. Times are in seconds.
type SplitCommitEvent struct {
	BaseEvent
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	SplitTime   float64  `json:"split_time"`
	SegmentTime float64  `json:"segment_time"`
	BestSegment *float64 `json:"best_segment,omitempty"`
	NewBest     bool     `json:"new_best,omitempty"`
	Finished    bool     `json:"finished,omitempty"`
}

// WakeAutoCompleteEvent records an attempt to complete the first split from
// the wake time source. Error is set when the attempt was skipped.
type WakeAutoCompleteEvent struct {
	BaseEvent
	Name   string  `json:"name"`
	Offset float64 `json:"offset,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// FocusEvent covers focus.armed, focus.tracking and focus.stopped.
type FocusEvent struct {
	BaseEvent
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Target    string  `json:"target,omitempty"`
	FocusTime float64 `json:"focus_time,omitempty"`
	Cancelled bool    `json:"cancelled,omitempty"`
}

// TemplateEvent covers template.import, template.export and template.bests.
type TemplateEvent struct {
	BaseEvent
	Path    string `json:"path"`
	Label   string `json:"label,omitempty"`
	Splits  int    `json:"splits"`
	Legacy  bool   `json:"legacy,omitempty"`
	Updated bool   `json:"updated,omitempty"`
}

// FileEvent covers state.save, state.load and report.export.
type FileEvent struct {
	BaseEvent
	Path  string `json:"path"`
	Label string `json:"label,omitempty"`
}

// ErrorEvent records a failed operation.
type ErrorEvent struct {
	BaseEvent
	Op      string `json:"op"`
	Message string `json:"message"`
}
