package timer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultLabel is the run label used before any template names one.
const DefaultLabel = "DEFAULT"

// DefaultWakeKeywords match a first split that represents getting up.
var DefaultWakeKeywords = []string{"wake", "get up", "wakeup"}

var (
	// ErrNoSplits is returned when starting a run without splits.
	ErrNoSplits = errors.New("run has no splits")
	// ErrFinished is returned when starting a run whose splits are all done.
	ErrFinished = errors.New("run is finished")
	// ErrWakeInFuture is reported when the wake time is later than now.
	ErrWakeInFuture = errors.New("wake time is in the future")
)

// WakeFunc returns the wake-up instant for the day containing now.
type WakeFunc func(now time.Time) (time.Time, error)

// StartResult describes what Start did beyond starting the clock.
type StartResult struct {
	// AutoCompleted is true when the first split was filled from the wake time.
	AutoCompleted bool
	// WakeOffset is the time between waking and the start, when AutoCompleted.
	WakeOffset time.Duration
	// WakeErr explains why auto-completion was attempted but did not happen.
	// It never prevents the run from starting.
	WakeErr error
}

// Run is the state of one timing session. It is not safe for concurrent use;
// a single event loop owns it.
type Run struct {
	splits        []Split
	currentIndex  int
	lastSplitTime time.Duration
	elapsed       time.Duration
	label         string

	running bool
	anchor  time.Time

	now          func() time.Time
	wakeKeywords []string
	nextToken    uint64
}

// Option configures a Run.
type Option func(*Run)

// WithClock sets the wall-clock source.
func WithClock(now func() time.Time) Option {
	return func(r *Run) {
		r.now = now
	}
}

// WithWakeKeywords sets the case-insensitive substrings that mark a first
// split as the wake-up split.
func WithWakeKeywords(keywords []string) Option {
	return func(r *Run) {
		r.wakeKeywords = keywords
	}
}

// New creates a stopped run over the given split names.
func New(label string, names []string, opts ...Option) *Run {
	splits := make([]Split, len(names))
	for i, name := range names {
		splits[i] = NewSplit(name)
	}
	return NewFromSplits(label, splits, opts...)
}

// NewFromSplits creates a stopped run over copies of the given splits.
func NewFromSplits(label string, splits []Split, opts ...Option) *Run {
	r := &Run{
		now:          time.Now,
		wakeKeywords: DefaultWakeKeywords,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Replace(label, splits)
	return r
}

// Replace swaps in a new split list and label and resets timing state.
func (r *Run) Replace(label string, splits []Split) {
	if label == "" {
		label = DefaultLabel
	}
	r.label = label
	r.splits = make([]Split, len(splits))
	for i, s := range splits {
		r.splits[i] = s.clone()
	}
	r.Reset()
}

// Label returns the run label.
func (r *Run) Label() string { return r.label }

// SetLabel changes the run label.
func (r *Run) SetLabel(label string) { r.label = label }

// Running reports whether the clock is running.
func (r *Run) Running() bool { return r.running }

// Elapsed returns the elapsed time as of the last tick, split, or stop.
func (r *Run) Elapsed() time.Duration { return r.elapsed }

// CurrentIndex returns the index of the in-progress split. It equals Len()
// once every split is done.
func (r *Run) CurrentIndex() int { return r.currentIndex }

// LastSplitTime returns the elapsed time at which the previous split was hit.
func (r *Run) LastSplitTime() time.Duration { return r.lastSplitTime }

// Len returns the number of splits.
func (r *Run) Len() int { return len(r.splits) }

// Finished reports whether every split has been completed.
func (r *Run) Finished() bool { return len(r.splits) > 0 && r.currentIndex >= len(r.splits) }

// Splits returns a copy of the splits.
func (r *Run) Splits() []Split {
	out := make([]Split, len(r.splits))
	for i, s := range r.splits {
		out[i] = s.clone()
	}
	return out
}

// Split returns a copy of the split at i.
func (r *Run) Split(i int) (Split, bool) {
	if i < 0 || i >= len(r.splits) {
		return Split{}, false
	}
	return r.splits[i].clone(), true
}

// Names returns the split names in order.
func (r *Run) Names() []string {
	names := make([]string, len(r.splits))
	for i, s := range r.splits {
		names[i] = s.Name
	}
	return names
}

// SegmentTimes returns the segment time of every split, nil where unset.
func (r *Run) SegmentTimes() []*time.Duration {
	out := make([]*time.Duration, len(r.splits))
	for i, s := range r.splits {
		out[i] = cloneDur(s.SegmentTime)
	}
	return out
}

// Start starts the clock. When the run is at its first split and that split
// looks like a wake-up split, wake is consulted to complete it retroactively.
// Starting a running run is a no-op.
func (r *Run) Start(wake WakeFunc) (StartResult, error) {
	var res StartResult
	if r.running {
		return res, nil
	}
	if len(r.splits) == 0 {
		return res, ErrNoSplits
	}
	if r.currentIndex >= len(r.splits) {
		return res, ErrFinished
	}

	now := r.now()
	r.running = true

	if r.currentIndex == 0 && wake != nil && r.isWakeSplit(r.splits[0].Name) {
		offset, err := r.wakeOffset(wake, now)
		if err != nil {
			res.WakeErr = err
		} else {
			first := &r.splits[0]
			first.SplitTime = Dur(offset)
			first.SegmentTime = Dur(offset)
			r.lastSplitTime = offset
			r.currentIndex = 1
			r.elapsed = offset
			res.AutoCompleted = true
			res.WakeOffset = offset
		}
	}

	r.anchor = now.Add(-r.elapsed)
	if r.currentIndex >= len(r.splits) {
		r.running = false
	}
	return res, nil
}

func (r *Run) wakeOffset(wake WakeFunc, now time.Time) (time.Duration, error) {
	at, err := wake(now)
	if err != nil {
		return 0, fmt.Errorf("wake time: %w", err)
	}
	offset := now.Sub(at)
	if offset < 0 {
		return 0, fmt.Errorf("%w: %s", ErrWakeInFuture, at.Format(time.Kitchen))
	}
	return offset, nil
}

func (r *Run) isWakeSplit(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range r.wakeKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Stop stops the clock, freezing the elapsed time. A pending focus capture
// on the split in progress is dropped; a tracked window stays tracked and
// resumes sampling on the next start.
func (r *Run) Stop() {
	if !r.running {
		return
	}
	r.refresh()
	r.running = false
	if r.currentIndex < len(r.splits) {
		s := &r.splits[r.currentIndex]
		if s.Focus == FocusArmed {
			s.Focus = FocusIdle
			s.captureToken = 0
		}
	}
}

// Toggle starts a stopped run or stops a running one.
func (r *Run) Toggle(wake WakeFunc) (StartResult, error) {
	if r.running {
		r.Stop()
		return StartResult{}, nil
	}
	return r.Start(wake)
}

// Reset stops the clock and clears all recorded times. Split names and best
// segments are kept.
func (r *Run) Reset() {
	r.running = false
	r.elapsed = 0
	r.currentIndex = 0
	r.lastSplitTime = 0
	r.anchor = time.Time{}
	for i := range r.splits {
		r.splits[i].clearTimes()
	}
}

// Tick recomputes the elapsed time and the live times of the current split.
// It does nothing while stopped.
func (r *Run) Tick() {
	if !r.running {
		return
	}
	r.refresh()
}

func (r *Run) refresh() {
	r.elapsed = r.now().Sub(r.anchor)
	if r.currentIndex >= len(r.splits) {
		return
	}
	cur := &r.splits[r.currentIndex]
	cur.SplitTime = Dur(r.elapsed)
	if r.currentIndex == 0 {
		cur.SegmentTime = Dur(r.elapsed)
		return
	}
	prev := r.lastSplitTime
	if p := r.splits[r.currentIndex-1].SplitTime; p != nil {
		prev = *p
	}
	cur.SegmentTime = Dur(r.elapsed - prev)
}

// CommitSplit completes the current split at the current elapsed time and
// advances to the next one. Focus tracking on the completed split ends; its
// target and focus time stay for display. Completing the last split stops the
// run. It returns false, changing nothing, when stopped or when no split
// remains.
func (r *Run) CommitSplit() bool {
	if !r.running || r.currentIndex >= len(r.splits) {
		return false
	}
	r.elapsed = r.now().Sub(r.anchor)

	cur := &r.splits[r.currentIndex]
	cur.SplitTime = Dur(r.elapsed)
	cur.SegmentTime = Dur(r.elapsed - r.lastSplitTime)
	r.recordBest(cur)
	cur.Focus = FocusIdle
	cur.captureToken = 0

	r.lastSplitTime = r.elapsed
	r.currentIndex++
	if r.currentIndex >= len(r.splits) {
		r.running = false
	}
	return true
}

// recordBest lowers the best segment when the split beat it.
func (r *Run) recordBest(s *Split) {
	if s.SegmentTime == nil {
		return
	}
	if s.BestSegment == nil || *s.SegmentTime < *s.BestSegment {
		s.BestSegment = Dur(*s.SegmentTime)
	}
}
