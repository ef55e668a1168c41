package timer

import "time"

// Snapshot is the persistable state of a run.
type Snapshot struct {
	Elapsed       time.Duration
	CurrentIndex  int
	LastSplitTime time.Duration
	Label         string
	Splits        []Split
}

// Snapshot captures the run. A running run is ticked first so the captured
// elapsed time is current.
func (r *Run) Snapshot() Snapshot {
	r.Tick()
	return Snapshot{
		Elapsed:       r.elapsed,
		CurrentIndex:  r.currentIndex,
		LastSplitTime: r.lastSplitTime,
		Label:         r.label,
		Splits:        r.Splits(),
	}
}

// Restore replaces the whole run with snap. The run is left stopped; starting
// it again resumes from the restored elapsed time. Focus tracking does not
// survive a restore, but accumulated focus time does.
func (r *Run) Restore(snap Snapshot) {
	r.running = false
	r.anchor = time.Time{}
	r.label = snap.Label
	r.elapsed = snap.Elapsed
	r.lastSplitTime = snap.LastSplitTime
	r.splits = make([]Split, len(snap.Splits))
	for i, s := range snap.Splits {
		c := s.clone()
		c.Focus = FocusIdle
		c.FocusTarget = ""
		c.captureToken = 0
		r.splits[i] = c
	}
	r.currentIndex = snap.CurrentIndex
	if r.currentIndex < 0 {
		r.currentIndex = 0
	}
	if r.currentIndex > len(r.splits) {
		r.currentIndex = len(r.splits)
	}
}
