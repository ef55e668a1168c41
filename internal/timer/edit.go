package timer

import (
	"errors"
	"fmt"
	"time"
)

// ErrRunning is returned by edits attempted while the clock runs.
var ErrRunning = errors.New("stop the timer before editing splits")

func (r *Run) editable(i int) error {
	if r.running {
		return ErrRunning
	}
	if i < 0 || i >= len(r.splits) {
		return fmt.Errorf("%w: %d", ErrNoSuchSplit, i)
	}
	return nil
}

// Rename changes the name of split i.
func (r *Run) Rename(i int, name string) error {
	if err := r.editable(i); err != nil {
		return err
	}
	r.splits[i].Name = name
	return nil
}

// SetTimes overwrites the recorded times of split i. nil clears a value.
func (r *Run) SetTimes(i int, split, segment, best *time.Duration) error {
	if err := r.editable(i); err != nil {
		return err
	}
	s := &r.splits[i]
	s.SplitTime = cloneDur(split)
	s.SegmentTime = cloneDur(segment)
	s.BestSegment = cloneDur(best)
	return nil
}

// AddSplit appends a split and returns its index.
func (r *Run) AddSplit(name string) (int, error) {
	if r.running {
		return 0, ErrRunning
	}
	if name == "" {
		name = fmt.Sprintf("New Split %d", len(r.splits)+1)
	}
	r.splits = append(r.splits, NewSplit(name))
	return len(r.splits) - 1, nil
}

// MoveSplit swaps split i with its neighbour delta positions away (usually
// -1 or +1) and returns the split's new index. Moves past either end leave
// the order unchanged.
func (r *Run) MoveSplit(i, delta int) (int, error) {
	if err := r.editable(i); err != nil {
		return i, err
	}
	j := i + delta
	if j < 0 || j >= len(r.splits) {
		return i, nil
	}
	r.splits[i], r.splits[j] = r.splits[j], r.splits[i]
	return j, nil
}

// RemoveSplit deletes split i. The current index is clamped to the new length.
func (r *Run) RemoveSplit(i int) error {
	if err := r.editable(i); err != nil {
		return err
	}
	r.splits = append(r.splits[:i], r.splits[i+1:]...)
	if i < r.currentIndex {
		r.currentIndex--
	}
	if r.currentIndex > len(r.splits) {
		r.currentIndex = len(r.splits)
	}
	return nil
}
