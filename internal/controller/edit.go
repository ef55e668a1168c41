package controller

import (
	"fmt"
	"time"

	"github.com/npratt/splitclock/internal/timer"
)

// RenameSplit renames split i. The run must be stopped.
func (c *Controller) RenameSplit(i int, name string) error {
	if err := c.run.Rename(i, name); err != nil {
		return err
	}
	c.logger.Info("split renamed", "index", i, "name", name)
	return nil
}

// SetSplitTimes parses HH:MM:SS values and stores them on split i. An empty
// value clears that time. Nothing changes unless all three values parse.
func (c *Controller) SetSplitTimes(i int, split, segment, best string) error {
	var parsed [3]*time.Duration
	for k, v := range []string{split, segment, best} {
		d, err := timer.ParseClock(v)
		if err != nil {
			return fmt.Errorf("%s: %w", []string{"split time", "segment time", "best segment"}[k], err)
		}
		parsed[k] = d
	}
	if err := c.run.SetTimes(i, parsed[0], parsed[1], parsed[2]); err != nil {
		return err
	}
	c.logger.Info("split times edited", "index", i,
		"split_time", split, "segment", segment, "best", best)
	return nil
}

// AddSplit appends a split. An empty name gets a numbered default.
func (c *Controller) AddSplit(name string) (int, error) {
	idx, err := c.run.AddSplit(name)
	if err != nil {
		return 0, err
	}
	c.logger.Info("split added", "index", idx)
	return idx, nil
}

// MoveSplit moves split i by delta places and returns its new index.
func (c *Controller) MoveSplit(i, delta int) (int, error) {
	return c.run.MoveSplit(i, delta)
}

// RemoveSplit deletes split i.
func (c *Controller) RemoveSplit(i int) error {
	if err := c.run.RemoveSplit(i); err != nil {
		return err
	}
	c.logger.Info("split removed", "index", i)
	return nil
}
