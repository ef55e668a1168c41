// Package runstate saves and restores an in-progress run so it survives a
// restart.
package runstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/npratt/splitclock/internal/timer"
)

// ErrNoSavedRun is returned by Load when no run-state file exists.
var ErrNoSavedRun = errors.New("no saved run")

// File is the on-disk run-state document.
type File struct {
	ElapsedTime       float64     `json:"elapsed_time"`
	CurrentSplitIndex int         `json:"current_split_index"`
	LastSplitTime     float64     `json:"last_split_time"`
	RunType           string      `json:"run_type"`
	Splits            []FileSplit `json:"splits"`
}

// FileSplit is one persisted split.
type FileSplit struct {
	Name        string   `json:"name"`
	SplitTime   *float64 `json:"split_time"`
	SegmentTime *float64 `json:"segment_time"`
	BestSegment *float64 `json:"best_segment"`
	FocusTime   *float64 `json:"focus_time,omitempty"`
}

// Encode converts a snapshot into its file form.
func Encode(snap timer.Snapshot) File {
	f := File{
		ElapsedTime:       snap.Elapsed.Seconds(),
		CurrentSplitIndex: snap.CurrentIndex,
		LastSplitTime:     snap.LastSplitTime.Seconds(),
		RunType:           snap.Label,
		Splits:            make([]FileSplit, len(snap.Splits)),
	}
	for i, s := range snap.Splits {
		fs := FileSplit{
			Name:        s.Name,
			SplitTime:   timer.Seconds(s.SplitTime),
			SegmentTime: timer.Seconds(s.SegmentTime),
			BestSegment: timer.Seconds(s.BestSegment),
		}
		if s.FocusTime > 0 {
			fs.FocusTime = timer.Seconds(&s.FocusTime)
		}
		f.Splits[i] = fs
	}
	return f
}

// Decode converts a file back into a snapshot.
func Decode(f File) timer.Snapshot {
	snap := timer.Snapshot{
		Elapsed:       seconds(f.ElapsedTime),
		CurrentIndex:  f.CurrentSplitIndex,
		LastSplitTime: seconds(f.LastSplitTime),
		Label:         f.RunType,
		Splits:        make([]timer.Split, len(f.Splits)),
	}
	for i, fs := range f.Splits {
		s := timer.NewSplit(fs.Name)
		s.SplitTime = timer.FromSeconds(fs.SplitTime)
		s.SegmentTime = timer.FromSeconds(fs.SegmentTime)
		s.BestSegment = timer.FromSeconds(fs.BestSegment)
		if ft := timer.FromSeconds(fs.FocusTime); ft != nil {
			s.FocusTime = *ft
		}
		snap.Splits[i] = s
	}
	return snap
}

func seconds(s float64) time.Duration {
	return *timer.FromSeconds(&s)
}

// Store reads and writes the run-state file at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the run-state file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes snap, replacing any previous run state.
func (s *Store) Save(snap timer.Snapshot) error {
	data, err := json.MarshalIndent(Encode(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("encode run state: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create run state directory: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write run state: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename run state: %w", err)
	}
	return nil
}

// Load reads the saved run state. It returns ErrNoSavedRun when the file
// does not exist.
func (s *Store) Load() (timer.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return timer.Snapshot{}, ErrNoSavedRun
		}
		return timer.Snapshot{}, fmt.Errorf("read run state: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return timer.Snapshot{}, fmt.Errorf("decode run state %s: %w", s.path, err)
	}
	return Decode(f), nil
}
