// Package wake looks up today's wake-up time from an external CSV file so
// the first split of a morning run can be completed automatically.
package wake

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/npratt/splitclock/internal/exec"
)

var (
	// ErrNotConfigured is returned when no source file is set.
	ErrNotConfigured = errors.New("wake source not configured")
	// ErrNoEntry is returned when the file has no row for the requested date.
	ErrNoEntry = errors.New("no wake time recorded for date")
	// ErrMissingColumn is returned when the header lacks a configured column.
	ErrMissingColumn = errors.New("wake source missing column")
)

// Options describe the CSV layout.
type Options struct {
	DateColumn string
	TimeColumn string
	DateLayout string
	TimeLayout string
}

// DefaultOptions matches a "Date" column of 2006-01-02 and a "Wake Time"
// column of 3:04 PM, which also reads zero-padded hours.
func DefaultOptions() Options {
	return Options{
		DateColumn: "Date",
		TimeColumn: "Wake Time",
		DateLayout: "2006-01-02",
		TimeLayout: "3:04 PM",
	}
}

// CSVSource reads wake times from a CSV file with a header row.
type CSVSource struct {
	path string
	opts Options
}

// NewCSVSource creates a source for path. Empty option fields take their
// defaults.
func NewCSVSource(path string, opts Options) *CSVSource {
	def := DefaultOptions()
	if opts.DateColumn == "" {
		opts.DateColumn = def.DateColumn
	}
	if opts.TimeColumn == "" {
		opts.TimeColumn = def.TimeColumn
	}
	if opts.DateLayout == "" {
		opts.DateLayout = def.DateLayout
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = def.TimeLayout
	}
	return &CSVSource{path: path, opts: opts}
}

// WakeTime returns the wake time recorded for now's date, placed on that
// date in now's location. The signature matches timer.WakeFunc.
func (s *CSVSource) WakeTime(now time.Time) (time.Time, error) {
	if s.path == "" {
		return time.Time{}, ErrNotConfigured
	}
	f, err := os.Open(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open wake source: %w", err)
	}
	defer func() { _ = f.Close() }()

	raw, err := s.lookup(f, now.Format(s.opts.DateLayout))
	if err != nil {
		return time.Time{}, err
	}
	cell := strings.TrimSpace(raw)
	if strings.Contains(s.opts.TimeLayout, "PM") {
		// The layout's PM only matches upper case
		cell = strings.ToUpper(cell)
	}
	clock, err := time.Parse(s.opts.TimeLayout, cell)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse wake time %q: %w", raw, err)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, now.Location()), nil
}

// lookup returns the time cell of the first row whose date cell equals date.
func (s *CSVSource) lookup(r io.Reader, date string) (string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return "", fmt.Errorf("read wake source header: %w", err)
	}
	dateCol, timeCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case s.opts.DateColumn:
			dateCol = i
		case s.opts.TimeColumn:
			timeCol = i
		}
	}
	if dateCol < 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, s.opts.DateColumn)
	}
	if timeCol < 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, s.opts.TimeColumn)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return "", fmt.Errorf("%w %s", ErrNoEntry, date)
		}
		if err != nil {
			return "", fmt.Errorf("read wake source: %w", err)
		}
		if dateCol >= len(rec) || timeCol >= len(rec) {
			continue
		}
		if strings.TrimSpace(rec[dateCol]) == date {
			return rec[timeCol], nil
		}
	}
}

// Refresh runs the configured command that regenerates the source file.
// An empty command does nothing.
func Refresh(ctx context.Context, runner exec.CommandRunner, command []string) error {
	if len(command) == 0 {
		return nil
	}
	if _, err := runner.Run(ctx, command[0], command[1:]...); err != nil {
		return fmt.Errorf("refresh wake source: %w", err)
	}
	return nil
}
