// Package report renders a run as a CSV results file.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/npratt/splitclock/internal/timer"
)

// DateLayout formats the Date row.
const DateLayout = "2006-01-02 15:04:05"

// Header is the column header row.
var Header = []string{"Split Name", "Split Time", "Segment Time", "Best Segment", "Focus Time", "Focus %"}

// Rows builds every CSV row for a run labelled label, exported at at.
func Rows(label string, at time.Time, splits []timer.Split) [][]string {
	rows := [][]string{
		{"Run Type", label},
		{"Date", at.Format(DateLayout)},
		{},
		Header,
	}
	for _, s := range splits {
		rows = append(rows, Row(s))
	}
	return rows
}

// Row formats one split.
func Row(s timer.Split) []string {
	focus := ""
	percent := ""
	if s.FocusTime > 0 {
		focus = timer.FormatClock(s.FocusTime)
		if pct, ok := s.FocusPercent(); ok {
			percent = fmt.Sprintf("%.1f%%", pct)
		}
	}
	return []string{
		s.Name,
		timer.FormatOptional(s.SplitTime),
		timer.FormatOptional(s.SegmentTime),
		timer.FormatOptional(s.BestSegment),
		focus,
		percent,
	}
}

// WriteCSV writes the report to w.
func WriteCSV(w io.Writer, label string, at time.Time, splits []timer.Split) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(label, at, splits)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Bytes returns the report as CSV text.
func Bytes(label string, at time.Time, splits []timer.Split) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, label, at, splits); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultFilename names a report for label exported at at.
func DefaultFilename(label string, at time.Time) string {
	return fmt.Sprintf("speedrun_%s_%s.csv", label, at.Format("2006-01-02_15-04-05"))
}

// Export writes the report to path, creating its directory.
func Export(path, label string, at time.Time, splits []timer.Split) error {
	data, err := Bytes(label, at, splits)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
