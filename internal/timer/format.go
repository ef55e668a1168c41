package timer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClock is returned for text that is not HH:MM:SS.
var ErrInvalidClock = errors.New("invalid time format, use HH:MM:SS")

// FormatClock renders d as zero-padded HH:MM:SS, truncated to whole seconds.
// Negative durations render as 00:00:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatOptional renders d with FormatClock, or "" when d is nil.
func FormatOptional(d *time.Duration) string {
	if d == nil {
		return ""
	}
	return FormatClock(*d)
}

// ParseClock parses HH:MM:SS into a duration. Hours and minutes are whole
// numbers; seconds may carry a fraction. Empty input yields nil.
func ParseClock(s string) (*time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(math.Round(seconds*float64(time.Second)))
	return &d, nil
}

// Seconds converts d to float seconds for JSON files.
func Seconds(d *time.Duration) *float64 {
	if d == nil {
		return nil
	}
	s := d.Seconds()
	return &s
}

// FromSeconds converts float seconds read from JSON files to a duration.
func FromSeconds(s *float64) *time.Duration {
	if s == nil {
		return nil
	}
	return Dur(time.Duration(math.Round(*s * float64(time.Second))))
}
