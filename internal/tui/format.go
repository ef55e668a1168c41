package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/splitclock/internal/timer"
)

// focusStops is the row colour gradient from no focus (pink) to full focus
// (green). A row takes the colour of the nearest stop.
var focusStops = []struct {
	pct   float64
	color lipgloss.Color
}{
	{0, "#FCC0C7"},
	{5.5, "#EEBCC7"},
	{11, "#E4BCC4"},
	{16.5, "#DABCC1"},
	{22, "#D0BCBE"},
	{27.5, "#C6BCBB"},
	{33, "#BCBCB8"},
	{38.5, "#B2BCB5"},
	{44, "#A8BCB2"},
	{49.5, "#9EBCAF"},
	{55, "#94BCAC"},
	{59.5, "#8ABCA9"},
	{66, "#80BCA6"},
	{71.5, "#76BCA3"},
	{77, "#6CBCA0"},
	{82.5, "#62BC9D"},
	{88, "#58BC9A"},
	{93.5, "#4EBC97"},
	{99, "#00C62B"},
}

// focusColor returns the gradient stop nearest to pct. Ties go to the lower
// stop.
func focusColor(pct float64) lipgloss.Color {
	best := focusStops[0]
	for _, stop := range focusStops[1:] {
		if math.Abs(stop.pct-pct) < math.Abs(best.pct-pct) {
			best = stop
		}
	}
	return best.color
}

// rowColor returns the focus colour for a split, and false when the split has
// no focus time or no segment time to compare it to.
func rowColor(s timer.Split) (lipgloss.Color, bool) {
	if s.FocusTime <= 0 {
		return "", false
	}
	pct, ok := s.FocusPercent()
	if !ok {
		return "", false
	}
	return focusColor(pct), true
}

// focusCell renders "HH:MM:SS/NN%", or "-" when no focus time is recorded.
func focusCell(s timer.Split) string {
	if s.FocusTime <= 0 {
		return "-"
	}
	pct, _ := s.FocusPercent()
	return fmt.Sprintf("%s/%.0f%%", timer.FormatClock(s.FocusTime), pct)
}

// focusMarker is the short state shown next to the split name.
func focusMarker(s timer.Split) string {
	switch s.Focus {
	case timer.FocusArmed:
		return "◌"
	case timer.FocusTracking:
		return "◉"
	default:
		return " "
	}
}

// truncate shortens s to maxLen runes, adding "..." when it was cut.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
