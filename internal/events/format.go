package events

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/npratt/splitclock/internal/timer"
)

const (
	maxTitleLength    = 60
	truncateIndicator = "..."
)

// Format renders an event as one human-readable line. Unknown events render
// as an empty string.
func Format(event Event) string {
	switch e := event.(type) {
	case *RunEvent:
		return formatRun(e)
	case *SplitCommitEvent:
		return formatSplit(e)
	case *WakeAutoCompleteEvent:
		if e.Error != "" {
			return fmt.Sprintf("wake auto-complete skipped for %q: %s", e.Name, e.Error)
		}
		return fmt.Sprintf("wake auto-complete: %q done at %s", e.Name, clock(e.Offset))
	case *FocusEvent:
		return formatFocus(e)
	case *TemplateEvent:
		return formatTemplate(e)
	case *FileEvent:
		return formatFile(e)
	case *ErrorEvent:
		return fmt.Sprintf("error in %s: %s", e.Op, SafeString(e.Message))
	default:
		return ""
	}
}

// FormatWithTimestamp prefixes Format with the event's local wall time.
func FormatWithTimestamp(event Event) string {
	if event == nil {
		return ""
	}
	ts := event.Timestamp().Local().Format("2006-01-02 15:04:05")
	detail := Format(event)
	if detail == "" {
		return fmt.Sprintf("[%s] %s", ts, event.Type())
	}
	return fmt.Sprintf("[%s] %s", ts, detail)
}

func formatRun(e *RunEvent) string {
	switch e.EventType {
	case EventRunStart:
		return fmt.Sprintf("run %s started at %s (split %d/%d)", e.Label, clock(e.Elapsed), e.CurrentIndex+1, e.Splits)
	case EventRunStop:
		return fmt.Sprintf("run %s stopped at %s", e.Label, clock(e.Elapsed))
	default:
		return fmt.Sprintf("run %s reset", e.Label)
	}
}

func formatSplit(e *SplitCommitEvent) string {
	line := fmt.Sprintf("split %d %q: %s (segment %s)", e.Index+1, e.Name, clock(e.SplitTime), clock(e.SegmentTime))
	if e.NewBest {
		line += " new best"
	}
	if e.Finished {
		line += ", run finished"
	}
	return line
}

func formatFocus(e *FocusEvent) string {
	switch e.EventType {
	case EventFocusArmed:
		return fmt.Sprintf("focus armed on %q", e.Name)
	case EventFocusTracking:
		return fmt.Sprintf("focus tracking %q on %q", Truncate(e.Target, maxTitleLength), e.Name)
	default:
		if e.Cancelled {
			return fmt.Sprintf("focus capture cancelled on %q", e.Name)
		}
		return fmt.Sprintf("focus stopped on %q after %s", e.Name, clock(e.FocusTime))
	}
}

func formatTemplate(e *TemplateEvent) string {
	switch e.EventType {
	case EventTemplateImport:
		kind := ""
		if e.Legacy {
			kind = " legacy"
		}
		return fmt.Sprintf("imported%s template %s (%d splits) from %s", kind, e.Label, e.Splits, e.Path)
	case EventTemplateExport:
		return fmt.Sprintf("exported template %s (%d splits) to %s", e.Label, e.Splits, e.Path)
	default:
		if !e.Updated {
			return fmt.Sprintf("best segments in %s already up to date", e.Path)
		}
		return fmt.Sprintf("updated best segments in %s", e.Path)
	}
}

func formatFile(e *FileEvent) string {
	switch e.EventType {
	case EventStateSave:
		return fmt.Sprintf("saved run %s to %s", e.Label, e.Path)
	case EventStateLoad:
		return fmt.Sprintf("loaded run %s from %s", e.Label, e.Path)
	default:
		return fmt.Sprintf("exported report to %s", e.Path)
	}
}

func clock(seconds float64) string {
	return timer.FormatClock(time.Duration(seconds * float64(time.Second)))
}

// Truncate shortens s to maxLen, adding an indicator when cut.
func Truncate(s string, maxLen int) string {
	s = SafeString(s)
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(truncateIndicator) {
		return truncateIndicator
	}
	return s[:maxLen-len(truncateIndicator)] + truncateIndicator
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// SafeString strips ANSI sequences and control characters from window
// titles and error text before display.
func SafeString(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == ' ' || !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
