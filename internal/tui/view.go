package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/splitclock/internal/timer"
)

const (
	timeColWidth  = 8
	focusColWidth = 13
	// fixedColsWidth is the marker plus the four time columns and their gaps.
	fixedColsWidth = 2 + 3*(2+timeColWidth) + 2 + focusColWidth
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	w := safeWidth(m.width - 4)
	header := m.renderHeader(w)
	footer := m.renderFooter()
	status := m.renderStatus(w)

	// border, two dividers and the column header
	used := 2 + 2 + 1 + lipgloss.Height(header) + lipgloss.Height(status) + lipgloss.Height(footer)
	rows := max(m.height-used, 1)

	sections := []string{
		header,
		m.renderDivider(w),
		renderColumnHeader(w),
		m.renderSplits(w, rows),
		m.renderDivider(w),
		status,
		footer,
	}
	box := styles.Container.Width(m.width - 2).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, box)
}

func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d", m.width, m.height, minWidth, minHeight)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m model) renderHeader(w int) string {
	run := m.ctrl.Run()

	var state string
	switch {
	case m.mode == modeEditor || m.mode == modeCell:
		state = styles.StateEditing.Render("EDITING")
	case run.Running():
		state = styles.StateRunning.Render("RUNNING")
	case run.Finished():
		state = styles.StateFinished.Render("FINISHED")
	default:
		state = styles.StateStopped.Render("STOPPED")
	}

	left := styles.Label.Render(run.Label()) + "  " + state
	right := styles.Elapsed.Render(timer.FormatClock(run.Elapsed()))
	gap := max(w-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + strings.Repeat(" ", gap) + right

	var detail string
	if s, ok := run.Split(run.CurrentIndex()); ok {
		detail = fmt.Sprintf("Split %d/%d: %s", run.CurrentIndex()+1, run.Len(), s.Name)
		switch s.Focus {
		case timer.FocusArmed:
			detail += "  " + m.spinner.View() + " capturing window"
		case timer.FocusTracking:
			detail += fmt.Sprintf("  tracking %q", s.FocusTarget)
		}
	} else if run.Len() == 0 {
		detail = "No splits loaded"
	} else {
		detail = fmt.Sprintf("All %d splits done", run.Len())
	}
	return line + "\n" + styles.Current.Render(truncate(detail, w))
}

func (m model) renderDivider(w int) string {
	return styles.Divider.Render(strings.Repeat("─", w))
}

func renderColumnHeader(w int) string {
	return styles.ColumnHeader.Render(formatRow(w, " ", [5]string{"Split", "Time", "Segment", "Best", "Focus"}))
}

// formatRow lays out one table row: marker, name, split, segment, best and
// focus columns.
func formatRow(w int, marker string, cells [5]string) string {
	nameWidth := safeWidth(w - fixedColsWidth)
	return fmt.Sprintf("%s %-*s  %*s  %*s  %*s  %*s",
		marker,
		nameWidth, truncate(cells[0], nameWidth),
		timeColWidth, cells[1],
		timeColWidth, cells[2],
		timeColWidth, cells[3],
		focusColWidth, cells[4],
	)
}

func rowCells(s timer.Split) [5]string {
	return [5]string{
		s.Name,
		timer.FormatOptional(s.SplitTime),
		timer.FormatOptional(s.SegmentTime),
		timer.FormatOptional(s.BestSegment),
		focusCell(s),
	}
}

func (m model) renderSplits(w, visible int) string {
	run := m.ctrl.Run()
	splits := run.Splits()
	if len(splits) == 0 {
		return styles.Footer.Render("(empty template: press e then a to add splits)")
	}

	editing := m.mode == modeEditor || m.mode == modeCell
	anchor := run.CurrentIndex()
	if editing {
		anchor = m.row
	}
	start := safeScroll(anchor, len(splits), visible)
	end := min(start+visible, len(splits))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s := splits[i]
		if editing && i == m.row {
			lines = append(lines, m.renderCursorRow(w, s))
			continue
		}
		line := formatRow(w, focusMarker(s), rowCells(s))
		style := styles.Row
		switch {
		case i == run.CurrentIndex():
			style = styles.RowCurrent
		case i < run.CurrentIndex():
			style = styles.RowDone
		}
		if c, ok := rowColor(s); ok {
			style = style.Background(c).Foreground(lipgloss.Color("16"))
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

// renderCursorRow renders the editor's selected row with the selected cell
// highlighted.
func (m model) renderCursorRow(w int, s timer.Split) string {
	cells := rowCells(s)
	nameWidth := safeWidth(w - fixedColsWidth)
	padded := []string{
		fmt.Sprintf("%-*s", nameWidth, truncate(cells[0], nameWidth)),
		fmt.Sprintf("%*s", timeColWidth, cells[1]),
		fmt.Sprintf("%*s", timeColWidth, cells[2]),
		fmt.Sprintf("%*s", timeColWidth, cells[3]),
	}
	padded[m.col] = styles.Cursor.Render(padded[m.col])
	return "> " + strings.Join(padded, "  ") + "  " + fmt.Sprintf("%*s", focusColWidth, cells[4])
}

func (m model) renderStatus(w int) string {
	switch m.mode {
	case modePrompt, modeCell:
		label := m.promptLabel()
		line := styles.Prompt.Render(label) + " " + m.input.View()
		if m.inputErr != "" {
			line += "\n" + styles.Error.Render(truncate(m.inputErr, w))
		}
		return line
	}
	if m.status == "" {
		return styles.Footer.Render("Ready")
	}
	if m.statusErr {
		return styles.Error.Render(truncate(m.status, w))
	}
	return styles.Status.Render(truncate(m.status, w))
}

func (m model) promptLabel() string {
	if m.mode == modeCell {
		return [numEditColumns]string{"Name:", "Split time:", "Segment time:", "Best segment:"}[m.col]
	}
	switch m.prompt {
	case promptExport:
		return "Export template to:"
	case promptBests:
		return "Update best segments in:"
	default:
		return "Import template:"
	}
}

func (m model) renderFooter() string {
	if m.mode == modeEditor || m.mode == modeCell {
		return m.help.View(m.editorKeys)
	}
	return m.help.View(m.keys)
}

// safeWidth returns a width that is at least 1.
func safeWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}

// safeScroll returns the first visible row so that row anchor stays on
// screen.
func safeScroll(anchor, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	start := anchor - visible + 1
	if start < 0 {
		start = 0
	}
	if start > total-visible {
		start = total - visible
	}
	return start
}

// Summary renders a saved run as plain text for non-interactive output.
func Summary(snap timer.Snapshot, width int) string {
	w := safeWidth(width)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  (split %d/%d)\n", snap.Label, timer.FormatClock(snap.Elapsed),
		min(snap.CurrentIndex+1, len(snap.Splits)), len(snap.Splits))
	b.WriteString(formatRow(w, " ", [5]string{"Split", "Time", "Segment", "Best", "Focus"}))
	b.WriteString("\n")
	for i, s := range snap.Splits {
		marker := " "
		if i == snap.CurrentIndex {
			marker = ">"
		}
		b.WriteString(strings.TrimRight(formatRow(w, marker, rowCells(s)), " "))
		b.WriteString("\n")
	}
	return b.String()
}
