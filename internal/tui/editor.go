package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/splitclock/internal/timer"
)

// handleEditorKey drives the split editor: moving the cursor and changing
// the split list. Cell values are edited in modeCell.
func (m model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.editorKeys
	n := m.ctrl.Run().Len()

	switch {
	case key.Matches(msg, k.Done):
		m.mode = modeTimer
		m.setStatus("Done editing")

	case key.Matches(msg, k.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, k.Down):
		if m.row < n-1 {
			m.row++
		}

	case key.Matches(msg, k.Left):
		m.col = (m.col + numEditColumns - 1) % numEditColumns

	case key.Matches(msg, k.Right):
		m.col = (m.col + 1) % numEditColumns

	case key.Matches(msg, k.Change):
		if n == 0 {
			return m, nil
		}
		return m.openCell()

	case key.Matches(msg, k.Add):
		idx, err := m.ctrl.AddSplit("")
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.row = idx
		m.col = colName
		return m.openCell()

	case key.Matches(msg, k.Remove):
		if n == 0 {
			return m, nil
		}
		if err := m.ctrl.RemoveSplit(m.row); err != nil {
			m.setError(err)
			return m, nil
		}
		m.row = min(m.row, max(n-2, 0))

	case key.Matches(msg, k.MoveUp):
		m.move(-1)

	case key.Matches(msg, k.MoveDn):
		m.move(1)
	}
	return m, nil
}

func (m *model) move(delta int) {
	if m.ctrl.Run().Len() == 0 {
		return
	}
	idx, err := m.ctrl.MoveSplit(m.row, delta)
	if err != nil {
		m.setError(err)
		return
	}
	m.row = idx
}

// cellValue returns the text shown in the editable cell (row, col).
func cellValue(s timer.Split, col column) string {
	switch col {
	case colSplit:
		return timer.FormatOptional(s.SplitTime)
	case colSegment:
		return timer.FormatOptional(s.SegmentTime)
	case colBest:
		return timer.FormatOptional(s.BestSegment)
	default:
		return s.Name
	}
}

func (m model) openCell() (tea.Model, tea.Cmd) {
	s, ok := m.ctrl.Run().Split(m.row)
	if !ok {
		return m, nil
	}
	m.mode = modeCell
	m.inputErr = ""
	if m.col == colName {
		m.input.Placeholder = "split name"
	} else {
		m.input.Placeholder = "HH:MM:SS"
	}
	m.input.SetValue(cellValue(s, m.col))
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m model) handleCellKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeEditor
		m.inputErr = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		return m.commitCell()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitCell applies the edited value. A rejected value keeps the cell open
// with the reason shown next to it.
func (m model) commitCell() (tea.Model, tea.Cmd) {
	s, ok := m.ctrl.Run().Split(m.row)
	if !ok {
		m.mode = modeEditor
		m.input.Blur()
		return m, nil
	}
	value := strings.TrimSpace(m.input.Value())

	var err error
	if m.col == colName {
		if value == "" {
			m.inputErr = "split name cannot be empty"
			return m, nil
		}
		err = m.ctrl.RenameSplit(m.row, value)
	} else {
		cells := [3]string{
			cellValue(s, colSplit),
			cellValue(s, colSegment),
			cellValue(s, colBest),
		}
		cells[m.col-colSplit] = value
		err = m.ctrl.SetSplitTimes(m.row, cells[0], cells[1], cells[2])
	}
	if err != nil {
		m.inputErr = err.Error()
		return m, nil
	}

	m.mode = modeEditor
	m.inputErr = ""
	m.input.Blur()
	return m, nil
}
