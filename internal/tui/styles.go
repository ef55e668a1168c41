package tui

import "github.com/charmbracelet/lipgloss"

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header styles
	Label   lipgloss.Style
	Elapsed lipgloss.Style
	Current lipgloss.Style

	// Table styles
	ColumnHeader lipgloss.Style
	Row          lipgloss.Style
	RowCurrent   lipgloss.Style
	RowDone      lipgloss.Style
	Cursor       lipgloss.Style

	// Footer styles
	Footer lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style

	// Run state colors
	StateRunning  lipgloss.Style
	StateStopped  lipgloss.Style
	StateFinished lipgloss.Style
	StateEditing  lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Label: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	Elapsed: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220")),

	Current: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	ColumnHeader: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("245")),

	Row: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")),

	RowCurrent: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	RowDone: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	Cursor: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		Background(lipgloss.Color("236")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	Prompt: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	StateRunning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	StateStopped: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),

	StateFinished: lipgloss.NewStyle().
		Foreground(lipgloss.Color("177")),

	StateEditing: lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")),
}
