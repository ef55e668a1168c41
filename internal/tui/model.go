package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/splitclock/internal/controller"
)

const (
	minWidth  = 60
	minHeight = 12
)

// mode is what the keyboard currently drives.
type mode int

const (
	modeTimer mode = iota
	modePrompt
	modeEditor
	modeCell
)

// promptKind is the action a path prompt submits to.
type promptKind int

const (
	promptImport promptKind = iota
	promptExport
	promptBests
)

// column is an editable column of the split table.
type column int

const (
	colName column = iota
	colSplit
	colSegment
	colBest
	numEditColumns
)

// model holds all state for the TUI. The controller owns the run; the model
// only holds what the screen needs between messages.
type model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	clip   func(string) error
	onQuit func()

	width  int
	height int

	keys       keyMap
	editorKeys editorKeys
	help       help.Model
	spinner    spinner.Model
	input      textinput.Model

	mode   mode
	prompt promptKind

	// editor cursor
	row int
	col column

	status    string
	statusErr bool
	inputErr  string

	// capture is the pending foreground-window capture, if any.
	capture  *controller.Capture
	spinning bool
	polling  bool
}

func newModel(ctx context.Context, ctrl *controller.Controller, clip func(string) error, onQuit func()) model {
	if ctx == nil {
		ctx = context.Background()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	in := textinput.New()
	in.CharLimit = 512

	return model{
		ctx:        ctx,
		ctrl:       ctrl,
		clip:       clip,
		onQuit:     onQuit,
		keys:       defaultKeys(),
		editorKeys: defaultEditorKeys(),
		help:       help.New(),
		spinner:    sp,
		input:      in,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		doTick(m.ctrl.TickInterval()),
		textinput.Blink,
	)
}

func (m *model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
