package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/splitclock/internal/controller"
	"github.com/npratt/splitclock/internal/runstate"
	"github.com/npratt/splitclock/internal/timer"
)

// tickMsg refreshes the live times.
type tickMsg time.Time

// pollMsg asks for one focus sample.
type pollMsg time.Time

// captureDueMsg fires when the capture delay of an armed split has passed.
type captureDueMsg struct {
	capture controller.Capture
}

// captureResultMsg carries the window title queried for a capture.
type captureResultMsg struct {
	capture controller.Capture
	title   string
	err     error
}

// sampleResultMsg carries the window title queried for a focus sample.
type sampleResultMsg struct {
	title string
	err   error
}

func doTick(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Second
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func doPoll(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Second
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func doCapture(d time.Duration, capture controller.Capture) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return captureDueMsg{capture: capture}
	})
}

// queryWindow runs the foreground-window query off the event loop and wraps
// the answer with wrap.
func (m model) queryWindow(wrap func(title string, err error) tea.Msg) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		title, err := ctrl.QueryWindow(ctx)
		return wrap(title, err)
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-24, 10)
		return m, nil

	case tickMsg:
		m.ctrl.Tick()
		return m, doTick(m.ctrl.TickInterval())

	case captureDueMsg:
		if m.capture == nil || *m.capture != msg.capture {
			return m, nil
		}
		capture := msg.capture
		return m, m.queryWindow(func(title string, err error) tea.Msg {
			return captureResultMsg{capture: capture, title: title, err: err}
		})

	case captureResultMsg:
		return m.handleCaptureResult(msg)

	case pollMsg:
		if !m.ctrl.Tracking() {
			m.polling = false
			return m, nil
		}
		return m, m.queryWindow(func(title string, err error) tea.Msg {
			return sampleResultMsg{title: title, err: err}
		})

	case sampleResultMsg:
		m.ctrl.SampleFocus(msg.title, msg.err)
		return m, doPoll(m.ctrl.PollInterval())

	case spinner.TickMsg:
		if m.capture == nil {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.mode == modePrompt || m.mode == modeCell {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes a key press to the active mode.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modePrompt:
		return m.handlePromptKey(msg)
	case modeEditor:
		return m.handleEditorKey(msg)
	case modeCell:
		return m.handleCellKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggle()

	case key.Matches(msg, m.keys.Split):
		m.split()

	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.capture = nil
		m.setStatus("Run reset")

	case key.Matches(msg, m.keys.Focus):
		return m.toggleFocus()

	case key.Matches(msg, m.keys.Edit):
		if m.ctrl.Run().Running() {
			m.setError(timer.ErrRunning)
			return m, nil
		}
		m.mode = modeEditor
		m.row = min(m.row, max(m.ctrl.Run().Len()-1, 0))
		m.col = colName
		m.setStatus("Editing splits")

	case key.Matches(msg, m.keys.Import):
		return m.openPrompt(promptImport, "")

	case key.Matches(msg, m.keys.Export):
		return m.openPrompt(promptExport, m.ctrl.TemplatePath())

	case key.Matches(msg, m.keys.CSV):
		path, err := m.ctrl.ExportCSV("")
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Report written to %s (b updates best segments)", path))

	case key.Matches(msg, m.keys.Bests):
		if m.ctrl.TemplatePath() == "" {
			return m.openPrompt(promptBests, "")
		}
		m.updateBests(m.ctrl.TemplatePath())

	case key.Matches(msg, m.keys.Save):
		if err := m.ctrl.SaveRun(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Run saved")

	case key.Matches(msg, m.keys.Load):
		m.loadRun()

	case key.Matches(msg, m.keys.Copy):
		m.copyReport()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// toggle starts or stops the run. A split still tracking a window from
// before the stop resumes sampling.
func (m *model) toggle() tea.Cmd {
	res, err := m.ctrl.Toggle()
	if err != nil {
		m.setError(err)
		return nil
	}
	switch {
	case res.AutoCompleted:
		m.setStatus(fmt.Sprintf("Wake-up split filled from wake time (%s ago)", timer.FormatClock(res.WakeOffset)))
	case res.WakeErr != nil:
		m.setStatus("Running; wake time unavailable: " + res.WakeErr.Error())
	case m.ctrl.Run().Running():
		m.setStatus("Running")
	default:
		m.capture = nil
		m.setStatus("Stopped")
	}
	return m.resumePolling()
}

// resumePolling starts the focus sampler when a split is tracking and no
// sampler is scheduled.
func (m *model) resumePolling() tea.Cmd {
	if m.polling || !m.ctrl.Tracking() {
		return nil
	}
	m.polling = true
	return doPoll(m.ctrl.PollInterval())
}

func (m *model) split() {
	run := m.ctrl.Run()
	if !m.ctrl.Split() {
		if !run.Running() && !run.Finished() {
			m.setStatus("Start the timer before splitting")
		}
		return
	}
	m.capture = nil
	if run.Finished() {
		m.setStatus(fmt.Sprintf("Run complete in %s (c writes the report)", timer.FormatClock(run.Elapsed())))
		return
	}
	if s, ok := run.Split(run.CurrentIndex()); ok {
		m.setStatus("Now: " + s.Name)
	}
}

func (m model) toggleFocus() (tea.Model, tea.Cmd) {
	action, capture, err := m.ctrl.ToggleFocus()
	if err != nil {
		m.setError(err)
		return m, nil
	}
	switch action {
	case timer.FocusArmedAction:
		m.capture = capture
		m.setStatus(fmt.Sprintf("Switch to the window to track; capturing in %s", m.ctrl.CaptureDelay()))
		cmds := []tea.Cmd{doCapture(m.ctrl.CaptureDelay(), *capture)}
		if !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)
	case timer.FocusCancelledAction:
		m.capture = nil
		m.setStatus("Window capture cancelled")
	case timer.FocusStoppedAction:
		m.setStatus("Stopped tracking window focus")
	}
	return m, nil
}

func (m model) handleCaptureResult(msg captureResultMsg) (tea.Model, tea.Cmd) {
	if m.capture != nil && *m.capture == msg.capture {
		m.capture = nil
	}
	err := m.ctrl.CompleteCapture(msg.capture, msg.title, msg.err)
	if errors.Is(err, timer.ErrStaleCapture) {
		return m, nil
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.setStatus(fmt.Sprintf("Tracking %q", msg.title))
	return m, m.resumePolling()
}

func (m *model) updateBests(path string) {
	updated, err := m.ctrl.UpdateBests(path)
	if err != nil {
		m.setError(err)
		return
	}
	if updated {
		m.setStatus("Best segments updated in " + path)
		return
	}
	m.setStatus("Best segments already up to date")
}

func (m *model) loadRun() {
	err := m.ctrl.LoadRun()
	if errors.Is(err, runstate.ErrNoSavedRun) {
		m.setStatus("No saved run")
		return
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.capture = nil
	m.setStatus("Run loaded")
}

func (m *model) copyReport() {
	data, err := m.ctrl.ReportCSV()
	if err != nil {
		m.setError(err)
		return
	}
	if m.clip == nil {
		m.setError(errors.New("clipboard unavailable"))
		return
	}
	if err := m.clip(string(data)); err != nil {
		m.setError(fmt.Errorf("copy report: %w", err))
		return
	}
	m.setStatus("Report copied to clipboard")
}

// openPrompt asks for a file path, prefilled with value.
func (m model) openPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	m.mode = modePrompt
	m.prompt = kind
	m.inputErr = ""
	m.input.Placeholder = "path/to/template.json"
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeTimer
		m.input.Blur()
		m.setStatus("Cancelled")
		return m, nil
	case tea.KeyEnter:
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submitPrompt() (tea.Model, tea.Cmd) {
	path := m.input.Value()
	if path == "" {
		m.inputErr = "enter a file path"
		return m, nil
	}

	var err error
	switch m.prompt {
	case promptImport:
		if err = m.ctrl.ImportTemplate(path); err == nil {
			m.capture = nil
			m.row = 0
			m.setStatus(fmt.Sprintf("Imported %s (%d splits)", m.ctrl.Run().Label(), m.ctrl.Run().Len()))
		}
	case promptExport:
		if err = m.ctrl.ExportTemplate(path); err == nil {
			m.setStatus("Template exported to " + path)
		}
	case promptBests:
		m.updateBests(path)
		if m.statusErr {
			m.inputErr = m.status
			return m, nil
		}
	}
	if err != nil {
		m.inputErr = err.Error()
		return m, nil
	}
	m.mode = modeTimer
	m.inputErr = ""
	m.input.Blur()
	return m, nil
}
