package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Split  key.Binding
	Reset  key.Binding
	Focus  key.Binding
	Edit   key.Binding
	Import key.Binding
	Export key.Binding
	CSV    key.Binding
	Bests  key.Binding
	Save   key.Binding
	Load   key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		Split:  key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "split")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Focus:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "track window")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit splits")),
		Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import template")),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export template")),
		CSV:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "csv report")),
		Bests:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "update bests")),
		Save:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save run")),
		Load:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load run")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy csv")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Split, k.Focus, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Split, k.Reset, k.Focus},
		{k.Edit, k.Import, k.Export, k.Bests},
		{k.CSV, k.Copy, k.Save, k.Load},
		{k.Help, k.Quit},
	}
}

// editorKeys are active while the split editor is open.
type editorKeys struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Change key.Binding
	Add    key.Binding
	Remove key.Binding
	MoveUp key.Binding
	MoveDn key.Binding
	Done   key.Binding
}

func defaultEditorKeys() editorKeys {
	return editorKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:  key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next column")),
		Change: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit cell")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add split")),
		Remove: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		MoveUp: key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDn: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Done:   key.NewBinding(key.WithKeys("esc", "e"), key.WithHelp("esc", "done")),
	}
}

func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Change, k.Add, k.Remove, k.MoveUp, k.MoveDn, k.Done}
}

func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
