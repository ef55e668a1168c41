package tui

import (
	"os"

	"golang.org/x/term"
)

// isTerminal returns true if both stdout and stdin are TTYs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTerminal reports whether the process is attached to an interactive
// terminal.
func IsTerminal() bool {
	return isTerminal()
}
