// Package window queries the title of the foreground application window.
package window

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/npratt/splitclock/internal/exec"
)

// ErrUnsupported is returned when no query command is known for the platform.
var ErrUnsupported = errors.New("foreground window query not supported on this platform")

// Querier returns the title of the currently focused window.
type Querier interface {
	ActiveWindowTitle(ctx context.Context) (string, error)
}

// DefaultCommand returns the query command for goos, or nil when unknown.
func DefaultCommand(goos string) []string {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return []string{"xdotool", "getactivewindow", "getwindowname"}
	case "darwin":
		return []string{"osascript", "-e",
			`tell application "System Events" to get name of first application process whose frontmost is true`}
	default:
		return nil
	}
}

// CommandQuerier runs an external command and reads the title from its
// standard output.
type CommandQuerier struct {
	runner  exec.CommandRunner
	command []string
}

// NewCommandQuerier creates a querier running command. An empty command
// falls back to DefaultCommand for the current platform.
func NewCommandQuerier(runner exec.CommandRunner, command []string) *CommandQuerier {
	if len(command) == 0 {
		command = DefaultCommand(runtime.GOOS)
	}
	return &CommandQuerier{runner: runner, command: command}
}

// Command returns the command that will be run.
func (q *CommandQuerier) Command() []string {
	return q.command
}

// ActiveWindowTitle runs the query and returns the trimmed first line of
// its output.
func (q *CommandQuerier) ActiveWindowTitle(ctx context.Context) (string, error) {
	if len(q.command) == 0 {
		return "", ErrUnsupported
	}
	out, err := q.runner.Run(ctx, q.command[0], q.command[1:]...)
	if err != nil {
		return "", fmt.Errorf("query foreground window: %w", err)
	}
	title, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(title), nil
}

// Static is a Querier that always reports the same title.
type Static string

// ActiveWindowTitle returns s.
func (s Static) ActiveWindowTitle(context.Context) (string, error) {
	return string(s), nil
}
