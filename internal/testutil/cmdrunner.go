// Package testutil provides fakes and helpers shared by splitclock tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// CommandCall records one command invocation.
type CommandCall struct {
	Name string
	Args []string
}

// MockRunner returns canned output keyed by "name arg1 arg2 ..." and records
// every call. Sequences, when set for a key, are consumed in order before
// falling back to Responses.
type MockRunner struct {
	mu        sync.Mutex
	Responses map[string][]byte
	Errors    map[string]error
	Sequences map[string][]string
	Calls     []CommandCall
}

// NewMockRunner creates a MockRunner with initialized maps.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string][]byte),
		Errors:    make(map[string]error),
		Sequences: make(map[string][]string),
	}
}

// Run records the call and returns the configured output or error.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := makeKey(name, args)
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if seq := m.Sequences[key]; len(seq) > 0 {
		m.Sequences[key] = seq[1:]
		return []byte(seq[0]), nil
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}
	return nil, fmt.Errorf("unexpected command: %s", key)
}

// SetResponse configures the output for a command.
func (m *MockRunner) SetResponse(name string, args []string, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[makeKey(name, args)] = []byte(response)
}

// SetSequence configures outputs returned one per call for a command.
func (m *MockRunner) SetSequence(name string, args []string, outputs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sequences[makeKey(name, args)] = outputs
}

// SetError configures an error for a command.
func (m *MockRunner) SetError(name string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[makeKey(name, args)] = err
}

// GetCalls returns a copy of the recorded calls.
func (m *MockRunner) GetCalls() []CommandCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]CommandCall, len(m.Calls))
	copy(result, m.Calls)
	return result
}

func makeKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
