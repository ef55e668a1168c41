package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotInLibrary is returned when a named template is missing from the library.
var ErrNotInLibrary = errors.New("template not in library")

// Library is a JSON file of named templates in the legacy shape:
// {"NAME": ["split", ...], ...}.
type Library struct {
	path string
}

// NewLibrary creates a Library backed by the file at path.
func NewLibrary(path string) *Library {
	return &Library{path: path}
}

// Path returns the library file path.
func (l *Library) Path() string {
	return l.path
}

func (l *Library) read() (map[string][]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode library %s: %w", l.path, err)
	}
	if entries == nil {
		entries = make(map[string][]string)
	}
	return entries, nil
}

// Get returns the split names stored under name.
func (l *Library) Get(name string) ([]string, error) {
	entries, err := l.read()
	if err != nil {
		return nil, err
	}
	names, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotInLibrary, name)
	}
	return names, nil
}

// Put stores names under name, keeping the other entries.
func (l *Library) Put(name string, names []string) error {
	entries, err := l.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		entries = make(map[string][]string)
	}
	entries[name] = names
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	return writeFileAtomic(l.path, append(data, '\n'))
}

// Ensure returns the names stored under name. When the library file or the
// entry does not exist yet, fallback is stored under name and returned.
func (l *Library) Ensure(name string, fallback []string) ([]string, error) {
	names, err := l.Get(name)
	if err == nil {
		return names, nil
	}
	if !os.IsNotExist(err) && !errors.Is(err, ErrNotInLibrary) {
		return nil, err
	}
	if err := l.Put(name, fallback); err != nil {
		return fallback, err
	}
	return fallback, nil
}
