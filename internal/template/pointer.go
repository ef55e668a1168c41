package template

import (
	"os"
	"strings"
)

// Pointer is a one-line file naming the most recently used template.
type Pointer struct {
	path string
}

// NewPointer creates a Pointer stored at path.
func NewPointer(path string) *Pointer {
	return &Pointer{path: path}
}

// Path returns the pointer file path.
func (p *Pointer) Path() string {
	return p.path
}

// Read returns the recorded template path. ok is false when nothing is
// recorded or the recorded template no longer exists.
func (p *Pointer) Read() (string, bool, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	target := strings.TrimSpace(string(data))
	if target == "" {
		return "", false, nil
	}
	if _, err := os.Stat(target); err != nil {
		return target, false, nil
	}
	return target, true, nil
}

// Write records target as the last used template.
func (p *Pointer) Write(target string) error {
	return writeFileAtomic(p.path, []byte(target))
}
