// Package template reads and writes split templates: named, ordered lists of
// split names with optional best segment times.
//
// Two on-disk shapes are accepted. The current shape is
//
//	{"Current_Template": {"splits": [{"name": "...", "best_segment": 12.5}]}}
//
// and the legacy shape maps a template name to a plain list of split names:
//
//	{"Morning": ["Wake", "Eat"]}
//
// Both are normalised into a Template before anything else sees them.
package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/npratt/splitclock/internal/timer"
)

// CurrentKey is the top-level key of the current template shape.
const CurrentKey = "Current_Template"

var (
	// ErrUnknownFormat is returned for JSON that matches neither shape.
	ErrUnknownFormat = errors.New("unrecognised template format")
	// ErrNotStructured is returned when an operation needs the current shape.
	ErrNotStructured = errors.New("template is not in the Current_Template format")
)

// Format identifies which on-disk shape a template was read from.
type Format int

const (
	// FormatCurrent is the Current_Template shape with best segments.
	FormatCurrent Format = iota
	// FormatLegacy is the flat name-to-list shape without best segments.
	FormatLegacy
)

// Entry is one split definition.
type Entry struct {
	Name        string
	BestSegment *time.Duration
}

// Template is a normalised template.
type Template struct {
	// Name is the legacy key when read from the legacy shape; otherwise empty.
	Name    string
	Format  Format
	Entries []Entry
}

// Names returns the split names in order.
func (t Template) Names() []string {
	names := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		names[i] = e.Name
	}
	return names
}

// Splits converts the template into fresh splits carrying the best segments.
func (t Template) Splits() []timer.Split {
	splits := make([]timer.Split, len(t.Entries))
	for i, e := range t.Entries {
		s := timer.NewSplit(e.Name)
		if e.BestSegment != nil {
			s.BestSegment = timer.Dur(*e.BestSegment)
		}
		splits[i] = s
	}
	return splits
}

// FromSplits builds a template from the names and best segments of splits.
func FromSplits(splits []timer.Split) Template {
	entries := make([]Entry, len(splits))
	for i, s := range splits {
		entries[i] = Entry{Name: s.Name}
		if s.BestSegment != nil {
			entries[i].BestSegment = timer.Dur(*s.BestSegment)
		}
	}
	return Template{Format: FormatCurrent, Entries: entries}
}

// fileSplit is a split entry of the current shape.
type fileSplit struct {
	Name        string   `json:"name"`
	BestSegment *float64 `json:"best_segment"`
}

type fileCurrent struct {
	Splits []fileSplit `json:"splits"`
}

type fileDoc struct {
	Current fileCurrent `json:"Current_Template"`
}

// Parse decodes either template shape.
func Parse(data []byte) (Template, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Template{}, fmt.Errorf("decode template: %w", err)
	}

	if raw, ok := top[CurrentKey]; ok {
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			return parseLegacyList(CurrentKey, raw)
		}
		var cur fileCurrent
		if err := json.Unmarshal(raw, &cur); err != nil {
			return Template{}, fmt.Errorf("decode %s: %w", CurrentKey, err)
		}
		t := Template{Format: FormatCurrent, Entries: make([]Entry, len(cur.Splits))}
		for i, s := range cur.Splits {
			t.Entries[i] = Entry{Name: s.Name, BestSegment: timer.FromSeconds(s.BestSegment)}
		}
		return t, nil
	}

	keys, err := orderedKeys(data)
	if err != nil {
		return Template{}, err
	}
	for _, key := range keys {
		raw := bytes.TrimSpace(top[key])
		if len(raw) > 0 && raw[0] == '[' {
			return parseLegacyList(key, raw)
		}
	}
	return Template{}, ErrUnknownFormat
}

func parseLegacyList(name string, raw json.RawMessage) (Template, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return Template{}, fmt.Errorf("decode legacy template %q: %w", name, err)
	}
	t := Template{Name: name, Format: FormatLegacy, Entries: make([]Entry, len(names))}
	for i, n := range names {
		t.Entries[i] = Entry{Name: n}
	}
	return t, nil
}

// orderedKeys returns the top-level object keys in document order.
func orderedKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode template: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ErrUnknownFormat
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("decode template: %w", err)
		}
	}
	return keys, nil
}

// Marshal encodes t in the current shape.
func Marshal(t Template) ([]byte, error) {
	doc := fileDoc{Current: fileCurrent{Splits: make([]fileSplit, len(t.Entries))}}
	for i, e := range t.Entries {
		doc.Current.Splits[i] = fileSplit{Name: e.Name, BestSegment: timer.Seconds(e.BestSegment)}
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return append(data, '\n'), nil
}

// Load reads a template file.
func Load(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read template: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return Template{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Save writes t to path in the current shape.
func Save(path string, t Template) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// LabelFor derives a run label from a template path: the file name without
// its extension.
func LabelFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeFileAtomic writes through a temp file and rename so readers never see
// a partial file.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
