package template

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/npratt/splitclock/internal/timer"
)

// UpdateBestSegments syncs the best segments stored in the template at path
// with a run's segment times, matching splits by position. Any stored value
// that differs from the run's segment time is overwritten, whether or not the
// run was faster; splits without a segment time, and splits beyond the
// template's length, are left alone. Other JSON fields in the file are
// preserved. The file is rewritten only when something changed, and the
// returned bool reports whether it was.
func UpdateBestSegments(path string, segments []*time.Duration) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read template: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return false, fmt.Errorf("decode template: %w", err)
	}
	rawCurrent, ok := top[CurrentKey]
	if !ok {
		return false, ErrNotStructured
	}
	var current map[string]json.RawMessage
	if err := json.Unmarshal(rawCurrent, &current); err != nil {
		return false, ErrNotStructured
	}
	var splits []map[string]json.RawMessage
	if err := json.Unmarshal(current["splits"], &splits); err != nil {
		return false, fmt.Errorf("decode splits: %w", err)
	}
	for i, sp := range splits {
		if sp == nil {
			return false, fmt.Errorf("decode splits: split %d is not an object", i)
		}
	}

	updated := false
	for i, seg := range segments {
		if seg == nil || i >= len(splits) {
			continue
		}
		var stored *float64
		if raw, ok := splits[i]["best_segment"]; ok {
			if err := json.Unmarshal(raw, &stored); err != nil {
				return false, fmt.Errorf("decode best_segment of split %d: %w", i, err)
			}
		}
		if existing := timer.FromSeconds(stored); existing != nil && *existing == *seg {
			continue
		}
		raw, err := json.Marshal(timer.Seconds(seg))
		if err != nil {
			return false, fmt.Errorf("encode best_segment: %w", err)
		}
		splits[i]["best_segment"] = raw
		updated = true
	}
	if !updated {
		return false, nil
	}

	if current["splits"], err = json.Marshal(splits); err != nil {
		return false, fmt.Errorf("encode splits: %w", err)
	}
	if top[CurrentKey], err = json.Marshal(current); err != nil {
		return false, fmt.Errorf("encode %s: %w", CurrentKey, err)
	}
	out, err := json.MarshalIndent(top, "", "    ")
	if err != nil {
		return false, fmt.Errorf("encode template: %w", err)
	}
	if err := writeFileAtomic(path, append(out, '\n')); err != nil {
		return false, err
	}
	return true, nil
}
