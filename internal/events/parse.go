package events

import (
	"encoding/json"
	"fmt"
)

type envelope struct {
	Type EventType `json:"type"`
}

// ParseEvent decodes one journal line into its typed event. Unknown types
// return (nil, nil) so newer journals stay readable.
func ParseEvent(line []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, err
	}

	var ev Event
	switch env.Type {
	case EventRunStart, EventRunStop, EventRunReset:
		ev = &RunEvent{}
	case EventSplitCommit:
		ev = &SplitCommitEvent{}
	case EventWakeAutoComplete:
		ev = &WakeAutoCompleteEvent{}
	case EventFocusArmed, EventFocusTracking, EventFocusStopped:
		ev = &FocusEvent{}
	case EventTemplateImport, EventTemplateExport, EventTemplateBests:
		ev = &TemplateEvent{}
	case EventStateSave, EventStateLoad, EventReportExport:
		ev = &FileEvent{}
	case EventError:
		ev = &ErrorEvent{}
	default:
		return nil, nil
	}
	if err := json.Unmarshal(line, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return ev, nil
}
