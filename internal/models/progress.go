package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ProgressRecord is the backend's record of one viewer's state on one lesson.
// This is the only shape the rest of the code sees; the field-name drift of
// the progress endpoint is absorbed by UnmarshalJSON below.
type ProgressRecord struct {
	LessonID     ID       `json:"lesson_id"`
	Completed    bool     `json:"completed"`
	Progress     *float64 `json:"progress,omitempty"`      // nil when the record had no percentage
	LastPosition int      `json:"last_position,omitempty"` // seconds (for videos)
}

// progressRecordJSON lists every name the percentage has been seen under
type progressRecordJSON struct {
	LessonID           ID          `json:"lesson_id"`
	Completed          interface{} `json:"completed"`
	Progress           interface{} `json:"progress"`
	ProgressPercent    interface{} `json:"progress_percent"`
	ProgressPercentage interface{} `json:"progressPercentage"`
	LastPosition       interface{} `json:"last_position"`
}

// UnmarshalJSON normalizes a raw progress record. The percentage is taken
// from progress, progress_percent, progressPercentage in that order.
func (p *ProgressRecord) UnmarshalJSON(data []byte) error {
	var raw progressRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid progress record: %w", err)
	}

	rec := ProgressRecord{
		LessonID:  raw.LessonID,
		Completed: truthy(raw.Completed),
	}

	for _, candidate := range []interface{}{raw.Progress, raw.ProgressPercent, raw.ProgressPercentage} {
		if v, ok := number(candidate); ok {
			rec.Progress = &v
			break
		}
	}

	if v, ok := number(raw.LastPosition); ok {
		rec.LastPosition = int(v)
	}

	*p = rec
	return nil
}

// number reads a JSON number or a numeric string
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// truthy mirrors a loose boolean cast: true, non-zero numbers and
// non-empty strings other than "false"/"0" count as true
func truthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		return b != "" && b != "false" && b != "0"
	default:
		return false
	}
}

// ProgressUpdate is the body of the create-or-update progress write
type ProgressUpdate struct {
	LessonID     ID   `json:"lesson_id"`
	Completed    bool `json:"completed"`
	LastPosition int  `json:"last_position"`
}

// CompletionState is where a lesson sits in the completion toggle
type CompletionState string

const (
	StateIncomplete CompletionState = "incomplete"
	StateCompleted  CompletionState = "completed"
)

// StateOf maps a completed flag onto a state
func StateOf(completed bool) CompletionState {
	if completed {
		return StateCompleted
	}
	return StateIncomplete
}

// ErrNoTransition is returned when a toggle would not change anything
var ErrNoTransition = errors.New("lesson is already in the requested state")

// Transition validates moving from s to target
func (s CompletionState) Transition(target CompletionState) error {
	if target != StateCompleted && target != StateIncomplete {
		return fmt.Errorf("unknown completion state %q", target)
	}
	if s == target {
		return ErrNoTransition
	}
	return nil
}
