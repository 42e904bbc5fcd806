package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRecordUnmarshal(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantLesson   ID
		wantDone     bool
		wantProgress *float64
	}{
		{"progress field", `{"lesson_id":"l1","completed":true,"progress":100}`, "l1", true, ptr(100)},
		{"progress_percent field", `{"lesson_id":7,"completed":false,"progress_percent":40}`, "7", false, ptr(40)},
		{"progressPercentage field", `{"lesson_id":"l2","progressPercentage":"55.5"}`, "l2", false, ptr(55.5)},
		{"first name wins", `{"lesson_id":"l3","progress":10,"progress_percent":90}`, "l3", false, ptr(10)},
		{"no percentage", `{"lesson_id":"l4","completed":true}`, "l4", true, nil},
		{"loose completed", `{"lesson_id":"l5","completed":1}`, "l5", true, nil},
		{"null progress falls through", `{"lesson_id":"l6","progress":null,"progress_percent":30}`, "l6", false, ptr(30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec ProgressRecord
			require.NoError(t, json.Unmarshal([]byte(tt.input), &rec))

			assert.Equal(t, tt.wantLesson, rec.LessonID)
			assert.Equal(t, tt.wantDone, rec.Completed)
			if tt.wantProgress == nil {
				assert.Nil(t, rec.Progress)
				return
			}
			require.NotNil(t, rec.Progress)
			assert.InDelta(t, *tt.wantProgress, *rec.Progress, 0.0001)
		})
	}
}

func TestProgressRecordUnmarshal_IgnoresGarbageValues(t *testing.T) {
	var rec ProgressRecord
	require.NoError(t, json.Unmarshal([]byte(`{"lesson_id":"l1","progress":"lots","last_position":"12"}`), &rec))

	assert.Nil(t, rec.Progress)
	assert.Equal(t, 12, rec.LastPosition)
}

func TestCompletionStateTransition(t *testing.T) {
	assert.NoError(t, StateIncomplete.Transition(StateCompleted))
	assert.NoError(t, StateCompleted.Transition(StateIncomplete))
	assert.ErrorIs(t, StateCompleted.Transition(StateCompleted), ErrNoTransition)
	assert.Error(t, StateCompleted.Transition(CompletionState("paused")))

	assert.Equal(t, StateCompleted, StateOf(true))
	assert.Equal(t, StateIncomplete, StateOf(false))
}

func ptr(f float64) *float64 {
	return &f
}
