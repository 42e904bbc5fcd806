package models

import (
	"encoding/json"
	"strings"
)

// LessonType is what kind of player a lesson needs
type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypeText  LessonType = "text"
	LessonTypeFile  LessonType = "file"
)

// UnmarshalJSON folds unknown or empty types into text
func (t *LessonType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string type field - treat as plain text
		*t = LessonTypeText
		return nil
	}
	*t = ParseLessonType(s)
	return nil
}

// ParseLessonType maps a raw type string onto the known lesson types
func ParseLessonType(s string) LessonType {
	switch LessonType(strings.ToLower(strings.TrimSpace(s))) {
	case LessonTypeVideo:
		return LessonTypeVideo
	case LessonTypeFile:
		return LessonTypeFile
	default:
		return LessonTypeText
	}
}

// Link is an external resource attached to a lesson
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Lesson is a single unit inside a module
type Lesson struct {
	ID       ID `json:"id"`
	ModuleID ID `json:"module_id,omitempty"` // parent module
	CourseID ID `json:"course_id,omitempty"` // only some lesson payloads carry it

	Title       string     `json:"title"`
	Type        LessonType `json:"type"`
	Description string     `json:"description,omitempty"` // short blurb
	Content     string     `json:"content,omitempty"`     // only on the lesson detail endpoint

	Duration      Text `json:"duration,omitempty"`
	EstimatedTime Text `json:"estimated_time,omitempty"`

	Links []Link `json:"links,omitempty"`

	// flags the backend sometimes embeds directly on the lesson
	Completed bool     `json:"completed,omitempty"`
	Progress  *float64 `json:"progress,omitempty"`
}

// lessonFields has Lesson's fields without its decoder
type lessonFields Lesson

// UnmarshalJSON decodes a lesson with loose completed/progress flags, which
// arrive as bools, numbers or strings depending on the endpoint
func (l *Lesson) UnmarshalJSON(data []byte) error {
	var raw struct {
		lessonFields
		Completed interface{} `json:"completed"`
		Progress  interface{} `json:"progress"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	lesson := Lesson(raw.lessonFields)
	lesson.Completed = truthy(raw.Completed)
	lesson.Progress = nil
	if v, ok := number(raw.Progress); ok {
		lesson.Progress = &v
	}

	*l = lesson
	return nil
}

// Text is a display string that the backend may send as a number
// (durations show up as both "12:30" and 750)
type Text string

// UnmarshalJSON accepts strings, numbers and null
func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	*t = Text(strings.TrimSpace(string(data)))
	return nil
}

// EnrichedLesson is a lesson with its resolved completion state
type EnrichedLesson struct {
	Lesson
	Completed bool    `json:"completed"`
	Progress  float64 `json:"progress"`
}

// UnmarshalJSON keeps the resolved flags; without it the embedded Lesson's
// decoder would be promoted and swallow them
func (e *EnrichedLesson) UnmarshalJSON(data []byte) error {
	var lesson Lesson
	if err := json.Unmarshal(data, &lesson); err != nil {
		return err
	}

	e.Lesson = lesson
	e.Completed = lesson.Completed
	e.Progress = 0
	if lesson.Progress != nil {
		e.Progress = *lesson.Progress
	}
	return nil
}

// EffectivelyCompleted is true when either signal says the lesson is done.
// The backend is not consistent about which one it sets.
func EffectivelyCompleted(completed bool, progress float64) bool {
	return completed || progress == 100
}
