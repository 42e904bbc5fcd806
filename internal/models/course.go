package models

import (
	"fmt"

	"github.com/google/uuid"
)

// moduleNamespace seeds the synthetic ids handed to modules the backend
// sends without one
var moduleNamespace = uuid.MustParse("6f1c8f0e-3b7a-4c55-9a0e-2d4b8c1e7a11")

// Course represents a complete learning course with its module tree
type Course struct {
	ID ID `json:"id"` // unique identifier

	Title       string `json:"title"`                 // course name
	Description string `json:"description,omitempty"` // what the course is about

	Modules []Module `json:"modules"` // course content
}

// CourseSummary is one entry of the enrolled-courses list
type CourseSummary struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`

	// some deployments include the percentage here, most don't
	Progress *float64 `json:"progress,omitempty"`
}

// Normalize fixes up a course tree right after it was decoded: modules get a
// stable id when the backend left it out, lessons learn their parent module
// and lesson types are folded into the known set. It works on a copy.
func (c Course) Normalize() Course {
	out := c
	out.Modules = make([]Module, len(c.Modules))

	for i, m := range c.Modules {
		if m.ID.IsZero() {
			m.ID = SyntheticModuleID(c.ID, i, m.Title)
		}

		lessons := make([]Lesson, len(m.Lessons))
		for j, l := range m.Lessons {
			if l.ModuleID.IsZero() {
				l.ModuleID = m.ID
			}
			if l.CourseID.IsZero() {
				l.CourseID = c.ID
			}
			l.Type = ParseLessonType(string(l.Type))
			if l.Links != nil {
				l.Links = append([]Link(nil), l.Links...)
			}
			lessons[j] = l
		}
		m.Lessons = lessons
		out.Modules[i] = m
	}

	return out
}

// SyntheticModuleID derives a deterministic id for a module without one, so
// the same tree fetched twice keys its modules the same way
func SyntheticModuleID(courseID ID, position int, title string) ID {
	name := fmt.Sprintf("%s/%d/%s", courseID, position, title)
	return ID(uuid.NewSHA1(moduleNamespace, []byte(name)).String())
}

// LessonCount is the number of lessons across all modules
func (c Course) LessonCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// FindLesson returns the lesson with the given id and the module holding it
func (c Course) FindLesson(id ID) (Lesson, Module, bool) {
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if l.ID == id {
				return l, m, true
			}
		}
	}
	return Lesson{}, Module{}, false
}

// EnrichedCourse is the course tree after progress has been merged in
type EnrichedCourse struct {
	ID      ID               `json:"id"`
	Title   string           `json:"title"`
	Modules []EnrichedModule `json:"modules"`
}

// FindLesson returns the enriched lesson with the given id
func (c EnrichedCourse) FindLesson(id ID) (*EnrichedLesson, bool) {
	for i := range c.Modules {
		for j := range c.Modules[i].Lessons {
			if c.Modules[i].Lessons[j].ID == id {
				l := c.Modules[i].Lessons[j]
				return &l, true
			}
		}
	}
	return nil, false
}

// CourseProgressSummary is the aggregated completion for a course
type CourseProgressSummary struct {
	TotalLessons     int                   `json:"total_lessons"`
	TotalCompleted   int                   `json:"total_completed"`
	CoursePercent    int                   `json:"course_percent"`
	ModulePercentMap map[ID]ModuleProgress `json:"module_percent_map"`
}
