package models

// Module represents a section within a course
type Module struct {
	ID          ID       `json:"id"`                    // unique identifier
	Title       string   `json:"title"`                 // module name
	Description string   `json:"description,omitempty"` // what this module covers
	Lessons     []Lesson `json:"lessons"`               // ordered lessons
}

// EnrichedModule is a module whose lessons carry resolved completion state
type EnrichedModule struct {
	ID      ID               `json:"id"`
	Title   string           `json:"title"`
	Lessons []EnrichedLesson `json:"lessons"`
}

// ModuleProgress is the completion count for one module
type ModuleProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"` // 0-100
}
