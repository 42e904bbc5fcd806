package models

// NextModuleEntry is where "continue" goes once the current module is done
type NextModuleEntry struct {
	ModuleID    ID             `json:"module_id"`
	ModuleTitle string         `json:"module_title"`
	Lesson      EnrichedLesson `json:"lesson"`
}

// NavigationContext holds the neighbours of the lesson being viewed
type NavigationContext struct {
	PreviousLesson  *EnrichedLesson  `json:"previous_lesson"`
	NextLesson      *EnrichedLesson  `json:"next_lesson"`
	NextModuleEntry *NextModuleEntry `json:"next_module_entry"`
}

// Next is the lesson "advance" should open, if any
func (n NavigationContext) Next() *EnrichedLesson {
	if n.NextLesson != nil {
		return n.NextLesson
	}
	if n.NextModuleEntry != nil {
		l := n.NextModuleEntry.Lesson
		return &l
	}
	return nil
}
