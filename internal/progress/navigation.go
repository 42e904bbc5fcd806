package progress

import "github.com/NeroQue/academy-player/internal/models"

// Resolve finds the neighbours of the current lesson in document order
// (modules in order, lessons in order within each module).
//
// PreviousLesson may sit in an earlier module. NextLesson is only set when
// the following lesson is in the same module; when the current lesson closes
// its module, NextModuleEntry points at the first lesson of the module right
// after it instead. A current id that is not in the tree yields an empty
// context.
func Resolve(course models.EnrichedCourse, current models.ID) models.NavigationContext {
	var nav models.NavigationContext
	if current.IsZero() {
		return nav
	}

	var lastVisited *models.EnrichedLesson
	found := false
	currentModule := -1

scan:
	for mi := range course.Modules {
		lessons := course.Modules[mi].Lessons
		for li := range lessons {
			lesson := &lessons[li]

			if found {
				if mi == currentModule {
					next := *lesson
					nav.NextLesson = &next
				}
				break scan
			}

			if lesson.ID == current {
				if lastVisited != nil {
					prev := *lastVisited
					nav.PreviousLesson = &prev
				}
				found = true
				currentModule = mi
				continue
			}

			lastVisited = lesson
		}
	}

	if !found || nav.NextLesson != nil {
		return nav
	}

	// current lesson closes its module - offer the next module's entry point
	nextModule := currentModule + 1
	if nextModule < len(course.Modules) && len(course.Modules[nextModule].Lessons) > 0 {
		m := course.Modules[nextModule]
		first := m.Lessons[0]
		nav.NextModuleEntry = &models.NextModuleEntry{
			ModuleID:    m.ID,
			ModuleTitle: m.Title,
			Lesson:      first,
		}
	}

	return nav
}
