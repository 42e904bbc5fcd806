package progress

import "github.com/NeroQue/academy-player/internal/models"

// View is everything the lesson player renders around the current lesson
type View struct {
	Course        models.EnrichedCourse        `json:"course"`
	Summary       models.CourseProgressSummary `json:"summary"`
	Navigation    models.NavigationContext     `json:"navigation"`
	CurrentLesson *models.EnrichedLesson       `json:"current_lesson"`

	// Degraded is set when progress could not be fetched and completion only
	// reflects the flags embedded in the course tree
	Degraded bool `json:"degraded"`
}

// Build runs the whole pipeline: reconcile, aggregate, resolve navigation
func Build(course models.Course, records []models.ProgressRecord, current models.ID) View {
	enriched := Reconcile(course, records)
	return derive(enriched, current)
}

// derive fills summary, navigation and current lesson from an enriched tree
func derive(course models.EnrichedCourse, current models.ID) View {
	view := View{
		Course:     course,
		Summary:    Aggregate(course),
		Navigation: Resolve(course, current),
	}
	if l, ok := course.FindLesson(current); ok {
		view.CurrentLesson = l
	}
	return view
}

// Focus re-resolves navigation for another lesson of the same tree
func Focus(view View, current models.ID) View {
	out := derive(view.Course, current)
	out.Degraded = view.Degraded
	return out
}

// Patch returns a provisional copy of view with one lesson flipped to the
// given completion state. It stands in for the real result between a
// progress write and the refetch that follows it. The input is not touched.
//
// Unmarking clears the percentage too, otherwise a lesson at 100% would stay
// completed through the OR rule.
func Patch(view View, lessonID models.ID, completed bool) View {
	course := models.EnrichedCourse{
		ID:      view.Course.ID,
		Title:   view.Course.Title,
		Modules: make([]models.EnrichedModule, len(view.Course.Modules)),
	}

	for i, m := range view.Course.Modules {
		lessons := make([]models.EnrichedLesson, len(m.Lessons))
		copy(lessons, m.Lessons)
		for j := range lessons {
			if lessons[j].ID != lessonID {
				continue
			}
			lessons[j].Completed = completed
			if completed {
				lessons[j].Progress = 100
			} else {
				lessons[j].Progress = 0
			}
		}
		m.Lessons = lessons
		course.Modules[i] = m
	}

	current := models.ID("")
	if view.CurrentLesson != nil {
		current = view.CurrentLesson.ID
	}

	out := derive(course, current)
	out.Degraded = view.Degraded
	return out
}
