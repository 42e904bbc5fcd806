// Package progress turns a course tree and the viewer's progress records into
// the lesson player's view model: per-lesson completion, module and course
// percentages, and previous/next navigation.
//
// Everything here is a pure function of its inputs. The player re-runs it on
// every input change instead of patching derived state in place.
package progress

import "github.com/NeroQue/academy-player/internal/models"

// Reconcile merges progress records onto the lessons of a course.
//
// Records are indexed by lesson id in the order given; when the backend sends
// more than one record for a lesson the last one wins. Records for lessons
// that are not part of this course are ignored. The input course is left
// untouched.
func Reconcile(course models.Course, records []models.ProgressRecord) models.EnrichedCourse {
	byLesson := make(map[models.ID]models.ProgressRecord, len(records))
	for _, rec := range records {
		if rec.LessonID.IsZero() {
			continue
		}
		byLesson[rec.LessonID] = rec
	}

	out := models.EnrichedCourse{
		ID:      course.ID,
		Title:   course.Title,
		Modules: make([]models.EnrichedModule, len(course.Modules)),
	}

	for i, m := range course.Modules {
		lessons := make([]models.EnrichedLesson, len(m.Lessons))
		for j, l := range m.Lessons {
			rec, ok := byLesson[l.ID]
			lessons[j] = enrich(l, rec, ok)
		}
		out.Modules[i] = models.EnrichedModule{
			ID:      m.ID,
			Title:   m.Title,
			Lessons: lessons,
		}
	}

	return out
}

// enrich resolves one lesson's completion and percentage
func enrich(l models.Lesson, rec models.ProgressRecord, hasRecord bool) models.EnrichedLesson {
	var completed bool
	var pct float64

	if !hasRecord {
		// nothing from the progress endpoint - trust whatever the tree carried
		completed = l.Completed || (l.Progress != nil && *l.Progress == 100)
		switch {
		case l.Progress != nil:
			pct = *l.Progress
		case completed:
			pct = 100
		}
	} else {
		completed = rec.Completed
		switch {
		case rec.Progress != nil:
			pct = *rec.Progress
		case rec.Completed:
			pct = 100
		case l.Progress != nil:
			pct = *l.Progress
		}
		completed = models.EffectivelyCompleted(completed, pct)
	}

	lesson := l
	if l.Links != nil {
		lesson.Links = append([]models.Link(nil), l.Links...)
	}
	if l.Progress != nil {
		p := *l.Progress
		lesson.Progress = &p
	}

	return models.EnrichedLesson{
		Lesson:    lesson,
		Completed: completed,
		Progress:  pct,
	}
}
