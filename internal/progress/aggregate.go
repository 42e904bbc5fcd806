package progress

import (
	"math"

	"github.com/NeroQue/academy-player/internal/models"
)

// Percent is completed/total as a rounded whole percentage in [0,100].
// An empty set is 0%, not a division by zero.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Aggregate computes module and course completion for an enriched course.
// Only the lessons' Completed flag is counted; Reconcile has already folded
// the percentage signal into it.
func Aggregate(course models.EnrichedCourse) models.CourseProgressSummary {
	summary := models.CourseProgressSummary{
		ModulePercentMap: make(map[models.ID]models.ModuleProgress, len(course.Modules)),
	}

	for _, m := range course.Modules {
		done := 0
		for _, l := range m.Lessons {
			if l.Completed {
				done++
			}
		}
		total := len(m.Lessons)

		summary.ModulePercentMap[m.ID] = models.ModuleProgress{
			Completed: done,
			Total:     total,
			Percent:   Percent(done, total),
		}
		summary.TotalCompleted += done
		summary.TotalLessons += total
	}

	summary.CoursePercent = Percent(summary.TotalCompleted, summary.TotalLessons)
	return summary
}
