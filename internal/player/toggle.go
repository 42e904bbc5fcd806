package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/progress"
	"github.com/NeroQue/academy-player/pkg/metrics"
	"github.com/NeroQue/academy-player/pkg/task"
)

const (
	actionComplete   = "complete"
	actionUncomplete = "uncomplete"
)

// MarkComplete moves a lesson of the open course to completed
func (p *Player) MarkComplete(ctx context.Context, lessonID models.ID) (State, error) {
	return p.setCompletion(ctx, lessonID, true)
}

// Unmark moves a lesson of the open course back to incomplete
func (p *Player) Unmark(ctx context.Context, lessonID models.ID) (State, error) {
	return p.setCompletion(ctx, lessonID, false)
}

// Toggle flips whatever completion state the lesson currently shows
func (p *Player) Toggle(ctx context.Context, lessonID models.ID) (State, error) {
	lesson, err := p.lessonInView(lessonID)
	if err != nil {
		return State{}, err
	}
	return p.setCompletion(ctx, lessonID, !lesson.Completed)
}

// AdvanceToNext completes the open lesson and opens the one after it, either
// the next lesson of the module or the first lesson of the next module
func (p *Player) AdvanceToNext(ctx context.Context) (State, error) {
	cur, ok := p.Current()
	if !ok {
		return State{}, ErrNothingOpen
	}

	state, err := p.MarkComplete(ctx, cur.Lesson.ID)
	if err != nil {
		return state, err
	}
	if state.View == nil {
		return state, ErrOutlineUnavailable
	}

	next := state.View.Navigation.Next()
	if next == nil {
		return state, ErrNoNextLesson
	}
	return p.Open(ctx, next.ID, state.CourseID)
}

// setCompletion is the completion state machine: at most one write per
// transition, at most one write in flight per lesson, and the view is only
// made authoritative by a refetch after the write succeeded
func (p *Player) setCompletion(ctx context.Context, lessonID models.ID, completed bool) (State, error) {
	action := actionUncomplete
	if completed {
		action = actionComplete
	}

	lesson, err := p.lessonInView(lessonID)
	if err != nil {
		return State{}, err
	}

	// the view may already show the pending write, so check this first
	if p.tasks.InFlight(lessonID.String()) {
		metrics.RecordToggle(action, "in_flight")
		return State{}, ErrToggleInFlight
	}

	err = models.StateOf(lesson.Completed).Transition(models.StateOf(completed))
	if errors.Is(err, models.ErrNoTransition) {
		// already there - nothing to write
		metrics.RecordToggle(action, "noop")
		cur, _ := p.Current()
		return cur, nil
	}
	if err != nil {
		return State{}, err
	}

	taskID, err := p.tasks.Begin(action, lessonID.String())
	if errors.Is(err, task.ErrInFlight) {
		metrics.RecordToggle(action, "in_flight")
		return State{}, ErrToggleInFlight
	}
	if err != nil {
		return State{}, err
	}

	before, gen := p.snapshot()
	if before.View != nil {
		patched := progress.Patch(*before.View, lessonID, completed)
		provisional := before
		provisional.View = &patched
		provisional.Provisional = true
		p.replaceIf(gen, provisional)
	}

	p.tasks.SetTaskMessage(taskID, "saving progress")
	update := models.ProgressUpdate{
		LessonID:     lessonID,
		Completed:    completed,
		LastPosition: p.position(lessonID),
	}
	if err := p.api.UpsertProgress(ctx, update); err != nil {
		p.log.Error("failed to save lesson progress", "lesson_id", lessonID, "completed", completed, "error", err)
		p.tasks.SetTaskError(taskID, err.Error())
		metrics.RecordToggle(action, "failed")

		// put the view back the way it was before the optimistic patch
		reverted, ok := p.replaceIf(gen, before)
		if !ok {
			reverted, _ = p.Current()
		}
		return reverted, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	// the refetch keeps the generation the toggle started from, so a lesson
	// opened meanwhile is not overwritten by it
	p.tasks.SetTaskMessage(taskID, "refreshing course")
	state, err := p.reload(ctx, gen, before)
	p.tasks.CompleteTask(taskID, map[string]interface{}{"lesson_id": lessonID, "completed": completed})
	metrics.RecordToggle(action, "success")

	if err != nil {
		// the write went through; either the refetch failed and the patched
		// view stays, or a newer load replaced this lesson
		p.log.Warn("progress saved but refresh not published", "lesson_id", lessonID, "error", err)
		cur, _ := p.Current()
		return cur, nil
	}
	return state, nil
}

// lessonInView finds a lesson in the open course
func (p *Player) lessonInView(lessonID models.ID) (*models.EnrichedLesson, error) {
	cur, ok := p.Current()
	if !ok {
		return nil, ErrNothingOpen
	}
	if cur.View == nil {
		return nil, ErrOutlineUnavailable
	}
	lesson, found := cur.View.Course.FindLesson(lessonID)
	if !found {
		return nil, fmt.Errorf("%w: %s is not part of course %s", ErrLessonNotFound, lessonID, cur.CourseID)
	}
	return lesson, nil
}

// snapshot returns the state together with the generation that produced it
func (p *Player) snapshot() (State, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state == nil {
		return State{}, 0
	}
	return *p.state, p.state.Generation
}

// replaceIf swaps in a state derived from the current one, unless a newer
// load has been published meanwhile
func (p *Player) replaceIf(gen uint64, state State) (State, bool) {
	p.mu.Lock()
	if p.state == nil || p.state.Generation != gen {
		p.mu.Unlock()
		return State{}, false
	}
	state.Generation = gen
	p.state = &state
	p.mu.Unlock()

	p.broadcast(state)
	return state, true
}

func (p *Player) position(lessonID models.ID) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.positions[lessonID]
}
