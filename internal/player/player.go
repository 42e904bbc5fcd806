// Package player is the stateful shell around the progress pipeline. It
// fetches a lesson with its course and progress, keeps the resulting view for
// one viewer, and flips lesson completion through the backend.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/progress"
	"github.com/NeroQue/academy-player/pkg/metrics"
	"github.com/NeroQue/academy-player/pkg/task"
)

var (
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrCourseUnknown      = errors.New("could not tell which course the lesson belongs to")
	ErrOutlineUnavailable = errors.New("course outline is not available")
	ErrStaleResponse      = errors.New("a newer load replaced this one")
	ErrNothingOpen        = errors.New("no lesson is open")
	ErrToggleInFlight     = errors.New("a completion change for this lesson is still being saved")
	ErrWriteFailed        = errors.New("failed to save lesson progress")
	ErrNoNextLesson       = errors.New("this is the last lesson of the course")
)

// API is the part of the student backend the player needs
type API interface {
	GetLesson(ctx context.Context, lessonID models.ID) (models.Lesson, error)
	ListCourses(ctx context.Context) ([]models.CourseSummary, error)
	GetCourse(ctx context.Context, courseID models.ID) (models.Course, error)
	ListProgress(ctx context.Context, courseID models.ID) ([]models.ProgressRecord, error)
	UpsertProgress(ctx context.Context, update models.ProgressUpdate) error

	ListComments(ctx context.Context, lessonID models.ID) ([]models.Comment, error)
	PostComment(ctx context.Context, input models.CreateCommentInput) (models.Comment, error)
	LikeComment(ctx context.Context, commentID models.ID) error
	DeleteComment(ctx context.Context, commentID models.ID) error
}

// State is what the player currently shows
type State struct {
	Generation uint64        `json:"generation"`
	CourseID   models.ID     `json:"course_id"`
	Lesson     models.Lesson `json:"lesson"` // detail payload, with content

	// View is nil when the course tree could not be fetched
	View         *progress.View `json:"view"`
	OutlineError string         `json:"outline_error,omitempty"`

	// Provisional is set while a completion write has not been confirmed by
	// a refetch yet
	Provisional bool `json:"provisional"`
}

// Player owns the lesson view of a single viewer
type Player struct {
	api   API
	tasks *task.Manager
	log   *slog.Logger

	// generation goes up on every load; only the latest load may publish
	generation atomic.Uint64

	mu        sync.RWMutex
	state     *State
	positions map[models.ID]int // last_position per lesson, from the latest progress fetch

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int
}

// New creates a player. tasks may be shared with the API layer so running
// writes are visible there.
func New(api API, tasks *task.Manager, log *slog.Logger) *Player {
	if tasks == nil {
		tasks = task.NewManager()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Player{
		api:       api,
		tasks:     tasks,
		log:       log,
		positions: make(map[models.ID]int),
		subs:      make(map[int]chan State),
	}
}

// Current returns the published state, if a lesson is open
func (p *Player) Current() (State, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state == nil {
		return State{}, false
	}
	return *p.state, true
}

// Open loads a lesson, its course tree and the viewer's progress and makes
// it the current state. courseHint is used when the lesson payload does not
// say which course it belongs to; it may be empty.
//
// A course fetch failure still publishes the lesson, without an outline, and
// returns ErrOutlineUnavailable. A progress fetch failure only degrades the
// view.
func (p *Player) Open(ctx context.Context, lessonID, courseHint models.ID) (State, error) {
	gen := p.generation.Add(1)

	lesson, err := p.api.GetLesson(ctx, lessonID)
	if err != nil {
		p.log.Warn("failed to fetch lesson", "lesson_id", lessonID, "error", err)
		return State{}, fmt.Errorf("%w: %w", ErrLessonNotFound, err)
	}
	if lesson.ID.IsZero() {
		lesson.ID = lessonID
	}
	lesson.Type = models.ParseLessonType(string(lesson.Type))

	courseID := lesson.CourseID
	if courseID.IsZero() {
		courseID = courseHint
	}
	if courseID.IsZero() {
		courseID, err = p.findCourse(ctx, lessonID)
		if err != nil {
			p.log.Warn("failed to locate course for lesson", "lesson_id", lessonID, "error", err)
		}
	}

	state := State{CourseID: courseID, Lesson: lesson}

	var outlineErr error
	if courseID.IsZero() {
		outlineErr = ErrCourseUnknown
	} else {
		view, positions, err := p.load(ctx, courseID, lessonID)
		if err != nil {
			outlineErr = err
		} else {
			state.View = &view
			published, ok := p.publish(gen, state, positions)
			if !ok {
				return State{}, ErrStaleResponse
			}
			return published, nil
		}
	}

	p.log.Warn("lesson opened without outline", "lesson_id", lessonID, "course_id", courseID, "error", outlineErr)
	state.OutlineError = outlineErr.Error()
	published, ok := p.publish(gen, state, nil)
	if !ok {
		return State{}, ErrStaleResponse
	}
	return published, fmt.Errorf("%w: %w", ErrOutlineUnavailable, outlineErr)
}

// Refresh refetches course and progress for the open lesson
func (p *Player) Refresh(ctx context.Context) (State, error) {
	cur, ok := p.Current()
	if !ok {
		return State{}, ErrNothingOpen
	}
	if cur.CourseID.IsZero() {
		return cur, ErrCourseUnknown
	}

	return p.reload(ctx, p.generation.Add(1), cur)
}

// reload refetches course and progress for the lesson shown in cur and
// publishes the result under gen. A load started after gen wins over it.
func (p *Player) reload(ctx context.Context, gen uint64, cur State) (State, error) {
	view, positions, err := p.load(ctx, cur.CourseID, cur.Lesson.ID)
	if err != nil {
		p.log.Warn("failed to refresh course", "course_id", cur.CourseID, "error", err)
		return cur, fmt.Errorf("%w: %w", ErrOutlineUnavailable, err)
	}

	next := State{CourseID: cur.CourseID, Lesson: cur.Lesson, View: &view}
	published, ok := p.publish(gen, next, positions)
	if !ok {
		return State{}, ErrStaleResponse
	}
	return published, nil
}

// CourseView builds the view for a course without changing the open lesson
func (p *Player) CourseView(ctx context.Context, courseID models.ID) (progress.View, error) {
	view, _, err := p.load(ctx, courseID, "")
	return view, err
}

// Courses lists the viewer's enrolled courses
func (p *Player) Courses(ctx context.Context) ([]models.CourseSummary, error) {
	courses, err := p.api.ListCourses(ctx)
	if err != nil {
		p.log.Warn("failed to list courses", "error", err)
		return nil, err
	}
	return courses, nil
}

// load fetches course and progress concurrently and runs the pipeline.
// Only the course fetch can fail it; without progress the view is degraded.
func (p *Player) load(ctx context.Context, courseID, lessonID models.ID) (progress.View, map[models.ID]int, error) {
	var (
		course    models.Course
		records   []models.ProgressRecord
		recordErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		course, err = p.api.GetCourse(gctx, courseID)
		return err
	})
	g.Go(func() error {
		// never fails the group, a missing progress list is not fatal
		records, recordErr = p.api.ListProgress(gctx, courseID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return progress.View{}, nil, fmt.Errorf("failed to fetch course %s: %w", courseID, err)
	}

	if recordErr != nil {
		p.log.Warn("progress unavailable, using embedded completion flags", "course_id", courseID, "error", recordErr)
		metrics.RecordDegradedBuild()
		view := progress.Build(course, nil, lessonID)
		view.Degraded = true
		return view, nil, nil
	}

	positions := make(map[models.ID]int, len(records))
	for _, rec := range records {
		positions[rec.LessonID] = rec.LastPosition
	}

	return progress.Build(course, records, lessonID), positions, nil
}

// findCourse looks through the enrolled courses for the one holding lessonID
func (p *Player) findCourse(ctx context.Context, lessonID models.ID) (models.ID, error) {
	courses, err := p.api.ListCourses(ctx)
	if err != nil {
		return "", err
	}

	found := make([]bool, len(courses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, summary := range courses {
		g.Go(func() error {
			course, err := p.api.GetCourse(gctx, summary.ID)
			if err != nil {
				// one broken course should not hide the others
				p.log.Debug("skipping course while locating lesson", "course_id", summary.ID, "error", err)
				return nil
			}
			_, _, found[i] = course.FindLesson(lessonID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	for i, ok := range found {
		if ok {
			return courses[i].ID, nil
		}
	}
	return "", ErrCourseUnknown
}

// publish replaces the state if gen is still the latest load and returns
// the state it stored
func (p *Player) publish(gen uint64, state State, positions map[models.ID]int) (State, bool) {
	p.mu.Lock()
	if gen != p.generation.Load() {
		p.mu.Unlock()
		metrics.RecordStaleResponse()
		p.log.Debug("discarding stale response", "generation", gen, "lesson_id", state.Lesson.ID)
		return State{}, false
	}
	state.Generation = gen
	p.state = &state
	if positions != nil {
		p.positions = positions
	}
	p.mu.Unlock()

	p.broadcast(state)
	return state, true
}
