package player

import (
	"context"
	"errors"
	"sync"

	"github.com/NeroQue/academy-player/internal/models"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI is an in-memory student backend
type fakeAPI struct {
	mu sync.Mutex

	lessons  map[models.ID]models.Lesson
	courses  map[models.ID]models.Course
	progress map[models.ID][]models.ProgressRecord // by course
	comments map[models.ID][]models.Comment

	failCourse   bool
	failProgress bool
	upsertErr    error

	// lessonGate, when set for an id, holds GetLesson until closed
	lessonGate map[models.ID]chan struct{}
	// upsertStarted/upsertRelease hold UpsertProgress when set
	upsertStarted chan struct{}
	upsertRelease chan struct{}

	calls   []string
	updates []models.ProgressUpdate
}

func newFakeAPI() *fakeAPI {
	course := models.Course{
		ID:    "c1",
		Title: "Hiperautomação",
		Modules: []models.Module{
			{ID: "m1", Title: "Fundamentos", Lessons: []models.Lesson{
				{ID: "l1", Title: "Boas-vindas", Type: models.LessonTypeVideo},
				{ID: "l2", Title: "Conceitos", Type: models.LessonTypeText},
			}},
			{ID: "m2", Title: "Prática", Lessons: []models.Lesson{
				{ID: "l3", Title: "Primeiro robô", Type: models.LessonTypeFile, Completed: true},
			}},
		},
	}.Normalize()

	lessons := make(map[models.ID]models.Lesson)
	for _, m := range course.Modules {
		for _, l := range m.Lessons {
			l.Content = "conteúdo de " + l.Title
			lessons[l.ID] = l
		}
	}

	return &fakeAPI{
		lessons:    lessons,
		courses:    map[models.ID]models.Course{"c1": course},
		progress:   map[models.ID][]models.ProgressRecord{"c1": {{LessonID: "l1", Completed: true, LastPosition: 95}}},
		comments:   make(map[models.ID][]models.Comment),
		lessonGate: make(map[models.ID]chan struct{}),
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) GetLesson(ctx context.Context, lessonID models.ID) (models.Lesson, error) {
	f.record("lesson " + lessonID.String())

	f.mu.Lock()
	gate := f.lessonGate[lessonID]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.Lesson{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[lessonID]
	if !ok {
		return models.Lesson{}, errors.New("404")
	}
	return l, nil
}

func (f *fakeAPI) ListCourses(ctx context.Context) ([]models.CourseSummary, error) {
	f.record("courses")
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.CourseSummary
	for _, c := range f.courses {
		out = append(out, models.CourseSummary{ID: c.ID, Title: c.Title})
	}
	return out, nil
}

func (f *fakeAPI) GetCourse(ctx context.Context, courseID models.ID) (models.Course, error) {
	f.record("course " + courseID.String())
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCourse {
		return models.Course{}, errBackend
	}
	c, ok := f.courses[courseID]
	if !ok {
		return models.Course{}, errors.New("404")
	}
	return c, nil
}

func (f *fakeAPI) ListProgress(ctx context.Context, courseID models.ID) ([]models.ProgressRecord, error) {
	f.record("progress " + courseID.String())
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failProgress {
		return nil, errBackend
	}
	return append([]models.ProgressRecord(nil), f.progress[courseID]...), nil
}

func (f *fakeAPI) UpsertProgress(ctx context.Context, update models.ProgressUpdate) error {
	f.record("upsert " + update.LessonID.String())

	if f.upsertStarted != nil {
		f.upsertStarted <- struct{}{}
	}
	if f.upsertRelease != nil {
		<-f.upsertRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if f.upsertErr != nil {
		return f.upsertErr
	}

	rec := models.ProgressRecord{LessonID: update.LessonID, Completed: update.Completed, LastPosition: update.LastPosition}
	f.progress["c1"] = append(f.progress["c1"], rec)
	return nil
}

func (f *fakeAPI) ListComments(ctx context.Context, lessonID models.ID) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.comments[lessonID], nil
}

func (f *fakeAPI) PostComment(ctx context.Context, input models.CreateCommentInput) (models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.Comment{ID: "new", LessonID: input.LessonID, Content: input.Content, ParentID: input.ParentID}
	f.comments[input.LessonID] = append(f.comments[input.LessonID], c)
	return c, nil
}

func (f *fakeAPI) LikeComment(ctx context.Context, commentID models.ID) error {
	f.record("like " + commentID.String())
	return nil
}

func (f *fakeAPI) DeleteComment(ctx context.Context, commentID models.ID) error {
	f.record("delete " + commentID.String())
	return nil
}

func (f *fakeAPI) writes() []models.ProgressUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ProgressUpdate(nil), f.updates...)
}
