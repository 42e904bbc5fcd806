package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/pkg/logger"
	"github.com/NeroQue/academy-player/pkg/task"
)

func newPlayer(api *fakeAPI) *Player {
	return New(api, task.NewManager(), logger.Discard())
}

func TestOpenBuildsView(t *testing.T) {
	api := newFakeAPI()
	p := newPlayer(api)

	state, err := p.Open(context.Background(), "l1", "")
	require.NoError(t, err)

	assert.Equal(t, models.ID("c1"), state.CourseID)
	assert.Equal(t, "conteúdo de Boas-vindas", state.Lesson.Content)
	require.NotNil(t, state.View)
	assert.False(t, state.View.Degraded)
	assert.False(t, state.Provisional)

	// l1 from the progress record, l3 from its embedded flag
	assert.Equal(t, 67, state.View.Summary.CoursePercent)
	assert.Equal(t, models.ModuleProgress{Completed: 1, Total: 2, Percent: 50}, state.View.Summary.ModulePercentMap["m1"])
	require.NotNil(t, state.View.Navigation.NextLesson)
	assert.Equal(t, models.ID("l2"), state.View.Navigation.NextLesson.ID)

	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, state.Generation, cur.Generation)
}

func TestOpenUsesCourseHint(t *testing.T) {
	api := newFakeAPI()
	l := api.lessons["l2"]
	l.CourseID = ""
	api.lessons["l2"] = l
	p := newPlayer(api)

	state, err := p.Open(context.Background(), "l2", "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ID("c1"), state.CourseID)
	assert.NotContains(t, api.callLog(), "courses")
}

func TestOpenLocatesCourse(t *testing.T) {
	api := newFakeAPI()
	l := api.lessons["l3"]
	l.CourseID = ""
	api.lessons["l3"] = l
	api.courses["other"] = models.Course{ID: "other", Modules: []models.Module{{ID: "x", Lessons: []models.Lesson{{ID: "z"}}}}}
	p := newPlayer(api)

	state, err := p.Open(context.Background(), "l3", "")
	require.NoError(t, err)
	assert.Equal(t, models.ID("c1"), state.CourseID)
	require.NotNil(t, state.View)
	require.NotNil(t, state.View.Navigation.PreviousLesson)
	assert.Equal(t, models.ID("l2"), state.View.Navigation.PreviousLesson.ID)
}

func TestOpenDegradesWithoutProgress(t *testing.T) {
	api := newFakeAPI()
	api.failProgress = true
	p := newPlayer(api)

	state, err := p.Open(context.Background(), "l1", "")
	require.NoError(t, err)
	require.NotNil(t, state.View)
	assert.True(t, state.View.Degraded)

	// only the embedded flag on l3 counts
	assert.Equal(t, 1, state.View.Summary.TotalCompleted)
	assert.False(t, state.View.CurrentLesson.Completed)
}

func TestOpenWithoutOutline(t *testing.T) {
	api := newFakeAPI()
	api.failCourse = true
	p := newPlayer(api)

	state, err := p.Open(context.Background(), "l1", "")
	assert.ErrorIs(t, err, ErrOutlineUnavailable)
	assert.Equal(t, models.ID("l1"), state.Lesson.ID)
	assert.Nil(t, state.View)
	assert.NotEmpty(t, state.OutlineError)

	_, ok := p.Current()
	assert.True(t, ok, "the lesson is still shown")
}

func TestOpenMissingLesson(t *testing.T) {
	p := newPlayer(newFakeAPI())

	_, err := p.Open(context.Background(), "nope", "")
	assert.ErrorIs(t, err, ErrLessonNotFound)
	_, ok := p.Current()
	assert.False(t, ok)
}

func TestStaleOpenIsDiscarded(t *testing.T) {
	api := newFakeAPI()
	gate := make(chan struct{})
	api.lessonGate["l1"] = gate
	p := newPlayer(api)

	slow := make(chan error, 1)
	go func() {
		_, err := p.Open(context.Background(), "l1", "")
		slow <- err
	}()

	// wait until the slow load has taken its generation
	require.Eventually(t, func() bool {
		for _, c := range api.callLog() {
			if c == "lesson l1" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	fresh, err := p.Open(context.Background(), "l3", "")
	require.NoError(t, err)

	close(gate)
	assert.ErrorIs(t, <-slow, ErrStaleResponse)

	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, models.ID("l3"), cur.Lesson.ID)
	assert.Equal(t, fresh.Generation, cur.Generation)
}

func TestRefreshNeedsOpenLesson(t *testing.T) {
	p := newPlayer(newFakeAPI())
	_, err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNothingOpen)
}

func TestCourseViewAndCourses(t *testing.T) {
	p := newPlayer(newFakeAPI())
	ctx := context.Background()

	view, err := p.CourseView(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, view.CurrentLesson)
	assert.Equal(t, 3, view.Summary.TotalLessons)

	courses, err := p.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	_, err = p.CourseView(ctx, "missing")
	assert.Error(t, err)
}

func TestSubscribe(t *testing.T) {
	p := newPlayer(newFakeAPI())
	updates, stop := p.Subscribe()
	defer stop()

	_, err := p.Open(context.Background(), "l1", "")
	require.NoError(t, err)

	select {
	case s := <-updates:
		assert.Equal(t, models.ID("l1"), s.Lesson.ID)
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}

	stop()
	stop() // safe twice
	_, open := <-updates
	assert.False(t, open)
}

func TestComments(t *testing.T) {
	api := newFakeAPI()
	p := newPlayer(api)
	ctx := context.Background()

	_, err := p.PostComment(ctx, models.CreateCommentInput{LessonID: "l1", Content: "   "})
	assert.True(t, errors.Is(err, ErrEmptyComment))

	posted, err := p.PostComment(ctx, models.CreateCommentInput{LessonID: "l1", Content: " ótima aula "})
	require.NoError(t, err)
	assert.Equal(t, "ótima aula", posted.Content)

	comments, err := p.Comments(ctx, "l1")
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	require.NoError(t, p.LikeComment(ctx, "new"))
	require.NoError(t, p.DeleteComment(ctx, "new"))
	assert.Contains(t, api.callLog(), "like new")
	assert.Contains(t, api.callLog(), "delete new")
}

func TestPublishReturnsStoredState(t *testing.T) {
	p := newPlayer(newFakeAPI())

	gen := p.generation.Add(1)
	stored, ok := p.publish(gen, State{CourseID: "c1"}, nil)
	require.True(t, ok)
	assert.Equal(t, gen, stored.Generation)
	assert.Equal(t, models.ID("c1"), stored.CourseID)

	// a newer load started, the old generation can no longer publish
	p.generation.Add(1)
	_, ok = p.publish(gen, State{CourseID: "c2"}, nil)
	assert.False(t, ok)

	cur, _ := p.Current()
	assert.Equal(t, models.ID("c1"), cur.CourseID)
	assert.Equal(t, gen, cur.Generation)
}
