package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *StudentClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Options{
		BaseURL: srv.URL,
		Tokens:  StaticToken("secret"),
		Logger:  logger.Discard(),
	})
}

func TestGetCourseUnwrapsAndNormalizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/student/courses/7", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": {"id": 7, "title": "RPA", "modules": [
			{"title": "Sem id", "lessons": [{"id": 1, "title": "A", "type": "VIDEO"}]}
		]}}`)
	})

	course, err := c.GetCourse(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, models.ID("7"), course.ID)
	require.Len(t, course.Modules, 1)
	assert.False(t, course.Modules[0].ID.IsZero())
	assert.Equal(t, course.Modules[0].ID, course.Modules[0].Lessons[0].ModuleID)
	assert.Equal(t, models.LessonTypeVideo, course.Modules[0].Lessons[0].Type)
}

func TestListProgressBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/progress/c1", r.URL.Path)
		io.WriteString(w, `[
			{"lesson_id": 1, "completed": true},
			{"lesson_id": "2", "progress_percent": "55"},
			{"lesson_id": 3, "progressPercentage": 100}
		]`)
	})

	records, err := c.ListProgress(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.ID("1"), records[0].LessonID)
	assert.True(t, records[0].Completed)
	require.NotNil(t, records[1].Progress)
	assert.Equal(t, 55.0, *records[1].Progress)
	require.NotNil(t, records[2].Progress)
	assert.Equal(t, 100.0, *records[2].Progress)
}

func TestUpsertProgressBody(t *testing.T) {
	var got models.ProgressUpdate
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/progress", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.UpsertProgress(context.Background(), models.ProgressUpdate{LessonID: "l1", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, models.ProgressUpdate{LessonID: "l1", Completed: true}, got)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"unauthorized", http.StatusUnauthorized, ``, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{"not found", http.StatusNotFound, `{"message":"lesson not found"}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNotFound)
		}},
		{"server error", http.StatusBadGateway, `{"message":"upstream down"}`, func(t *testing.T, err error) {
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			assert.Equal(t, "upstream down", apiErr.Message)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := c.GetLesson(context.Background(), "l1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestMissingTokenSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Tokens: StaticToken(""), Logger: logger.Discard()})

	_, err := c.ListCourses(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called)
}

func TestCommentsEndpoints(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet:
			io.WriteString(w, `{"data": [{"id": 1, "lesson_id": 9, "content": "ótima aula", "likes": 2}]}`)
		case r.URL.Path == "/comments" && r.Method == http.MethodPost:
			io.WriteString(w, `{"id": 2, "lesson_id": 9, "content": "obrigado"}`)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	comments, err := c.ListComments(ctx, "9")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, 2, comments[0].Likes)

	posted, err := c.PostComment(ctx, models.CreateCommentInput{LessonID: "9", Content: "obrigado"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("2"), posted.ID)

	require.NoError(t, c.LikeComment(ctx, "2"))
	require.NoError(t, c.DeleteComment(ctx, "2"))

	assert.Equal(t, []string{
		"GET /comments/9",
		"POST /comments",
		"POST /comments/2/like",
		"DELETE /comments/2",
	}, paths)
}

func TestDecodeEnvelope(t *testing.T) {
	var lesson models.Lesson
	require.NoError(t, decode([]byte(`{"data": {"id": 5, "title": "x"}}`), &lesson))
	assert.Equal(t, models.ID("5"), lesson.ID)

	// an object without data is taken as is
	lesson = models.Lesson{}
	require.NoError(t, decode([]byte(`{"id": 6, "title": "y"}`), &lesson))
	assert.Equal(t, models.ID("6"), lesson.ID)
}
