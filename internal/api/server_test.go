package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/player"
	"github.com/NeroQue/academy-player/internal/services"
	"github.com/NeroQue/academy-player/pkg/logger"
	"github.com/NeroQue/academy-player/pkg/metrics"
	"github.com/NeroQue/academy-player/pkg/session"
	"github.com/NeroQue/academy-player/pkg/task"
)

// stubBackend is an in-memory student backend for one course
type stubBackend struct {
	mu       sync.Mutex
	course   models.Course
	records  map[models.ID]models.ProgressRecord
	comments []models.Comment
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		course: models.Course{
			ID:    "c1",
			Title: "Automação",
			Modules: []models.Module{
				{ID: "m1", Title: "Início", Lessons: []models.Lesson{
					{ID: "l1", Title: "Boas-vindas", Type: models.LessonTypeVideo},
					{ID: "l2", Title: "Conceitos", Type: models.LessonTypeText},
				}},
				{ID: "m2", Title: "Prática", Lessons: []models.Lesson{
					{ID: "l3", Title: "Primeiro robô", Type: models.LessonTypeFile, Completed: true},
				}},
			},
		}.Normalize(),
		records: make(map[models.ID]models.ProgressRecord),
	}
}

func (b *stubBackend) GetLesson(_ context.Context, id models.ID) (models.Lesson, error) {
	if l, _, ok := b.course.FindLesson(id); ok {
		return l, nil
	}
	return models.Lesson{}, player.ErrLessonNotFound
}

func (b *stubBackend) ListCourses(context.Context) ([]models.CourseSummary, error) {
	return []models.CourseSummary{{ID: b.course.ID, Title: b.course.Title}}, nil
}

func (b *stubBackend) GetCourse(_ context.Context, id models.ID) (models.Course, error) {
	if id != b.course.ID {
		return models.Course{}, player.ErrLessonNotFound
	}
	return b.course, nil
}

func (b *stubBackend) ListProgress(context.Context, models.ID) ([]models.ProgressRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.ProgressRecord, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r)
	}
	return out, nil
}

func (b *stubBackend) UpsertProgress(_ context.Context, u models.ProgressUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[u.LessonID] = models.ProgressRecord{LessonID: u.LessonID, Completed: u.Completed}
	return nil
}

func (b *stubBackend) ListComments(_ context.Context, lessonID models.ID) ([]models.Comment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Comment
	for _, c := range b.comments {
		if c.LessonID == lessonID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (b *stubBackend) PostComment(_ context.Context, in models.CreateCommentInput) (models.Comment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := models.Comment{ID: models.ID("k" + string(rune('1'+len(b.comments)))), LessonID: in.LessonID, Content: in.Content}
	b.comments = append(b.comments, c)
	return c, nil
}

func (b *stubBackend) LikeComment(context.Context, models.ID) error   { return nil }
func (b *stubBackend) DeleteComment(context.Context, models.ID) error { return nil }

type envelope struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := session.Open("sqlite", filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := logger.Discard()
	tasks := task.NewManager()
	sessions := services.NewSessionService(store, log)

	return NewServer(Deps{
		Player:         player.New(newStubBackend(), tasks, log),
		Sessions:       sessions,
		Admin:          services.NewAdminService(sessions, tasks, log),
		Tasks:          tasks,
		Metrics:        metrics.Handler(),
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         log,
	})
}

func call(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeState(t *testing.T, raw json.RawMessage) player.State {
	t.Helper()
	var state player.State
	require.NoError(t, json.Unmarshal(raw, &state))
	return state
}

func TestOpenLessonAndComplete(t *testing.T) {
	s := newTestServer(t)

	rec, env := call(t, s, http.MethodGet, "/api/lessons/l1?course_id=c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	state := decodeState(t, env.Data)
	require.NotNil(t, state.View)
	assert.Equal(t, 33, state.View.Summary.CoursePercent)
	require.NotNil(t, state.View.Navigation.NextLesson)
	assert.Equal(t, models.ID("l2"), state.View.Navigation.NextLesson.ID)

	rec, env = call(t, s, http.MethodPost, "/api/lessons/l1/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeState(t, env.Data)
	assert.Equal(t, 67, state.View.Summary.CoursePercent)
	assert.False(t, state.Provisional)

	rec, env = call(t, s, http.MethodDelete, "/api/lessons/l1/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeState(t, env.Data)
	assert.Equal(t, 33, state.View.Summary.CoursePercent)

	rec, _ = call(t, s, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompleteWithoutOpenLesson(t *testing.T) {
	s := newTestServer(t)

	rec, env := call(t, s, http.MethodPost, "/api/lessons/l1/complete", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)

	rec, _ = call(t, s, http.MethodGet, "/api/player", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnknownLesson(t *testing.T) {
	s := newTestServer(t)

	rec, env := call(t, s, http.MethodGet, "/api/lessons/nope?course_id=c1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestAdvanceAcrossModules(t *testing.T) {
	s := newTestServer(t)

	rec, _ := call(t, s, http.MethodGet, "/api/lessons/l2?course_id=c1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := call(t, s, http.MethodPost, "/api/player/advance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, env.Data)
	assert.Equal(t, models.ID("l3"), state.Lesson.ID)

	// l3 is the last lesson
	rec, _ = call(t, s, http.MethodPost, "/api/player/advance", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCourseProgressAndReport(t *testing.T) {
	s := newTestServer(t)

	rec, env := call(t, s, http.MethodGet, "/api/courses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []models.CourseSummary
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)

	rec, env = call(t, s, http.MethodGet, "/api/courses/c1/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Summary models.CourseProgressSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 3, summary.Summary.TotalLessons)
	assert.Equal(t, 1, summary.Summary.TotalCompleted)

	rec, _ = call(t, s, http.MethodGet, "/api/courses/c1/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Outline")
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + 3 lessons
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec, _ := call(t, s, http.MethodGet, "/api/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = call(t, s, http.MethodPost, "/api/session", `{"token":"not-a-jwt"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = call(t, s, http.MethodPost, "/api/session", `{"token":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "7",
		"name": "Ana",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	rec, env := call(t, s, http.MethodPost, "/api/session", `{"token":"Bearer `+token+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var viewer models.Viewer
	require.NoError(t, json.Unmarshal(env.Data, &viewer))
	assert.Equal(t, "7", viewer.UserID)

	rec, env = call(t, s, http.MethodGet, "/api/admin/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats["logged_in"])

	rec, _ = call(t, s, http.MethodPost, "/api/admin/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(t, s, http.MethodGet, "/api/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestComments(t *testing.T) {
	s := newTestServer(t)

	rec, _ := call(t, s, http.MethodPost, "/api/lessons/l1/comments", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = call(t, s, http.MethodPost, "/api/lessons/l1/comments", `{"content":"Ótima aula"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := call(t, s, http.MethodGet, "/api/lessons/l1/comments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "Ótima aula", comments[0].Content)

	rec, _ = call(t, s, http.MethodPost, "/api/comments/"+comments[0].ID.String()+"/like", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = call(t, s, http.MethodDelete, "/api/comments/"+comments[0].ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, _ := call(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLiveFeed(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	resp, err := http.Get(ts.URL + "/api/lessons/l2?course_id=c1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var state player.State
	require.NoError(t, conn.ReadJSON(&state))
	assert.Equal(t, models.ID("l2"), state.Lesson.ID)
}
