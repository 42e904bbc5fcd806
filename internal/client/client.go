// Package client talks to the academy student backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/pkg/metrics"
)

var (
	ErrUnauthorized = errors.New("not authorized: token missing, expired or rejected")
	ErrNotFound     = errors.New("resource not found")
)

// APIError is any other non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// TokenSource hands out the bearer token for each request
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, used by the CLI when one is passed as a flag
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrUnauthorized
	}
	return string(t), nil
}

// Options configures a StudentClient
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  *slog.Logger
}

// StudentClient wraps the student-facing REST endpoints
type StudentClient struct {
	http   *resty.Client
	tokens TokenSource
	log    *slog.Logger
}

// New creates a client for the backend at opts.BaseURL
func New(opts Options) *StudentClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	return &StudentClient{
		http:   httpClient,
		tokens: opts.Tokens,
		log:    opts.Logger,
	}
}

// GetLesson fetches one lesson with its content and links
func (c *StudentClient) GetLesson(ctx context.Context, lessonID models.ID) (models.Lesson, error) {
	var lesson models.Lesson
	err := c.do(ctx, "get_lesson", http.MethodGet, "/student/lessons/"+escape(lessonID), nil, &lesson)
	if err != nil {
		return models.Lesson{}, err
	}
	lesson.Type = models.ParseLessonType(string(lesson.Type))
	return lesson, nil
}

// ListCourses returns the courses the viewer is enrolled in
func (c *StudentClient) ListCourses(ctx context.Context) ([]models.CourseSummary, error) {
	var courses []models.CourseSummary
	if err := c.do(ctx, "list_courses", http.MethodGet, "/student/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse fetches and normalizes a course tree
func (c *StudentClient) GetCourse(ctx context.Context, courseID models.ID) (models.Course, error) {
	var course models.Course
	if err := c.do(ctx, "get_course", http.MethodGet, "/student/courses/"+escape(courseID), nil, &course); err != nil {
		return models.Course{}, err
	}
	if course.ID.IsZero() {
		course.ID = courseID
	}
	return course.Normalize(), nil
}

// ListProgress returns the viewer's progress records for a course
func (c *StudentClient) ListProgress(ctx context.Context, courseID models.ID) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	if err := c.do(ctx, "list_progress", http.MethodGet, "/progress/"+escape(courseID), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpsertProgress creates or updates the viewer's record for one lesson
func (c *StudentClient) UpsertProgress(ctx context.Context, update models.ProgressUpdate) error {
	return c.do(ctx, "upsert_progress", http.MethodPost, "/progress", update, nil)
}

// ListComments returns the discussion under a lesson
func (c *StudentClient) ListComments(ctx context.Context, lessonID models.ID) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, "list_comments", http.MethodGet, "/comments/"+escape(lessonID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// PostComment adds a comment; the backend's copy is returned when it sends one
func (c *StudentClient) PostComment(ctx context.Context, input models.CreateCommentInput) (models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, "post_comment", http.MethodPost, "/comments", input, &comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// LikeComment likes a comment
func (c *StudentClient) LikeComment(ctx context.Context, commentID models.ID) error {
	return c.do(ctx, "like_comment", http.MethodPost, "/comments/"+escape(commentID)+"/like", nil, nil)
}

// DeleteComment removes one of the viewer's comments
func (c *StudentClient) DeleteComment(ctx context.Context, commentID models.ID) error {
	return c.do(ctx, "delete_comment", http.MethodDelete, "/comments/"+escape(commentID), nil, nil)
}

// do sends one authenticated request and decodes the answer into out
func (c *StudentClient) do(ctx context.Context, endpoint, method, path string, body, out interface{}) error {
	if c.tokens == nil {
		return ErrUnauthorized
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if token == "" {
		return ErrUnauthorized
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordBackendRequest(endpoint, "error", elapsed)
		c.log.Warn("backend request failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	metrics.RecordBackendRequest(endpoint, strconv.Itoa(resp.StatusCode()), elapsed)

	if err := checkStatus(resp); err != nil {
		c.log.Warn("backend rejected request", "endpoint", endpoint, "status", resp.StatusCode(), "error", err)
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	if out == nil {
		return nil
	}
	if err := decode(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func checkStatus(resp *resty.Response) error {
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 400:
		return &APIError{StatusCode: code, Message: errorMessage(resp.Body())}
	}
	return nil
}

// errorMessage pulls a readable message out of an error body
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := string(bytes.TrimSpace(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "empty response"
	}
	return msg
}

// decode accepts both a bare payload and one wrapped as {"data": ...}
func decode(body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	if body[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
			body = envelope.Data
		}
	}

	return json.Unmarshal(body, out)
}

func escape(id models.ID) string {
	return url.PathEscape(id.String())
}
