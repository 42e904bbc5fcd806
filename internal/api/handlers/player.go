package handlers

import (
	"context"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/player"
	"github.com/NeroQue/academy-player/internal/progress"
)

// LessonPlayer is what the handlers need from *player.Player
type LessonPlayer interface {
	Current() (player.State, bool)
	Open(ctx context.Context, lessonID, courseHint models.ID) (player.State, error)
	Refresh(ctx context.Context) (player.State, error)
	MarkComplete(ctx context.Context, lessonID models.ID) (player.State, error)
	Unmark(ctx context.Context, lessonID models.ID) (player.State, error)
	Toggle(ctx context.Context, lessonID models.ID) (player.State, error)
	AdvanceToNext(ctx context.Context) (player.State, error)

	Courses(ctx context.Context) ([]models.CourseSummary, error)
	CourseView(ctx context.Context, courseID models.ID) (progress.View, error)

	Comments(ctx context.Context, lessonID models.ID) ([]models.Comment, error)
	PostComment(ctx context.Context, input models.CreateCommentInput) (models.Comment, error)
	LikeComment(ctx context.Context, commentID models.ID) error
	DeleteComment(ctx context.Context, commentID models.ID) error
}

var _ LessonPlayer = (*player.Player)(nil)
