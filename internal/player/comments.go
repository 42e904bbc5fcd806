package player

import (
	"context"
	"errors"
	"strings"

	"github.com/NeroQue/academy-player/internal/models"
)

// ErrEmptyComment is returned when there is nothing to post
var ErrEmptyComment = errors.New("comment content is empty")

// Comments lists the discussion under a lesson
func (p *Player) Comments(ctx context.Context, lessonID models.ID) ([]models.Comment, error) {
	comments, err := p.api.ListComments(ctx, lessonID)
	if err != nil {
		p.log.Warn("failed to fetch comments", "lesson_id", lessonID, "error", err)
		return nil, err
	}
	return comments, nil
}

// PostComment adds a comment (or a reply when ParentID is set)
func (p *Player) PostComment(ctx context.Context, input models.CreateCommentInput) (models.Comment, error) {
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return models.Comment{}, ErrEmptyComment
	}

	comment, err := p.api.PostComment(ctx, input)
	if err != nil {
		p.log.Error("failed to post comment", "lesson_id", input.LessonID, "error", err)
		return models.Comment{}, err
	}
	return comment, nil
}

// LikeComment likes a comment
func (p *Player) LikeComment(ctx context.Context, commentID models.ID) error {
	if err := p.api.LikeComment(ctx, commentID); err != nil {
		p.log.Error("failed to like comment", "comment_id", commentID, "error", err)
		return err
	}
	return nil
}

// DeleteComment removes a comment
func (p *Player) DeleteComment(ctx context.Context, commentID models.ID) error {
	if err := p.api.DeleteComment(ctx, commentID); err != nil {
		p.log.Error("failed to delete comment", "comment_id", commentID, "error", err)
		return err
	}
	return nil
}
