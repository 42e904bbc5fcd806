package handlers

import (
	"net/http"

	"github.com/NeroQue/academy-player/internal/models"
)

// CommentHandler processes lesson discussion requests
type CommentHandler struct {
	Player LessonPlayer
}

// NewCommentHandler creates handler with injected player
func NewCommentHandler(p LessonPlayer) *CommentHandler {
	return &CommentHandler{Player: p}
}

// List handles GET /api/lessons/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	lessonID := models.ID(r.PathValue("id"))

	comments, err := h.Player.Comments(r.Context(), lessonID)
	if err != nil {
		SendFailure(w, "failed to list comments", err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	SendSuccessResponse(w, "Comments retrieved successfully", comments, "comments listed")
}

// Create handles POST /api/lessons/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateCommentInput
	if err := ValidateJSONBody(r, &input); err != nil {
		SendFailure(w, "invalid comment body", err)
		return
	}
	// the path wins over whatever the body says
	input.LessonID = models.ID(r.PathValue("id"))

	comment, err := h.Player.PostComment(r.Context(), input)
	if err != nil {
		SendFailure(w, "failed to post comment", err)
		return
	}
	SendCreatedResponse(w, "Comment posted", comment, "comment posted")
}

// Like handles POST /api/comments/{id}/like
func (h *CommentHandler) Like(w http.ResponseWriter, r *http.Request) {
	if err := h.Player.LikeComment(r.Context(), models.ID(r.PathValue("id"))); err != nil {
		SendFailure(w, "failed to like comment", err)
		return
	}
	SendSuccessResponse(w, "Comment liked", nil, "comment liked")
}

// Delete handles DELETE /api/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Player.DeleteComment(r.Context(), models.ID(r.PathValue("id"))); err != nil {
		SendFailure(w, "failed to delete comment", err)
		return
	}
	SendSuccessResponse(w, "Comment deleted", nil, "comment deleted")
}
