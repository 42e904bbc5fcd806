package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/player"
)

// LessonHandler drives the lesson player over HTTP
type LessonHandler struct {
	Player LessonPlayer
}

// NewLessonHandler creates handler with injected player
func NewLessonHandler(p LessonPlayer) *LessonHandler {
	return &LessonHandler{Player: p}
}

// Open handles GET /api/lessons/{id}?course_id= - opens a lesson with its
// outline, progress and navigation
func (h *LessonHandler) Open(w http.ResponseWriter, r *http.Request) {
	lessonID := models.ID(r.PathValue("id"))
	if lessonID.IsZero() {
		SendErrorResponse(w, "Lesson ID is required", http.StatusBadRequest, "missing lesson id", nil)
		return
	}
	courseHint := models.ID(r.URL.Query().Get("course_id"))

	state, err := h.Player.Open(r.Context(), lessonID, courseHint)
	switch {
	case errors.Is(err, player.ErrOutlineUnavailable):
		// the lesson itself is still readable
		SendSuccessResponse(w, "Lesson opened without course outline", state, "lesson opened without outline")
	case err != nil:
		SendFailure(w, "failed to open lesson", err)
	default:
		SendSuccessResponse(w, "Lesson opened", state, "lesson opened")
	}
}

// Current handles GET /api/player - the state the player currently shows
func (h *LessonHandler) Current(w http.ResponseWriter, r *http.Request) {
	state, ok := h.Player.Current()
	if !ok {
		SendFailure(w, "nothing open", player.ErrNothingOpen)
		return
	}
	SendSuccessResponse(w, "Player state retrieved", state, "player state retrieved")
}

// Refresh handles POST /api/player/refresh - refetches outline and progress
func (h *LessonHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	state, err := h.Player.Refresh(r.Context())
	if err != nil {
		SendFailure(w, "failed to refresh player", err)
		return
	}
	SendSuccessResponse(w, "Player refreshed", state, "player refreshed")
}

// Complete handles POST /api/lessons/{id}/complete
func (h *LessonHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Player.MarkComplete, "Lesson marked as completed")
}

// Uncomplete handles DELETE /api/lessons/{id}/complete
func (h *LessonHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Player.Unmark, "Lesson marked as not completed")
}

// Toggle handles POST /api/lessons/{id}/toggle
func (h *LessonHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Player.Toggle, "Lesson completion toggled")
}

// Advance handles POST /api/player/advance - completes the open lesson and
// moves to the next one
func (h *LessonHandler) Advance(w http.ResponseWriter, r *http.Request) {
	state, err := h.Player.AdvanceToNext(r.Context())
	if err != nil {
		SendFailure(w, "failed to advance", err)
		return
	}
	SendSuccessResponse(w, "Moved to next lesson", state, "advanced to next lesson")
}

func (h *LessonHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, models.ID) (player.State, error), message string) {
	lessonID := models.ID(r.PathValue("id"))
	if lessonID.IsZero() {
		SendErrorResponse(w, "Lesson ID is required", http.StatusBadRequest, "missing lesson id", nil)
		return
	}

	state, err := apply(r.Context(), lessonID)
	if err != nil {
		SendFailure(w, "completion change failed", err)
		return
	}
	SendSuccessResponse(w, message, state, "completion changed")
}
