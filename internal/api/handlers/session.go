package handlers

import (
	"net/http"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/internal/services"
)

// SessionHandler processes login/logout requests
type SessionHandler struct {
	Service *services.SessionService // token storage goes through here
}

// NewSessionHandler creates handler with injected service
func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{Service: service}
}

// Login handles POST /api/session - stores the viewer's bearer token
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := ValidateJSONBody(r, &input); err != nil {
		SendFailure(w, "invalid login body", err)
		return
	}

	viewer, err := h.Service.Login(r.Context(), input)
	if err != nil {
		SendFailure(w, "login failed", err)
		return
	}

	SendCreatedResponse(w, "Logged in", viewer, "viewer logged in")
}

// Get handles GET /api/session - returns who is logged in
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.Service.Current()
	if !ok {
		SendErrorResponse(w, "Not logged in", http.StatusUnauthorized, "no active session", nil)
		return
	}
	SendSuccessResponse(w, "Session retrieved", viewer, "session retrieved")
}

// Logout handles DELETE /api/session - drops the stored token
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context()); err != nil {
		SendFailure(w, "logout failed", err)
		return
	}
	SendSuccessResponse(w, "Logged out", nil, "viewer logged out")
}
