package handlers

import (
	"log/slog"
	"net/http"

	"github.com/NeroQue/academy-player/internal/services"
)

// AdminHandler handles administrative operations
type AdminHandler struct {
	Service *services.AdminService // admin operations go through here
}

// NewAdminHandler creates handler with injected admin service
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{Service: service}
}

// FactoryReset handles POST /api/admin/reset - logs out and clears task history
func (h *AdminHandler) FactoryReset(w http.ResponseWriter, r *http.Request) {
	slog.Info("factory reset requested")

	if err := h.Service.FactoryReset(r.Context()); err != nil {
		SendErrorResponse(w, "Factory reset failed", http.StatusInternalServerError, "factory reset failed", err)
		return
	}

	SendSuccessResponse(w, "Factory reset completed - session and task history cleared", nil, "factory reset done")
}

// GetStats handles GET /api/admin/stats - shows basic local statistics
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.Service.GetStats(r.Context())
	SendSuccessResponse(w, "Statistics retrieved", stats, "stats retrieved")
}
