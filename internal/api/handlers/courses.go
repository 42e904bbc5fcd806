package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/NeroQue/academy-player/internal/models"
	"github.com/NeroQue/academy-player/pkg/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CourseHandler processes course-related HTTP requests
type CourseHandler struct {
	Player LessonPlayer
}

// NewCourseHandler creates handler with injected player
func NewCourseHandler(p LessonPlayer) *CourseHandler {
	return &CourseHandler{Player: p}
}

// List handles GET /api/courses - returns the enrolled courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Player.Courses(r.Context())
	if err != nil {
		SendFailure(w, "failed to list courses", err)
		return
	}
	if courses == nil {
		courses = []models.CourseSummary{}
	}
	SendSuccessResponse(w, "Courses retrieved successfully", courses, "courses listed")
}

// GetCourseProgress handles GET /api/courses/{id}/progress - the outline with
// completion and percentages, without opening a lesson
func (h *CourseHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	courseID := models.ID(r.PathValue("id"))
	if courseID.IsZero() {
		SendErrorResponse(w, "Course ID is required", http.StatusBadRequest, "missing course id", nil)
		return
	}

	view, err := h.Player.CourseView(r.Context(), courseID)
	if err != nil {
		SendFailure(w, "failed to build course progress", err)
		return
	}

	SendSuccessResponse(w, "Course progress retrieved", view, "course progress built")
}

// Report handles GET /api/courses/{id}/report - the progress outline as xlsx
func (h *CourseHandler) Report(w http.ResponseWriter, r *http.Request) {
	courseID := models.ID(r.PathValue("id"))
	if courseID.IsZero() {
		SendErrorResponse(w, "Course ID is required", http.StatusBadRequest, "missing course id", nil)
		return
	}

	view, err := h.Player.CourseView(r.Context(), courseID)
	if err != nil {
		SendFailure(w, "failed to build course progress", err)
		return
	}

	// render first so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := report.WriteWorkbook(view, &buf); err != nil {
		SendErrorResponse(w, "Failed to render report", http.StatusInternalServerError, "report rendering failed", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="course-%s.xlsx"`, courseID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write report", "course_id", courseID, "error", err)
	}
}
