package handlers

import (
	"net/http"
	"time"

	"github.com/NeroQue/academy-player/pkg/task"
)

// TaskCleanupResponse reports how many finished tasks were dropped
type TaskCleanupResponse struct {
	Cleaned int `json:"cleaned"`
}

// TaskHandler exposes the progress writes the player has made
type TaskHandler struct {
	Tasks *task.Manager
}

// NewTaskHandler creates new task handler
func NewTaskHandler(tasks *task.Manager) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

// GetTask handles GET /api/tasks?id={taskId} - one task, or all without an id
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("id")
	if taskID == "" {
		SendSuccessResponse(w, "Tasks retrieved", h.Tasks.List(), "tasks listed")
		return
	}

	t, exists := h.Tasks.GetTask(taskID)
	if !exists {
		SendErrorResponse(w, "Task not found", http.StatusNotFound, "task lookup missed", nil)
		return
	}

	SendSuccessResponse(w, "Task retrieved", t, "task retrieved")
}

// CleanupTasks handles POST /api/tasks/cleanup - manually cleans old tasks
func (h *TaskHandler) CleanupTasks(w http.ResponseWriter, r *http.Request) {
	// default to 24 hours if not specified
	ageStr := r.URL.Query().Get("age")
	age := 24 * time.Hour

	if ageStr != "" {
		var err error
		age, err = time.ParseDuration(ageStr)
		if err != nil {
			SendErrorResponse(w, "Invalid duration format", http.StatusBadRequest, "bad cleanup age", err)
			return
		}
	}

	cleaned := h.Tasks.CleanupOldTasks(age)

	SendSuccessResponse(w, "Cleanup completed", TaskCleanupResponse{Cleaned: cleaned}, "tasks cleaned")
}
