package task

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status shows what state a task is in
type Status string

const (
	StatusProcessing Status = "processing" // currently running
	StatusCompleted  Status = "completed"  // finished successfully
	StatusFailed     Status = "failed"     // something went wrong
)

// ErrInFlight is returned by Begin when the key already has a running task
var ErrInFlight = errors.New("another task for this key is still running")

// Task is one tracked write (e.g. a completion toggle for a lesson)
type Task struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`                    // what kind of task
	Key          string      `json:"key"`                     // what it works on, one running task per key
	Status       Status      `json:"status"`                  // current state
	CreatedAt    time.Time   `json:"created_at"`              // when it started
	CompletedAt  time.Time   `json:"completed_at,omitempty"`  // when it finished
	Message      string      `json:"message,omitempty"`       // status updates
	ErrorMessage string      `json:"error_message,omitempty"` // what went wrong
	Result       interface{} `json:"result,omitempty"`        // final results
}

// Done reports whether the task has finished either way
func (t Task) Done() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// Manager keeps track of tasks and makes sure only one runs per key
type Manager struct {
	tasks  map[string]*Task
	active map[string]string // key -> running task id
	mu     sync.RWMutex
	now    func() time.Time
}

// NewManager creates an empty task manager
func NewManager() *Manager {
	return &Manager{
		tasks:  make(map[string]*Task),
		active: make(map[string]string),
		now:    time.Now,
	}
}

// Begin registers a running task for key, or fails with ErrInFlight when
// one is already running for it
func (m *Manager) Begin(taskType, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.active[key]; busy {
		return "", ErrInFlight
	}

	taskID := uuid.New().String()
	m.tasks[taskID] = &Task{
		ID:        taskID,
		Type:      taskType,
		Key:       key,
		Status:    StatusProcessing,
		CreatedAt: m.now(),
	}
	m.active[key] = taskID

	return taskID, nil
}

// InFlight reports whether key has a running task
func (m *Manager) InFlight(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, busy := m.active[key]
	return busy
}

// GetTask retrieves a copy of the task by ID
func (m *Manager) GetTask(taskID string) (Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return Task{}, false
	}
	return *task, true
}

// List returns all known tasks, oldest first
func (m *Manager) List() []Task {
	m.mu.RLock()
	out := make([]Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		out = append(out, *task)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SetTaskMessage updates the status message
func (m *Manager) SetTaskMessage(taskID string, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task, exists := m.tasks[taskID]; exists {
		task.Message = message
	}
}

// CompleteTask marks task as done and frees its key
func (m *Manager) CompleteTask(taskID string, result interface{}) {
	m.finish(taskID, func(task *Task) {
		task.Status = StatusCompleted
		task.Result = result
	})
}

// SetTaskError marks task as failed and frees its key
func (m *Manager) SetTaskError(taskID string, errorMessage string) {
	m.finish(taskID, func(task *Task) {
		task.Status = StatusFailed
		task.ErrorMessage = errorMessage
	})
}

func (m *Manager) finish(taskID string, apply func(*Task)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists || task.Done() {
		return
	}

	apply(task)
	task.CompletedAt = m.now()
	if m.active[task.Key] == taskID {
		delete(m.active, task.Key)
	}
}

// CleanupOldTasks removes finished tasks older than the specified age
func (m *Manager) CleanupOldTasks(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	cleaned := 0

	for taskID, task := range m.tasks {
		// running tasks are never cleaned up
		if task.Done() && !task.CompletedAt.IsZero() && !task.CompletedAt.After(cutoff) {
			delete(m.tasks, taskID)
			cleaned++
		}
	}

	return cleaned
}

// CleanupRoutine runs cleanup on a schedule until ctx is done
func (m *Manager) CleanupRoutine(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cleaned := m.CleanupOldTasks(maxAge); cleaned > 0 {
				slog.Debug("cleaned up finished tasks", "count", cleaned)
			}
		}
	}
}
