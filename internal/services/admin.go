package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NeroQue/academy-player/pkg/task"
)

// AdminService handles local maintenance: wiping the stored session and task
// history, and reporting what the player holds
type AdminService struct {
	Sessions *SessionService
	Tasks    *task.Manager
	log      *slog.Logger
}

// NewAdminService creates admin service with its dependencies
func NewAdminService(sessions *SessionService, tasks *task.Manager, log *slog.Logger) *AdminService {
	if log == nil {
		log = slog.Default()
	}
	return &AdminService{
		Sessions: sessions,
		Tasks:    tasks,
		log:      log,
	}
}

// FactoryReset logs the viewer out and forgets finished tasks
func (s *AdminService) FactoryReset(ctx context.Context) error {
	s.log.Info("starting factory reset")

	if err := s.Sessions.Logout(ctx); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}

	// running writes are left alone, they free their lesson when done
	cleaned := s.Tasks.CleanupOldTasks(0)
	s.log.Info("factory reset completed", "tasks_cleared", cleaned)
	return nil
}

// GetStats returns basic counters about local state
func (s *AdminService) GetStats(ctx context.Context) map[string]int {
	stats := map[string]int{
		"logged_in":     0,
		"tasks":         0,
		"tasks_running": 0,
		"tasks_failed":  0,
	}

	if _, ok := s.Sessions.Current(); ok {
		stats["logged_in"] = 1
	}

	for _, t := range s.Tasks.List() {
		stats["tasks"]++
		switch t.Status {
		case task.StatusProcessing:
			stats["tasks_running"]++
		case task.StatusFailed:
			stats["tasks_failed"]++
		}
	}

	return stats
}
