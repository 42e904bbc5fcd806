package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NeroQue/academy-player/internal/models"
)

// ErrEmptyToken is returned when a login carries no token
var ErrEmptyToken = errors.New("token cannot be empty")

// TokenStore is where the viewer's token lives (pkg/session in production)
type TokenStore interface {
	SetToken(ctx context.Context, token string) (*models.Viewer, error)
	Viewer() (*models.Viewer, bool)
	Clear(ctx context.Context) error
}

// SessionService handles logging the viewer in and out
type SessionService struct {
	Store TokenStore
	log   *slog.Logger
}

// NewSessionService creates service with store dependency
func NewSessionService(store TokenStore, log *slog.Logger) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	return &SessionService{Store: store, log: log}
}

// Login stores a new bearer token and returns who it belongs to
func (s *SessionService) Login(ctx context.Context, input models.LoginInput) (*models.Viewer, error) {
	token := strings.TrimSpace(input.Token)
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		return nil, ErrEmptyToken
	}

	viewer, err := s.Store.SetToken(ctx, token)
	if err != nil {
		s.log.Warn("login rejected", "error", err)
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	s.log.Info("viewer logged in", "user_id", viewer.UserID)
	return viewer, nil
}

// Current returns the logged in viewer, if any
func (s *SessionService) Current() (*models.Viewer, bool) {
	return s.Store.Viewer()
}

// Logout drops the stored token
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.Store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.log.Info("viewer logged out")
	return nil
}
