// Package app wires config, storage, the backend client and the player into
// one process, for both the CLI and the local API server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NeroQue/academy-player/internal/api"
	"github.com/NeroQue/academy-player/internal/client"
	"github.com/NeroQue/academy-player/internal/config"
	"github.com/NeroQue/academy-player/internal/player"
	"github.com/NeroQue/academy-player/internal/services"
	"github.com/NeroQue/academy-player/pkg/logger"
	"github.com/NeroQue/academy-player/pkg/metrics"
	"github.com/NeroQue/academy-player/pkg/session"
	"github.com/NeroQue/academy-player/pkg/task"
)

const (
	taskCleanupInterval = time.Hour
	taskMaxAge          = 24 * time.Hour
	shutdownTimeout     = 10 * time.Second
)

// App holds every long-lived component
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Store    *session.Store
	Client   *client.StudentClient
	Tasks    *task.Manager
	Player   *player.Player
	Sessions *services.SessionService
	Admin    *services.AdminService
}

// New builds the app from a loaded config
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	log, err := logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := session.Open(cfg.Session.Driver, cfg.Session.DSN)
	if err != nil {
		return nil, err
	}

	// a token from config or env beats the stored session
	var tokens client.TokenSource = store
	if cfg.Token != "" {
		tokens = client.StaticToken(cfg.Token)
	}

	studentClient := client.New(client.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.HTTPTimeout,
		Tokens:  tokens,
		Logger:  log,
	})

	tasks := task.NewManager()
	sessions := services.NewSessionService(store, log)

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Client:   studentClient,
		Tasks:    tasks,
		Player:   player.New(studentClient, tasks, log),
		Sessions: sessions,
		Admin:    services.NewAdminService(sessions, tasks, log),
	}, nil
}

// Close releases the session store
func (a *App) Close() error {
	return a.Store.Close()
}

// Server builds the local HTTP API on top of the app
func (a *App) Server() *api.Server {
	return api.NewServer(api.Deps{
		Player:         a.Player,
		Sessions:       a.Sessions,
		Admin:          a.Admin,
		Tasks:          a.Tasks,
		Metrics:        metrics.Handler(),
		AllowedOrigins: a.Config.CORSAllowedOrigins,
		Logger:         a.Log,
	})
}

// Serve runs the local API until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context) error {
	// clean old tasks every hour in the background
	go a.Tasks.CleanupRoutine(ctx, taskCleanupInterval, taskMaxAge)

	srv := &http.Server{
		Addr:              a.Config.ListenAddr,
		Handler:           a.Server().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("starting server", "addr", srv.Addr, "api_url", a.Config.APIURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("could not start server: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
