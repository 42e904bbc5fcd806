package api

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/NeroQue/academy-player/internal/api/handlers"
	"github.com/NeroQue/academy-player/internal/player"
	"github.com/NeroQue/academy-player/internal/services"
	"github.com/NeroQue/academy-player/pkg/task"
)

// Player is the lesson player as the HTTP layer sees it
type Player interface {
	handlers.LessonPlayer
	Subscribe() (<-chan player.State, func())
}

// Deps is everything NewServer wires together
type Deps struct {
	Player         Player
	Sessions       *services.SessionService
	Admin          *services.AdminService
	Tasks          *task.Manager
	Metrics        http.Handler // served at /metrics when set
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server holds all the app components together
type Server struct {
	Router *http.ServeMux // handles routing requests

	// handlers for different parts of the API
	SessionHandler *handlers.SessionHandler
	CourseHandler  *handlers.CourseHandler
	LessonHandler  *handlers.LessonHandler
	CommentHandler *handlers.CommentHandler
	TaskHandler    *handlers.TaskHandler
	AdminHandler   *handlers.AdminHandler
	LiveHandler    *handlers.LiveHandler

	metrics        http.Handler
	allowedOrigins []string
	log            *slog.Logger
}

// NewServer wires up all the dependencies and returns a ready-to-use server
func NewServer(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	server := &Server{
		Router:         http.NewServeMux(),
		SessionHandler: handlers.NewSessionHandler(deps.Sessions),
		CourseHandler:  handlers.NewCourseHandler(deps.Player),
		LessonHandler:  handlers.NewLessonHandler(deps.Player),
		CommentHandler: handlers.NewCommentHandler(deps.Player),
		TaskHandler:    handlers.NewTaskHandler(deps.Tasks),
		AdminHandler:   handlers.NewAdminHandler(deps.Admin),
		metrics:        deps.Metrics,
		allowedOrigins: deps.AllowedOrigins,
		log:            log,
	}
	server.LiveHandler = handlers.NewLiveHandler(deps.Player, server.originAllowed)

	server.setupRoutes()
	return server
}

// setupRoutes maps all the endpoints to handler functions
func (s *Server) setupRoutes() {
	s.Router.HandleFunc("GET /api", s.HelloHandler)

	// session
	s.Router.HandleFunc("POST /api/session", s.SessionHandler.Login)
	s.Router.HandleFunc("GET /api/session", s.SessionHandler.Get)
	s.Router.HandleFunc("DELETE /api/session", s.SessionHandler.Logout)

	// courses
	s.Router.HandleFunc("GET /api/courses", s.CourseHandler.List)
	s.Router.HandleFunc("GET /api/courses/{id}/progress", s.CourseHandler.GetCourseProgress)
	s.Router.HandleFunc("GET /api/courses/{id}/report", s.CourseHandler.Report)

	// lesson player
	s.Router.HandleFunc("GET /api/player", s.LessonHandler.Current)
	s.Router.HandleFunc("POST /api/player/refresh", s.LessonHandler.Refresh)
	s.Router.HandleFunc("POST /api/player/advance", s.LessonHandler.Advance)
	s.Router.HandleFunc("GET /api/lessons/{id}", s.LessonHandler.Open)
	s.Router.HandleFunc("POST /api/lessons/{id}/complete", s.LessonHandler.Complete)
	s.Router.HandleFunc("DELETE /api/lessons/{id}/complete", s.LessonHandler.Uncomplete)
	s.Router.HandleFunc("POST /api/lessons/{id}/toggle", s.LessonHandler.Toggle)
	s.Router.HandleFunc("GET /api/live", s.LiveHandler.Stream)

	// discussion
	s.Router.HandleFunc("GET /api/lessons/{id}/comments", s.CommentHandler.List)
	s.Router.HandleFunc("POST /api/lessons/{id}/comments", s.CommentHandler.Create)
	s.Router.HandleFunc("POST /api/comments/{id}/like", s.CommentHandler.Like)
	s.Router.HandleFunc("DELETE /api/comments/{id}", s.CommentHandler.Delete)

	// admin endpoints
	s.Router.HandleFunc("POST /api/admin/reset", s.AdminHandler.FactoryReset)
	s.Router.HandleFunc("GET /api/admin/stats", s.AdminHandler.GetStats)

	// task tracking
	s.Router.HandleFunc("GET /api/tasks", s.TaskHandler.GetTask)
	s.Router.HandleFunc("POST /api/tasks/cleanup", s.TaskHandler.CleanupTasks)

	if s.metrics != nil {
		s.Router.Handle("GET /metrics", s.metrics)
	}
}

// Handler is the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return s.LogRequests(s.EnableCORS(s))
}

// ServeHTTP implements the http.Handler interface
// This allows the server to be used directly with http.ListenAndServe
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Delegate to the router
	s.Router.ServeHTTP(w, r)
}

// HelloHandler is a simple handler for the base API endpoint
func (s *Server) HelloHandler(w http.ResponseWriter, r *http.Request) {
	handlers.SendSuccessResponse(w, "Academy lesson player API", nil, "hello")
}

// originAllowed is the websocket origin check, same list as CORS
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(s.allowedOrigins, "*") || slices.Contains(s.allowedOrigins, origin)
}
