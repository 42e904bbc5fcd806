package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/NeroQue/academy-player/internal/models"
)

var (
	ErrNoSession    = errors.New("no active session, log in first")
	ErrTokenExpired = errors.New("session token has expired")
	ErrInvalidToken = errors.New("token is not a readable JWT")
)

// Session is one stored login
type Session struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Token     string `db:"token"`
	ExpiresAt int64  `db:"expires_at"` // unix seconds, 0 when the token has no exp
	CreatedAt int64  `db:"created_at"` // unix seconds
	Name      string `db:"name"`
	Email     string `db:"email"`
	Role      string `db:"role"`
}

// Store keeps the viewer's bearer token - only one session at a time
type Store struct {
	db             *sqlx.DB
	mu             sync.RWMutex // for thread safety
	currentSession *Session     // cache current viewer
	now            func() time.Time
}

// Open connects to the session database and loads any active session.
// driver is "sqlite" (dsn is a file path) or "postgres".
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported session driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session database: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
	}

	store := &Store{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.loadActiveSession(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL,
			expires_at BIGINT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// loadActiveSession restores the last session on startup
func (s *Store) loadActiveSession(ctx context.Context) error {
	var sess Session
	err := s.db.GetContext(ctx, &sess, `SELECT * FROM sessions ORDER BY created_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		// no big deal if there's no active session
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load active session: %w", err)
	}

	s.mu.Lock()
	s.currentSession = &sess
	s.mu.Unlock()
	return nil
}

// SetToken stores a new token, replacing any previous session. The claims
// are read without verifying the signature; the backend does that.
func (s *Store) SetToken(ctx context.Context, token string) (*models.Viewer, error) {
	sess, err := s.sessionFromToken(token)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// only one active session
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return nil, fmt.Errorf("failed to clear sessions: %w", err)
	}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at, name, email, role)
		VALUES (:id, :user_id, :token, :expires_at, :created_at, :name, :email, :role)
	`, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}

	s.mu.Lock()
	s.currentSession = sess
	s.mu.Unlock()

	return sess.viewer(), nil
}

func (s *Store) sessionFromToken(token string) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    firstClaim(claims, "sub", "userId", "user_id", "id"),
		Token:     token,
		CreatedAt: s.now().Unix(),
		Name:      firstClaim(claims, "name", "username"),
		Email:     firstClaim(claims, "email"),
		Role:      firstClaim(claims, "role"),
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp != nil {
		sess.ExpiresAt = exp.Unix()
		if !s.now().Before(exp.Time) {
			return nil, ErrTokenExpired
		}
	}

	return sess, nil
}

// firstClaim returns the first claim present as a string
func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// Token implements client.TokenSource
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentSession == nil {
		return "", ErrNoSession
	}
	if s.currentSession.expired(s.now()) {
		return "", ErrTokenExpired
	}
	return s.currentSession.Token, nil
}

// Viewer returns who is logged in, if anyone
func (s *Store) Viewer() (*models.Viewer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentSession == nil {
		return nil, false
	}
	return s.currentSession.viewer(), true
}

// IsLoggedIn checks if a usable session exists
func (s *Store) IsLoggedIn() bool {
	_, err := s.Token(context.Background())
	return err == nil
}

// Clear logs out
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		slog.Error("failed to delete sessions", "error", err)
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	// Clear the cached session
	s.mu.Lock()
	s.currentSession = nil
	s.mu.Unlock()
	return nil
}

func (sess *Session) expired(now time.Time) bool {
	return sess.ExpiresAt != 0 && now.Unix() >= sess.ExpiresAt
}

func (sess *Session) viewer() *models.Viewer {
	v := &models.Viewer{
		UserID:    sess.UserID,
		Name:      sess.Name,
		Email:     sess.Email,
		Role:      sess.Role,
		CreatedAt: time.Unix(sess.CreatedAt, 0).UTC(),
	}
	if sess.ExpiresAt != 0 {
		exp := time.Unix(sess.ExpiresAt, 0).UTC()
		v.ExpiresAt = &exp
	}
	return v
}
