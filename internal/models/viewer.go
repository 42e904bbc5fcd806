package models

import (
	"fmt"
	"time"
)

// Viewer is the signed-in student, as far as the token tells us
type Viewer struct {
	UserID string `json:"user_id"` // backend user id (sub claim)
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil when the token has no exp
	CreatedAt time.Time  `json:"created_at"`
}

// LoginInput is what we expect when storing a new token
type LoginInput struct {
	Token string `json:"token"`
}

// Expired reports whether the token behind this viewer is past its exp
func (v *Viewer) Expired(now time.Time) bool {
	return v.ExpiresAt != nil && !now.Before(*v.ExpiresAt)
}

// String provides a string representation of the viewer
// This is useful for logging and debugging
func (v *Viewer) String() string {
	return fmt.Sprintf("Viewer(UserID=%s, Name=%s)", v.UserID, v.Name)
}
