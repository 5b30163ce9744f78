package models

import "time"

// Session is a server-side login session keyed by an opaque token. The token
// travels to the client in the login response and comes back on each request,
// either as a bearer header or a cookie.
type Session struct {
	Token     string    `json:"token" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its lifetime at time now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
