package entity

import "time"

// Session sesión activa; ID coincide con el jti del JWT emitido.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired indica si la sesión venció respecto a now.
func (s *Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
