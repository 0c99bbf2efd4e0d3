package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// SessionRepository sesiones emitidas por login.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
