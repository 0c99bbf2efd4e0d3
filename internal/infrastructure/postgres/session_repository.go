package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"

	"github.com/jackc/pgx/v5"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo sesiones de login sobre la tabla sessions.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.UserID, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	var s entity.Session
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purga sesiones vencidas y devuelve cuántas eliminó.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
