package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"

	"github.com/jackc/pgx/v5"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo contadores por usuario sobre las columnas de users.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

const computeStatsQuery = `
	SELECT COUNT(*),
	       COALESCE(SUM(amount) FILTER (WHERE status = 'Paid'), 0),
	       COALESCE(SUM(amount) FILTER (WHERE status IN ('Pending', 'Overdue')), 0)
	FROM invoices WHERE user_id = $1`

// ApplyDelta suma el delta en la fila del usuario; Postgres serializa las
// actualizaciones concurrentes de la misma fila.
func (r *StatsRepo) ApplyDelta(ctx context.Context, userID string, delta entity.StatsDelta) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users
		SET invoice_count  = invoice_count + $2,
		    paid_amount    = paid_amount + $3,
		    pending_amount = pending_amount + $4
		WHERE id = $1`,
		userID, delta.InvoiceCount, delta.Paid, delta.Pending)
	if err != nil {
		return fmt.Errorf("apply stats delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Get contadores vivos del usuario.
func (r *StatsRepo) Get(ctx context.Context, userID string) (entity.UserStats, error) {
	var s entity.UserStats
	err := r.q.QueryRow(ctx,
		`SELECT invoice_count, paid_amount, pending_amount FROM users WHERE id = $1`, userID,
	).Scan(&s.InvoiceCount, &s.PaidAmount, &s.PendingAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, domain.ErrUserNotFound
		}
		return s, fmt.Errorf("get stats: %w", err)
	}
	return s, nil
}

// Compute deriva los contadores desde invoices.
func (r *StatsRepo) Compute(ctx context.Context, userID string) (entity.UserStats, error) {
	var s entity.UserStats
	if err := r.q.QueryRow(ctx, computeStatsQuery, userID).Scan(&s.InvoiceCount, &s.PaidAmount, &s.PendingAmount); err != nil {
		return s, fmt.Errorf("compute stats: %w", err)
	}
	return s, nil
}

// Recompute sobrescribe los contadores con los valores derivados.
func (r *StatsRepo) Recompute(ctx context.Context, userID string) (entity.UserStats, error) {
	var s entity.UserStats
	err := r.q.QueryRow(ctx, `
		UPDATE users u
		SET invoice_count = c.cnt, paid_amount = c.paid, pending_amount = c.pending
		FROM (`+computeStatsQuery+`) AS c(cnt, paid, pending)
		WHERE u.id = $1
		RETURNING u.invoice_count, u.paid_amount, u.pending_amount`, userID,
	).Scan(&s.InvoiceCount, &s.PaidAmount, &s.PendingAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, domain.ErrUserNotFound
		}
		return s, fmt.Errorf("recompute stats: %w", err)
	}
	return s, nil
}

// PlatformTotals total de facturas e ingresos (Paid) de toda la plataforma.
func (r *StatsRepo) PlatformTotals(ctx context.Context) (entity.PlatformStats, error) {
	var p entity.PlatformStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount) FILTER (WHERE status = 'Paid'), 0) FROM invoices`,
	).Scan(&p.TotalInvoices, &p.TotalRevenue)
	if err != nil {
		return p, fmt.Errorf("platform totals: %w", err)
	}
	return p, nil
}
