package memory

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"

	"github.com/shopspring/decimal"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo contadores en memoria; el mutex del store serializa ApplyDelta.
type StatsRepo struct {
	s    *Store
	undo *undoLog
}

// NewStatsRepository construye el repo sobre el store.
func NewStatsRepository(s *Store) *StatsRepo {
	return &StatsRepo{s: s}
}

func (r *StatsRepo) ApplyDelta(_ context.Context, userID string, delta entity.StatsDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.undo.touchStats(u)
	u.Stats = u.Stats.Apply(delta)
	return nil
}

func (r *StatsRepo) Get(_ context.Context, userID string) (entity.UserStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[userID]
	if !ok {
		return entity.UserStats{}, domain.ErrUserNotFound
	}
	return u.Stats, nil
}

func (r *StatsRepo) Compute(_ context.Context, userID string) (entity.UserStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.computeLocked(userID), nil
}

func (r *StatsRepo) computeLocked(userID string) entity.UserStats {
	st := entity.UserStats{PaidAmount: decimal.Zero, PendingAmount: decimal.Zero}
	for _, si := range r.s.invoices {
		if si.inv.UserID != userID {
			continue
		}
		st.InvoiceCount++
		switch {
		case si.inv.IsPaid():
			st.PaidAmount = st.PaidAmount.Add(si.inv.Amount)
		case si.inv.IsOutstanding():
			st.PendingAmount = st.PendingAmount.Add(si.inv.Amount)
		}
	}
	return st
}

func (r *StatsRepo) Recompute(_ context.Context, userID string) (entity.UserStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return entity.UserStats{}, domain.ErrUserNotFound
	}
	r.undo.touchStats(u)
	u.Stats = r.computeLocked(userID)
	return u.Stats, nil
}

func (r *StatsRepo) PlatformTotals(_ context.Context) (entity.PlatformStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p := entity.PlatformStats{TotalRevenue: decimal.Zero}
	for _, si := range r.s.invoices {
		p.TotalInvoices++
		if si.inv.IsPaid() {
			p.TotalRevenue = p.TotalRevenue.Add(si.inv.Amount)
		}
	}
	return p, nil
}
