// Package admin casos de uso reservados al rol admin: usuarios, resumen de la
// plataforma y conciliación de los contadores por usuario.
package admin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

// ReconcileOptions alcance de Reconcile. UserID vacío recorre todos los usuarios.
type ReconcileOptions struct {
	UserID string
	Fix    bool
}

// UseCase operaciones de administración.
type UseCase struct {
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(userRepo repository.UserRepository, statsRepo repository.StatsRepository, log zerolog.Logger) *UseCase {
	return &UseCase{
		userRepo:  userRepo,
		statsRepo: statsRepo,
		log:       log.With().Str("component", "admin").Logger(),
	}
}

// ListUsers usuarios por fecha de registro descendente, con contadores.
func (uc *UseCase) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// PlatformStats total de usuarios con rol user, de facturas y Σ de facturas Paid.
func (uc *UseCase) PlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	totals, err := uc.statsRepo.PlatformTotals(ctx)
	if err != nil {
		return nil, err
	}
	users, err := uc.userRepo.CountByRole(ctx, entity.RoleUser)
	if err != nil {
		return nil, err
	}
	return &dto.PlatformStatsResponse{
		TotalUsers:    users,
		TotalInvoices: totals.TotalInvoices,
		TotalRevenue:  totals.TotalRevenue,
	}, nil
}

// DeleteUser elimina al usuario y todo lo que posee. Un admin no puede borrarse a sí mismo.
func (uc *UseCase) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrForbidden)
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	uc.log.Info().Str("actor_id", actorID).Str("user_id", userID).Msg("usuario eliminado")
	return nil
}

// RecomputeUserStats sobrescribe los contadores con los derivados de las facturas.
func (uc *UseCase) RecomputeUserStats(ctx context.Context, userID string) (*dto.UserStatsDTO, error) {
	stats, err := uc.statsRepo.Recompute(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserStatsDTO{
		InvoiceCount:  stats.InvoiceCount,
		PaidAmount:    stats.PaidAmount,
		PendingAmount: stats.PendingAmount,
	}, nil
}

// Reconcile compara contadores vivos con los derivados. La deriva se registra como
// warning y se devuelve en el reporte; con Fix se repara con Recompute.
func (uc *UseCase) Reconcile(ctx context.Context, opts ReconcileOptions) (*dto.ReconcileResponse, error) {
	ids, err := uc.targets(ctx, opts.UserID)
	if err != nil {
		return nil, err
	}
	rep := &dto.ReconcileResponse{Drifted: []dto.StatsDriftDTO{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		live, err := uc.statsRepo.Get(ctx, id)
		if err != nil {
			return rep, fmt.Errorf("reconcile %s: %w", id, err)
		}
		computed, err := uc.statsRepo.Compute(ctx, id)
		if err != nil {
			return rep, fmt.Errorf("reconcile %s: %w", id, err)
		}
		rep.Checked++
		if live.Equal(computed) {
			continue
		}

		drift := dto.StatsDriftDTO{UserID: id, Live: toStatsDTO(live), Computed: toStatsDTO(computed)}
		uc.log.Warn().
			Str("event", "StatsReconciliationDrift").
			Str("user_id", id).
			Int("live_count", live.InvoiceCount).
			Int("computed_count", computed.InvoiceCount).
			Str("live_paid", live.PaidAmount.String()).
			Str("computed_paid", computed.PaidAmount.String()).
			Str("live_pending", live.PendingAmount.String()).
			Str("computed_pending", computed.PendingAmount.String()).
			Msg("contadores desalineados con las facturas")
		if opts.Fix {
			if _, err := uc.statsRepo.Recompute(ctx, id); err != nil {
				uc.log.Error().Err(err).Str("user_id", id).Msg("no se pudo recomputar contadores")
			} else {
				drift.Repaired = true
			}
		}
		rep.Drifted = append(rep.Drifted, drift)
	}
	return rep, nil
}

func (uc *UseCase) targets(ctx context.Context, userID string) ([]string, error) {
	if userID != "" {
		u, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, domain.ErrUserNotFound
		}
		return []string{u.ID}, nil
	}
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func toStatsDTO(s entity.UserStats) dto.UserStatsDTO {
	return dto.UserStatsDTO{InvoiceCount: s.InvoiceCount, PaidAmount: s.PaidAmount, PendingAmount: s.PendingAmount}
}
