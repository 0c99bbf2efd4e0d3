package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// List ordena por fecha de registro descendente.
	List(ctx context.Context) ([]*entity.User, error)
	// Delete elimina al usuario y en cascada sus facturas, clientes, productos y sesiones.
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// StatsRepository agregador de contadores por usuario.
type StatsRepository interface {
	// ApplyDelta suma el delta con una expresión de fila (sin leer-modificar-escribir en memoria).
	ApplyDelta(ctx context.Context, userID string, delta entity.StatsDelta) error
	// Get contadores vivos.
	Get(ctx context.Context, userID string) (entity.UserStats, error)
	// Compute deriva los contadores desde las facturas sin escribir.
	Compute(ctx context.Context, userID string) (entity.UserStats, error)
	// Recompute sobrescribe los contadores con Compute y los devuelve.
	Recompute(ctx context.Context, userID string) (entity.UserStats, error)
	// PlatformTotals total de facturas y Σ de facturas Paid de toda la plataforma.
	// TotalUsers queda en cero; lo completa UserRepository.CountByRole.
	PlatformTotals(ctx context.Context) (entity.PlatformStats, error)
}
