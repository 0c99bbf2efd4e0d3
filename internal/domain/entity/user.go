package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa una cuenta (dueño de facturas, clientes y productos).
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string // bcrypt hash
	Role             string
	RegistrationDate time.Time
	LastLogin        *time.Time
	Stats            UserStats
}

// UserStats contadores derivados de las facturas del usuario.
// PaidAmount = Σ facturas Paid; PendingAmount = Σ facturas Pending u Overdue.
type UserStats struct {
	InvoiceCount  int
	PaidAmount    decimal.Decimal
	PendingAmount decimal.Decimal
}

// Equal compara contadores con semántica decimal.
func (s UserStats) Equal(o UserStats) bool {
	return s.InvoiceCount == o.InvoiceCount &&
		s.PaidAmount.Equal(o.PaidAmount) &&
		s.PendingAmount.Equal(o.PendingAmount)
}

// StatsDelta incremento aditivo sobre UserStats.
type StatsDelta struct {
	InvoiceCount int
	Paid         decimal.Decimal
	Pending      decimal.Decimal
}

// IsZero indica si el delta no cambia nada.
func (d StatsDelta) IsZero() bool {
	return d.InvoiceCount == 0 && d.Paid.IsZero() && d.Pending.IsZero()
}

// Apply devuelve los contadores con el delta aplicado.
func (s UserStats) Apply(d StatsDelta) UserStats {
	return UserStats{
		InvoiceCount:  s.InvoiceCount + d.InvoiceCount,
		PaidAmount:    s.PaidAmount.Add(d.Paid),
		PendingAmount: s.PendingAmount.Add(d.Pending),
	}
}

// PlatformStats resumen global para el administrador.
type PlatformStats struct {
	TotalUsers    int
	TotalInvoices int
	TotalRevenue  decimal.Decimal
}
