package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest entrada para registro.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest body de PUT /api/auth/me.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UserStatsDTO contadores derivados.
type UserStatsDTO struct {
	InvoiceCount  int             `json:"invoice_count"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Role             string       `json:"role"`
	RegistrationDate time.Time    `json:"registration_date"`
	LastLogin        *time.Time   `json:"last_login,omitempty"`
	Stats            UserStatsDTO `json:"stats"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// PlatformStatsResponse resumen de GET /api/admin/stats.
type PlatformStatsResponse struct {
	TotalUsers    int             `json:"total_users"`
	TotalInvoices int             `json:"total_invoices"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// StatsDriftDTO diferencia entre contadores vivos y derivados de un usuario.
type StatsDriftDTO struct {
	UserID   string       `json:"user_id"`
	Live     UserStatsDTO `json:"live"`
	Computed UserStatsDTO `json:"computed"`
	Repaired bool         `json:"repaired"`
}

// ReconcileResponse resultado de POST /api/admin/reconcile.
type ReconcileResponse struct {
	Checked int             `json:"checked"`
	Drifted []StatsDriftDTO `json:"drifted"`
}
