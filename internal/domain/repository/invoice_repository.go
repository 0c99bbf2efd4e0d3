package repository

import (
	"context"
	"math"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// Paginación por defecto de List.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// InvoiceFilter filtros de List. UserID es obligatorio; el resto opcional.
type InvoiceFilter struct {
	UserID string
	Status string
	From   *time.Time // issue_date >= From
	To     *time.Time // issue_date <= To
}

// InvoicePage página de facturas. HasMore = offset + limit < Total.
type InvoicePage struct {
	Items   []*entity.Invoice
	Total   int
	Page    int
	Limit   int
	HasMore bool
}

// NormalizePage aplica valores por defecto y el límite máximo. page se acota
// para que page*limit no desborde int.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// InvoiceRepository puerto de persistencia para facturas (cabecera + líneas).
// ownerID vacío en GetByID/UpdateStatus/Delete significa sin filtro de dueño.
type InvoiceRepository interface {
	// Create inserta cabecera y líneas de forma atómica.
	Create(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, filter InvoiceFilter, page, limit int) (*InvoicePage, error)
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id, ownerID string) (*entity.Invoice, error)
	// UpdateStatus devuelve domain.ErrNotFound si no hay fila.
	UpdateStatus(ctx context.Context, id, status, ownerID string) error
	// Delete elimina la factura y sus líneas; domain.ErrNotFound si no hay fila.
	Delete(ctx context.Context, id, ownerID string) error
}
