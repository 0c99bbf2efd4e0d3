package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/invoicing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

// DashboardRecent facturas recientes mostradas en el dashboard.
const DashboardRecent = 5

// InvoiceUseCase casos de uso sobre facturas ya registradas y facturas locales (sin FBR).
// Toda mutación aplica el delta de contadores en la misma transacción.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	statsRepo   repository.StatsRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner TxRunner, invoiceRepo repository.InvoiceRepository, statsRepo repository.StatsRepository, log zerolog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		statsRepo:   statsRepo,
		log:         log.With().Str("component", "invoices").Logger(),
		now:         time.Now,
	}
}

// CreateLocal registra una factura Pending sin pasar por FBR.
func (uc *InvoiceUseCase) CreateLocal(ctx context.Context, ownerID string, d *entity.InvoiceDraft) (*dto.InvoiceResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if res := invoicing.Validate(d); !res.Valid() {
		return nil, res.Err()
	}
	totals, err := invoicing.ComputeTotals(d.LineItems)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}
	inv := invoiceFromDraft(ownerID, d, uc.now())
	inv.ID = uuid.New().String()
	inv.Status = entity.InvoiceStatusPending
	inv.Amount = totals.GrandTotal

	err = uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository, statsRepo repository.StatsRepository) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		return statsRepo.ApplyDelta(ctx, ownerID, StatsDeltaFor(inv, 1))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", ownerID).Str("invoice_id", inv.ID).Msg("factura local creada")
	return ToInvoiceResponse(inv), nil
}

// List facturas del dueño paginadas, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, filter repository.InvoiceFilter, page, limit int) (*dto.InvoiceListResponse, error) {
	if filter.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if filter.Status != "" && !entity.ValidInvoiceStatuses[filter.Status] {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	page, limit = repository.NormalizePage(page, limit)
	res, err := uc.invoiceRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(res.Items)),
		Page:  dto.PageResponse{Page: res.Page, Limit: res.Limit, Total: res.Total, HasMore: res.HasMore},
	}
	for _, inv := range res.Items {
		out.Items = append(out.Items, *ToInvoiceResponse(inv))
	}
	return out, nil
}

// Get factura del dueño; domain.ErrNotFound si no existe o es de otro usuario.
func (uc *InvoiceUseCase) Get(ctx context.Context, ownerID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return ToInvoiceResponse(inv), nil
}

// UpdateStatus cambia el estado y mueve el monto entre paidAmount y pendingAmount.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, ownerID, id, status string) (*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceStatuses[status] {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	var updated *entity.Invoice
	err := uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository, statsRepo repository.StatsRepository) error {
		inv, err := invoiceRepo.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status == status {
			updated = inv
			return nil
		}
		before := StatsDeltaFor(inv, -1)
		if err := invoiceRepo.UpdateStatus(ctx, id, status, ownerID); err != nil {
			return err
		}
		inv.Status = status
		after := StatsDeltaFor(inv, 1)
		delta := entity.StatsDelta{
			Paid:    before.Paid.Add(after.Paid),
			Pending: before.Pending.Add(after.Pending),
		}
		updated = inv
		if delta.IsZero() {
			return nil
		}
		return statsRepo.ApplyDelta(ctx, inv.UserID, delta)
	})
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(updated), nil
}

// Delete elimina la factura y descuenta su aporte a los contadores.
func (uc *InvoiceUseCase) Delete(ctx context.Context, ownerID, id string) error {
	return uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository, statsRepo repository.StatsRepository) error {
		inv, err := invoiceRepo.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := invoiceRepo.Delete(ctx, id, ownerID); err != nil {
			return err
		}
		return statsRepo.ApplyDelta(ctx, inv.UserID, StatsDeltaFor(inv, -1))
	})
}

// Dashboard contadores vivos y últimas facturas del usuario.
func (uc *InvoiceUseCase) Dashboard(ctx context.Context, ownerID string) (*dto.DashboardResponse, error) {
	stats, err := uc.statsRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	recent, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{UserID: ownerID}, 1, DashboardRecent)
	if err != nil {
		return nil, err
	}
	out := &dto.DashboardResponse{
		Stats:          ToStatsDTO(stats),
		RecentInvoices: make([]dto.InvoiceResponse, 0, len(recent.Items)),
	}
	for _, inv := range recent.Items {
		out.RecentInvoices = append(out.RecentInvoices, *ToInvoiceResponse(inv))
	}
	return out, nil
}
