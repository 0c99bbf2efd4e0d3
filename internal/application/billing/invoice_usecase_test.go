package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/memory"
)

func newInvoiceUseCase(t *testing.T) (*billing.InvoiceUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), &entity.User{
		ID: ownerID, Name: "Owner", Email: "owner@example.com", Role: entity.RoleUser,
	}))
	uc := billing.NewInvoiceUseCase(
		memory.NewTxRunner(store),
		memory.NewInvoiceRepository(store),
		memory.NewStatsRepository(store),
		zerolog.Nop(),
	)
	return uc, store
}

func TestInvoiceUseCase_CreateLocalQuedaPendiente(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)
	ctx := context.Background()

	inv, err := uc.CreateLocal(ctx, ownerID, validDraft())
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.True(t, decimal.NewFromInt(11800).Equal(inv.Amount))
	assert.Equal(t, "2025-03-10", inv.IssueDate)
	assert.Equal(t, "2025-03-10", inv.DueDate)

	dash, err := uc.Dashboard(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Stats.InvoiceCount)
	assert.True(t, dash.Stats.PaidAmount.IsZero())
	assert.True(t, decimal.NewFromInt(11800).Equal(dash.Stats.PendingAmount))
	require.Len(t, dash.RecentInvoices, 1)
	assert.Equal(t, inv.ID, dash.RecentInvoices[0].ID)
}

func TestInvoiceUseCase_UpdateStatusMueveMontos(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)
	ctx := context.Background()
	inv, err := uc.CreateLocal(ctx, ownerID, validDraft())
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, ownerID, inv.ID, entity.InvoiceStatusPaid)
	require.NoError(t, err)
	dash, err := uc.Dashboard(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(11800).Equal(dash.Stats.PaidAmount))
	assert.True(t, dash.Stats.PendingAmount.IsZero())

	// Paid → Overdue vuelve a contar como pendiente.
	_, err = uc.UpdateStatus(ctx, ownerID, inv.ID, entity.InvoiceStatusOverdue)
	require.NoError(t, err)
	dash, err = uc.Dashboard(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, dash.Stats.PaidAmount.IsZero())
	assert.True(t, decimal.NewFromInt(11800).Equal(dash.Stats.PendingAmount))
	assert.Equal(t, 1, dash.Stats.InvoiceCount)

	_, err = uc.UpdateStatus(ctx, ownerID, inv.ID, "Cancelled")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateStatus(ctx, "otro", inv.ID, entity.InvoiceStatusPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_DeleteDescuentaContadores(t *testing.T) {
	uc, store := newInvoiceUseCase(t)
	ctx := context.Background()
	inv, err := uc.CreateLocal(ctx, ownerID, validDraft())
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, "otro", inv.ID), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, ownerID, inv.ID))

	s, err := memory.NewStatsRepository(store).Get(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.InvoiceCount)
	assert.True(t, s.PendingAmount.IsZero())

	computed, err := memory.NewStatsRepository(store).Compute(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, s.Equal(computed))

	_, err = uc.Get(ctx, ownerID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_ListPaginaYFiltra(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		d := validDraft()
		d.IssueDate = time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC)
		_, err := uc.CreateLocal(ctx, ownerID, d)
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, repository.InvoiceFilter{UserID: ownerID}, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, dto.PageResponse{Page: 2, Limit: 10, Total: 15, HasMore: false}, page.Page)

	from := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	page, err = uc.List(ctx, repository.InvoiceFilter{UserID: ownerID, From: &from}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, page.Page.Total)
	assert.Equal(t, repository.DefaultLimit, page.Page.Limit)

	_, err = uc.List(ctx, repository.InvoiceFilter{UserID: ownerID, Status: "Draft"}, 1, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoiceUseCase_CreateLocalInvalido(t *testing.T) {
	uc, _ := newInvoiceUseCase(t)
	d := validDraft()
	d.LineItems = nil
	_, err := uc.CreateLocal(context.Background(), ownerID, d)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestDraftFromRequest_FechaInvalida(t *testing.T) {
	_, err := billing.DraftFromRequest(dto.InvoiceDraftRequest{IssueDate: "10/03/2025"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "issue_date", verr.Fields[0].Field)

	d, err := billing.DraftFromRequest(dto.InvoiceDraftRequest{
		IssueDate: "2025-03-10",
		LineItems: []dto.LineItemDTO{{HSCode: " 0101.2100 ", Rate: "18%"}},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d.IssueDate)
	assert.True(t, d.DueDate.IsZero())
	assert.Equal(t, "0101.2100", d.LineItems[0].HSCode)
	assert.Equal(t, 1, d.LineItems[0].Position)
}

func TestCustomerUseCase_Validacion(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), &entity.User{ID: ownerID, Email: "o@example.com"}))
	uc := billing.NewCustomerUseCase(memory.NewCustomerRepository(store))
	ctx := context.Background()

	_, err := uc.Create(ctx, ownerID, dto.CustomerRequest{Name: "X", Address: "Y", Province: "Sindh", RegistrationType: "Registered"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ntn", verr.Fields[0].Field)

	c, err := uc.Create(ctx, ownerID, dto.CustomerRequest{Name: "X", Address: "Y", Province: "kpk"})
	require.NoError(t, err)
	assert.Equal(t, "Khyber Pakhtunkhwa", c.Province)
	assert.Equal(t, "Unregistered", c.RegistrationType)

	_, err = uc.Get(ctx, "otro", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_ValoresPorDefecto(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), &entity.User{ID: ownerID, Email: "o@example.com"}))
	uc := billing.NewProductUseCase(memory.NewProductRepository(store))
	ctx := context.Background()

	p, err := uc.Create(ctx, ownerID, dto.ProductRequest{Name: "Widget", HSCode: "0101.2100", UnitPrice: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "18%", p.Rate)
	assert.Equal(t, "pcs", p.UoM)

	_, err = uc.Create(ctx, ownerID, dto.ProductRequest{Name: "Bad", HSCode: "1", Rate: "abc", UnitPrice: decimal.NewFromInt(-1)})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	list, err := uc.List(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
