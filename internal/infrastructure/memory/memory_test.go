package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, NewUserRepository(s).Create(context.Background(), &entity.User{
		ID: id, Name: id, Email: id + "@example.com", Role: entity.RoleUser, RegistrationDate: time.Now(),
	}))
}

func newInvoice(owner, status string, amount int64, created time.Time) *entity.Invoice {
	return &entity.Invoice{
		UserID: owner, Status: status, Amount: decimal.NewFromInt(amount),
		IssueDate: created, DueDate: created, CreatedAt: created,
		LineItems: []entity.LineItem{{
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(amount), Total: decimal.NewFromInt(amount),
			HSCode: "0101", Rate: "0%", UoM: "pcs",
		}},
	}
}

func TestInvoiceRepo_ListPaginacion(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	seedUser(t, s, "u2")
	repo := NewInvoiceRepository(s)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		inv := newInvoice("u1", entity.InvoiceStatusPaid, 100, base.Add(time.Duration(i)*time.Hour))
		inv.ID = fmt.Sprintf("INV-%02d", i)
		require.NoError(t, repo.Create(ctx, inv))
	}
	require.NoError(t, repo.Create(ctx, newInvoice("u2", entity.InvoiceStatusPaid, 1, base)))

	p1, err := repo.List(ctx, repository.InvoiceFilter{UserID: "u1"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, p1.Items, 10)
	assert.Equal(t, 15, p1.Total)
	assert.True(t, p1.HasMore)
	assert.Equal(t, "INV-14", p1.Items[0].ID, "más reciente primero")

	p2, err := repo.List(ctx, repository.InvoiceFilter{UserID: "u1"}, 2, 10)
	require.NoError(t, err)
	assert.Len(t, p2.Items, 5)
	assert.False(t, p2.HasMore)
	assert.Equal(t, "INV-04", p2.Items[0].ID)
}

func TestInvoiceRepo_ListPaginaEnorme(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	repo := NewInvoiceRepository(s)
	require.NoError(t, repo.Create(ctx, newInvoice("u1", entity.InvoiceStatusPaid, 10, time.Now())))

	var page *repository.InvoicePage
	require.NotPanics(t, func() {
		var err error
		page, err = repo.List(ctx, repository.InvoiceFilter{UserID: "u1"}, 922337203685477582, 10)
		require.NoError(t, err)
	})
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)
}

func TestInvoiceRepo_ListFiltros(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	repo := NewInvoiceRepository(s)

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newInvoice("u1", entity.InvoiceStatusPaid, 10, jan)))
	require.NoError(t, repo.Create(ctx, newInvoice("u1", entity.InvoiceStatusPending, 20, feb)))

	page, err := repo.List(ctx, repository.InvoiceFilter{UserID: "u1", Status: entity.InvoiceStatusPending}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.InvoiceStatusPending, page.Items[0].Status)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	page, err = repo.List(ctx, repository.InvoiceFilter{UserID: "u1", From: &from}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, repository.DefaultLimit, page.Limit)
}

func TestInvoiceRepo_GetUpdateDeleteConDueno(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	repo := NewInvoiceRepository(s)
	inv := newInvoice("u1", entity.InvoiceStatusPending, 50, time.Now())
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.GetByID(ctx, inv.ID, "otro")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(ctx, inv.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, inv.ID, got.LineItems[0].InvoiceID)
	assert.Equal(t, 1, got.LineItems[0].Position)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusPaid, "otro"), domain.ErrNotFound)
	require.NoError(t, repo.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusPaid, "u1"))

	assert.ErrorIs(t, repo.Delete(ctx, inv.ID, "otro"), domain.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, inv.ID, ""))
	got, _ = repo.GetByID(ctx, inv.ID, "")
	assert.Nil(t, got)
}

func TestInvoiceRepo_CreateDuplicado(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	repo := NewInvoiceRepository(s)
	inv := newInvoice("u1", entity.InvoiceStatusPaid, 1, time.Now())
	inv.ID = "FBR-1"
	require.NoError(t, repo.Create(ctx, inv))
	assert.ErrorIs(t, repo.Create(ctx, newInvoiceWithID("u1", "FBR-1")), domain.ErrDuplicate)
}

func newInvoiceWithID(owner, id string) *entity.Invoice {
	inv := newInvoice(owner, entity.InvoiceStatusPaid, 1, time.Now())
	inv.ID = id
	return inv
}

func TestStatsRepo_ApplyDeltaYRecompute(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	invRepo := NewInvoiceRepository(s)
	stats := NewStatsRepository(s)

	require.NoError(t, invRepo.Create(ctx, newInvoice("u1", entity.InvoiceStatusPaid, 100, time.Now())))
	require.NoError(t, invRepo.Create(ctx, newInvoice("u1", entity.InvoiceStatusOverdue, 30, time.Now())))
	require.NoError(t, stats.ApplyDelta(ctx, "u1", entity.StatsDelta{InvoiceCount: 1, Paid: decimal.NewFromInt(100)}))

	live, err := stats.Get(ctx, "u1")
	require.NoError(t, err)
	computed, err := stats.Compute(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, live.Equal(computed), "la factura Overdue no pasó por ApplyDelta")

	fixed, err := stats.Recompute(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, fixed.InvoiceCount)
	assert.True(t, fixed.PaidAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, fixed.PendingAmount.Equal(decimal.NewFromInt(30)))

	assert.ErrorIs(t, stats.ApplyDelta(ctx, "nadie", entity.StatsDelta{InvoiceCount: 1}), domain.ErrUserNotFound)
}

func TestTxRunner_RevierteSiFalla(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	runner := NewTxRunner(s)
	boom := errors.New("boom")

	err := runner.Run(ctx, func(invRepo repository.InvoiceRepository, stats repository.StatsRepository) error {
		require.NoError(t, invRepo.Create(ctx, newInvoice("u1", entity.InvoiceStatusPaid, 5, time.Now())))
		require.NoError(t, stats.ApplyDelta(ctx, "u1", entity.StatsDelta{InvoiceCount: 1, Paid: decimal.NewFromInt(5)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	page, err := NewInvoiceRepository(s).List(ctx, repository.InvoiceFilter{UserID: "u1"}, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	st, err := NewStatsRepository(s).Get(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, st.InvoiceCount)
}

func TestTxRunner_RevierteEstadoYBorrado(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	repo := NewInvoiceRepository(s)
	inv := newInvoice("u1", entity.InvoiceStatusPending, 7, time.Now())
	inv.ID = "INV-1"
	require.NoError(t, repo.Create(ctx, inv))

	err := NewTxRunner(s).Run(ctx, func(invRepo repository.InvoiceRepository, _ repository.StatsRepository) error {
		require.NoError(t, invRepo.UpdateStatus(ctx, "INV-1", entity.InvoiceStatusPaid, "u1"))
		require.NoError(t, invRepo.Delete(ctx, "INV-1", "u1"))
		return errors.New("boom")
	})
	require.Error(t, err)

	got, err := repo.GetByID(ctx, "INV-1", "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.InvoiceStatusPending, got.Status)
}

func TestTxRunner_FalloNoPierdeEscriturasConcurrentes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	users := NewUserRepository(s)
	customers := NewCustomerRepository(s)
	runner := NewTxRunner(s)

	const n = 500
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("user-%d", i)
			_ = users.Create(ctx, &entity.User{
				ID: id, Name: id, Email: id + "@example.com", Role: entity.RoleUser, RegistrationDate: time.Now(),
			})
			_ = customers.Create(ctx, &entity.Customer{ID: fmt.Sprintf("c-%d", i), UserID: "u1", Name: id})
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			_ = runner.Run(ctx, func(invRepo repository.InvoiceRepository, _ repository.StatsRepository) error {
				_ = invRepo.Delete(ctx, "no-existe", "u1")
				time.Sleep(50 * time.Microsecond)
				return domain.ErrNotFound
			})
		}
	}()
	<-done
	wg.Wait()

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n+1)
	cs, err := customers.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cs, n)
}

func TestUserRepo_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	require.NoError(t, NewInvoiceRepository(s).Create(ctx, newInvoice("u1", entity.InvoiceStatusPaid, 1, time.Now())))
	require.NoError(t, NewCustomerRepository(s).Create(ctx, &entity.Customer{ID: "c1", UserID: "u1", Name: "ABC"}))
	require.NoError(t, NewSessionRepository(s).Create(ctx, &entity.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, NewUserRepository(s).Delete(ctx, "u1"))

	totals, _ := NewStatsRepository(s).PlatformTotals(ctx)
	assert.Zero(t, totals.TotalInvoices)
	c, _ := NewCustomerRepository(s).GetByID(ctx, "c1", "u1")
	assert.Nil(t, c)
	sess, _ := NewSessionRepository(s).GetByID(ctx, "s1")
	assert.Nil(t, sess)
	assert.ErrorIs(t, NewUserRepository(s).Delete(ctx, "u1"), domain.ErrUserNotFound)
}

func TestUserRepo_EmailUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "u1")
	err := NewUserRepository(s).Create(ctx, &entity.User{ID: "u2", Email: "U1@EXAMPLE.COM"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
