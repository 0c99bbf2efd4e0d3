//go:build integration

// Tests contra una base real. Ejecutar con:
//
//	TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/...
package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/postgres"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	m, err := postgres.NewMigrator(dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	_ = m.Close()

	pool, err := postgres.NewPool(context.Background(), config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, postgres.NewUserRepository(pool).Create(context.Background(), &entity.User{
		ID: id, Name: "it-" + id[:8], Email: id + "@example.com", PasswordHash: "x",
		Role: entity.RoleUser, RegistrationDate: time.Now().UTC(),
	}))
	t.Cleanup(func() { _ = postgres.NewUserRepository(pool).Delete(context.Background(), id) })
	return id
}

func pgInvoice(owner, status string, amount int64, created time.Time) *entity.Invoice {
	day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
	return &entity.Invoice{
		ID: uuid.New().String(), UserID: owner, InvoiceType: "Sale Invoice", CustomerName: "Buyer Co",
		IssueDate: day, DueDate: day, Status: status, Amount: decimal.NewFromInt(amount),
		Seller:                entity.Party{Name: "ACME", Address: "Lahore", NTN: "1234567", Province: "Punjab"},
		Buyer:                 entity.Party{Name: "Buyer Co", Province: "Sindh"},
		BuyerRegistrationType: "Unregistered",
		CreatedAt:             created, UpdatedAt: created,
		LineItems: []entity.LineItem{{
			Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(amount),
			Total:  decimal.NewFromInt(amount).Mul(decimal.RequireFromString("1.5")).Round(2),
			HSCode: "0101.2100", Rate: "18%", UoM: "pcs", SaleType: "Goods at standard rate (default)",
		}},
	}
}

func TestInvoiceRepo_ListPaginacionYDueno(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	owner, other := createUser(t, pool), createUser(t, pool)
	repo := postgres.NewInvoiceRepository(pool)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var newest string
	for i := 0; i < 12; i++ {
		inv := pgInvoice(owner, entity.InvoiceStatusPending, 100, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, inv))
		newest = inv.ID
	}
	foreign := pgInvoice(other, entity.InvoiceStatusPaid, 5, base)
	require.NoError(t, repo.Create(ctx, foreign))

	p1, err := repo.List(ctx, repository.InvoiceFilter{UserID: owner}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, p1.Total)
	assert.Len(t, p1.Items, 10)
	assert.True(t, p1.HasMore)
	assert.Equal(t, newest, p1.Items[0].ID)
	require.Len(t, p1.Items[0].LineItems, 1)
	assert.True(t, decimal.RequireFromString("1.5").Equal(p1.Items[0].LineItems[0].Quantity))

	p2, err := repo.List(ctx, repository.InvoiceFilter{UserID: owner}, 2, 10)
	require.NoError(t, err)
	assert.Len(t, p2.Items, 2)
	assert.False(t, p2.HasMore)

	huge, err := repo.List(ctx, repository.InvoiceFilter{UserID: owner}, 922337203685477582, 10)
	require.NoError(t, err)
	assert.Empty(t, huge.Items)

	got, err := repo.GetByID(ctx, foreign.ID, owner)
	require.NoError(t, err)
	assert.Nil(t, got, "factura ajena no visible con filtro de dueño")
	got, err = repo.GetByID(ctx, foreign.ID, "")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, foreign.ID, entity.InvoiceStatusPaid, owner), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, foreign.ID, owner), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Create(ctx, foreign), domain.ErrDuplicate)
}

func TestTxRunner_DeltaCoincideConRecompute(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	owner := createUser(t, pool)
	runner := postgres.NewTxRunner(pool)
	stats := postgres.NewStatsRepository(pool)

	for i, status := range []string{entity.InvoiceStatusPaid, entity.InvoiceStatusPending, entity.InvoiceStatusPaid} {
		inv := pgInvoice(owner, status, int64(100*(i+1)), time.Now().UTC())
		require.NoError(t, runner.Run(ctx, func(invRepo repository.InvoiceRepository, st repository.StatsRepository) error {
			if err := invRepo.Create(ctx, inv); err != nil {
				return err
			}
			d := entity.StatsDelta{InvoiceCount: 1, Paid: decimal.Zero, Pending: decimal.Zero}
			if inv.IsPaid() {
				d.Paid = inv.Amount
			} else {
				d.Pending = inv.Amount
			}
			return st.ApplyDelta(ctx, owner, d)
		}))
	}

	live, err := stats.Get(ctx, owner)
	require.NoError(t, err)
	recomputed, err := stats.Recompute(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, live.InvoiceCount)
	assert.Equal(t, live.InvoiceCount, recomputed.InvoiceCount)
	assert.True(t, live.PaidAmount.Equal(recomputed.PaidAmount), "paid %s vs %s", live.PaidAmount, recomputed.PaidAmount)
	assert.True(t, live.PendingAmount.Equal(recomputed.PendingAmount))
	assert.True(t, decimal.NewFromInt(400).Equal(recomputed.PaidAmount))
}

func TestTxRunner_FalloRevierteCreateConSavepoint(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	owner := createUser(t, pool)
	boom := errors.New("boom")
	inv := pgInvoice(owner, entity.InvoiceStatusPaid, 50, time.Now().UTC())

	err := postgres.NewTxRunner(pool).Run(ctx, func(invRepo repository.InvoiceRepository, st repository.StatsRepository) error {
		if err := invRepo.Create(ctx, inv); err != nil {
			return err
		}
		// El duplicado falla dentro del savepoint sin abortar la tx externa.
		dupErr := invRepo.Create(ctx, inv)
		if !errors.Is(dupErr, domain.ErrDuplicate) {
			return fmt.Errorf("se esperaba duplicado: %v", dupErr)
		}
		if err := st.ApplyDelta(ctx, owner, entity.StatsDelta{InvoiceCount: 1, Paid: inv.Amount, Pending: decimal.Zero}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := postgres.NewInvoiceRepository(pool).GetByID(ctx, inv.ID, owner)
	require.NoError(t, err)
	assert.Nil(t, got)
	live, err := postgres.NewStatsRepository(pool).Get(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, live.InvoiceCount)
}
