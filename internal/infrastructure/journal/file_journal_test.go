package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

func entry(id string) billing.JournalEntry {
	return billing.JournalEntry{
		Invoice: &entity.Invoice{
			ID:     id,
			UserID: "user-1",
			Status: entity.InvoiceStatusPaid,
			Amount: decimal.RequireFromString("11800.00"),
			LineItems: []entity.LineItem{
				{Position: 1, HSCode: "0101.2100", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5000), Rate: "18%"},
			},
		},
		Reason:     "connection reset",
		RecordedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileJournal_AppendPendingResolve(t *testing.T) {
	ctx := context.Background()
	j, err := NewFileJournal(filepath.Join(t.TempDir(), "sub", "journal.jsonl"))
	require.NoError(t, err)

	pending, err := j.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, j.Append(ctx, entry("A")))
	require.NoError(t, j.Append(ctx, entry("B")))
	require.NoError(t, j.Resolve(ctx, "A"))

	pending, err = j.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	got := pending[0]
	assert.Equal(t, "B", got.Invoice.ID)
	assert.True(t, decimal.NewFromInt(11800).Equal(got.Invoice.Amount))
	assert.Equal(t, "connection reset", got.Reason)
	require.Len(t, got.Invoice.LineItems, 1)
	assert.Equal(t, "18%", got.Invoice.LineItems[0].Rate)
}

func TestFileJournal_SobreviveReapertura(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := NewFileJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(ctx, entry("A")))

	reopened, err := NewFileJournal(path)
	require.NoError(t, err)
	pending, err := reopened.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "A", pending[0].Invoice.ID)
}

func TestFileJournal_EntradaSinFactura(t *testing.T) {
	j, err := NewFileJournal(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	assert.Error(t, j.Append(context.Background(), billing.JournalEntry{}))
}
