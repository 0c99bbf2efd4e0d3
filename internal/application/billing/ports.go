package billing

//go:generate mockgen -source=ports.go -destination=ports_mock.go -package=billing

import (
	"context"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/invoicing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	infrafbr "github.com/jhoicas/fbr-invoicing/internal/infrastructure/fbr"
)

// TxRunner ejecuta fn con los repos de factura y contadores atados a una sola transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		statsRepo repository.StatsRepository,
	) error) error
}

// GatewayClient puerto del gateway de FBR (implementado por *infrafbr.Client).
type GatewayClient interface {
	PostInvoice(ctx context.Context, req *infrafbr.InvoiceRequest) (*infrafbr.InvoiceResponse, error)
	ValidateInvoice(ctx context.Context, req *infrafbr.InvoiceRequest) (*infrafbr.InvoiceResponse, error)
	IsMock() bool
}

// CommitJournal registro durable de facturas aceptadas por FBR que no se pudieron persistir.
type CommitJournal interface {
	Append(ctx context.Context, entry JournalEntry) error
	Pending(ctx context.Context) ([]JournalEntry, error)
	Resolve(ctx context.Context, invoiceID string) error
}

// JournalEntry factura aceptada pendiente de persistir.
type JournalEntry struct {
	Invoice    *entity.Invoice `json:"invoice"`
	Reason     string          `json:"reason"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// InvoicePDFGenerator genera la representación impresa de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, totals invoicing.Totals) ([]byte, error)
}
