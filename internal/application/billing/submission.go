package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/invoicing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	infrafbr "github.com/jhoicas/fbr-invoicing/internal/infrastructure/fbr"
	fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FallbackIDPrefix prefijo del id local cuando FBR acepta sin devolver invoiceNumber.
const FallbackIDPrefix = "FBR-LOCAL-"

// SubmissionConfig parámetros del pipeline de envío.
type SubmissionConfig struct {
	GatewayTimeout time.Duration
	// Now reloj del pipeline; time.Now si es nil.
	Now func() time.Time
}

// SubmissionResult resultado de un envío aceptado y registrado.
type SubmissionResult struct {
	InvoiceID       string
	Invoice         *entity.Invoice
	Gateway         *infrafbr.InvoiceResponse
	Mock            bool
	AlreadyRecorded bool
}

// SubmissionUseCase pipeline validar → FBR → persistir factura y contadores.
//
// Solo la aceptación de FBR crea estado local. Persistir la factura y aplicar el
// delta de contadores ocurre en una única transacción, idempotente por número de
// factura FBR; si falla, la factura aceptada queda en el journal para Replay.
type SubmissionUseCase struct {
	txRunner TxRunner
	gateway  GatewayClient
	journal  CommitJournal
	cfg      SubmissionConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewSubmissionUseCase construye el pipeline. journal puede ser nil.
func NewSubmissionUseCase(txRunner TxRunner, gateway GatewayClient, journal CommitJournal, cfg SubmissionConfig, log zerolog.Logger) *SubmissionUseCase {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = infrafbr.DefaultTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SubmissionUseCase{
		txRunner: txRunner,
		gateway:  gateway,
		journal:  journal,
		cfg:      cfg,
		log:      log.With().Str("component", "submission").Logger(),
		now:      cfg.Now,
	}
}

// Validate valida el borrador sin efectos secundarios.
func (uc *SubmissionUseCase) Validate(d *entity.InvoiceDraft) invoicing.ValidationResult {
	return invoicing.Validate(d)
}

// DryRun valida localmente y contra validateinvoicedata; nunca persiste.
func (uc *SubmissionUseCase) DryRun(ctx context.Context, d *entity.InvoiceDraft) (*infrafbr.InvoiceResponse, error) {
	req, _, err := uc.prepare(d, uc.now())
	if err != nil {
		return nil, err
	}
	return uc.call(ctx, uc.gateway.ValidateInvoice, req)
}

// Submit envía el borrador a FBR y, si lo acepta, registra la factura como Paid.
func (uc *SubmissionUseCase) Submit(ctx context.Context, ownerID string, d *entity.InvoiceDraft) (*SubmissionResult, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	req, totals, err := uc.prepare(d, now)
	if err != nil {
		return nil, err
	}
	resp, err := uc.call(ctx, uc.gateway.PostInvoice, req)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", ownerID).Msg("envío a FBR sin aceptación")
		return nil, err
	}

	inv := uc.buildInvoice(ownerID, d, totals, resp, now)
	log := uc.log.With().
		Str("user_id", ownerID).
		Str("invoice_number", inv.ID).
		Bool("mock", resp.Mock).
		Logger()

	already, err := uc.Commit(ctx, inv)
	if err != nil {
		perr := &PersistenceError{InvoiceNumber: inv.ID, Err: err}
		if uc.journal != nil {
			entry := JournalEntry{Invoice: inv, Reason: err.Error(), RecordedAt: uc.now().UTC()}
			if jerr := uc.journal.Append(context.WithoutCancel(ctx), entry); jerr != nil {
				log.Error().Err(jerr).Msg("no se pudo escribir el journal de facturas pendientes")
			} else {
				perr.Journaled = true
			}
		}
		log.Error().Err(err).Bool("journaled", perr.Journaled).
			Msg("FBR aceptó la factura pero no se registró localmente; requiere recuperación")
		return nil, perr
	}

	log.Info().Str("amount", inv.Amount.StringFixed(2)).Bool("already_recorded", already).Msg("factura registrada en FBR")
	return &SubmissionResult{
		InvoiceID:       inv.ID,
		Invoice:         inv,
		Gateway:         resp,
		Mock:            resp.Mock,
		AlreadyRecorded: already,
	}, nil
}

// Commit persiste la factura aceptada y aplica el delta de contadores en una sola
// transacción. Si la factura ya existe para el mismo dueño no hace nada y devuelve true.
func (uc *SubmissionUseCase) Commit(ctx context.Context, inv *entity.Invoice) (alreadyRecorded bool, err error) {
	err = uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository, statsRepo repository.StatsRepository) error {
		alreadyRecorded = false
		existing, err := invoiceRepo.GetByID(ctx, inv.ID, "")
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.UserID != inv.UserID {
				return fmt.Errorf("factura %s registrada por otro usuario: %w", inv.ID, domain.ErrConflict)
			}
			alreadyRecorded = true
			return nil
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		return statsRepo.ApplyDelta(ctx, inv.UserID, StatsDeltaFor(inv, 1))
	})
	return alreadyRecorded, err
}

// prepare valida y arma la petición. Sin issue_date, la fecha enviada es la fecha
// UTC de now, la misma que registra invoiceFromDraft.
func (uc *SubmissionUseCase) prepare(d *entity.InvoiceDraft, now time.Time) (*infrafbr.InvoiceRequest, invoicing.Totals, error) {
	if res := invoicing.Validate(d); !res.Valid() {
		return nil, invoicing.Totals{}, res.Err()
	}
	req, totals, err := infrafbr.BuildInvoiceRequest(d, dateOnly(now.UTC()))
	if err != nil {
		return nil, invoicing.Totals{}, fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}
	return req, totals, nil
}

type gatewayCall func(context.Context, *infrafbr.InvoiceRequest) (*infrafbr.InvoiceResponse, error)

func (uc *SubmissionUseCase) call(ctx context.Context, fn gatewayCall, req *infrafbr.InvoiceRequest) (*infrafbr.InvoiceResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.GatewayTimeout)
	defer cancel()

	resp, err := fn(callCtx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrGatewayUnreachable) {
			err = fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
		}
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: respuesta vacía", domain.ErrGatewayUnreachable)
	}
	if !resp.Accepted() {
		return nil, &RejectedError{Message: resp.RejectionMessage(), Response: resp}
	}
	return resp, nil
}

func (uc *SubmissionUseCase) buildInvoice(ownerID string, d *entity.InvoiceDraft, totals invoicing.Totals, resp *infrafbr.InvoiceResponse, now time.Time) *entity.Invoice {
	id := resp.InvoiceNumber
	if id == "" {
		id = FallbackIDPrefix + uuid.New().String()
	}
	inv := invoiceFromDraft(ownerID, d, now)
	inv.ID = id
	inv.Status = entity.InvoiceStatusPaid
	inv.Amount = totals.GrandTotal
	inv.FBRDated = resp.Dated
	return inv
}

// invoiceFromDraft copia partes y líneas del borrador aplicando valores por defecto.
func invoiceFromDraft(ownerID string, d *entity.InvoiceDraft, now time.Time) *entity.Invoice {
	now = now.UTC()
	issue := dateOnly(d.IssueDate)
	if d.IssueDate.IsZero() {
		issue = dateOnly(now)
	}
	due := dateOnly(d.DueDate)
	if d.DueDate.IsZero() {
		due = issue
	}
	invoiceType := d.InvoiceType
	if invoiceType == "" {
		invoiceType = fbrcat.InvoiceTypeSale
	}

	inv := &entity.Invoice{
		UserID:                ownerID,
		InvoiceType:           invoiceType,
		CustomerName:          d.Buyer.Name,
		IssueDate:             issue,
		DueDate:               due,
		Notes:                 d.Notes,
		Seller:                normalizeParty(d.Seller),
		Buyer:                 normalizeParty(d.Buyer),
		BuyerRegistrationType: d.BuyerRegistrationType,
		LineItems:             make([]entity.LineItem, 0, len(d.LineItems)),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	for _, it := range d.LineItems {
		it.ID = ""
		it.Total = invoicing.LineTotal(it)
		if it.SaleType == "" {
			it.SaleType = fbrcat.DefaultSaleType
		}
		inv.LineItems = append(inv.LineItems, it)
	}
	return inv
}

func normalizeParty(p entity.Party) entity.Party {
	p.NTN = fbrcat.NormalizeNTN(p.NTN)
	p.Province = fbrcat.CanonicalProvince(p.Province)
	return p
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StatsDeltaFor delta de contadores que aporta la factura; sign = 1 al crear, -1 al eliminar.
func StatsDeltaFor(inv *entity.Invoice, sign int) entity.StatsDelta {
	d := entity.StatsDelta{InvoiceCount: sign}
	amount := inv.Amount.Mul(decimal.NewFromInt(int64(sign)))
	switch {
	case inv.IsPaid():
		d.Paid = amount
	case inv.IsOutstanding():
		d.Pending = amount
	}
	return d
}
