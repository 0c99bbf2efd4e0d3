package billing_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	infrafbr "github.com/jhoicas/fbr-invoicing/internal/infrastructure/fbr"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/memory"
)

const ownerID = "user-1"

type fixture struct {
	store   *memory.Store
	gateway *billing.MockGatewayClient
	journal *billing.MockCommitJournal
	uc      *billing.SubmissionUseCase
}

func newFixture(t *testing.T, timeout time.Duration) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	for _, id := range []string{ownerID, "user-2"} {
		require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), &entity.User{
			ID: id, Name: id, Email: id + "@example.com", Role: entity.RoleUser,
		}))
	}
	f := &fixture{
		store:   store,
		gateway: billing.NewMockGatewayClient(ctrl),
		journal: billing.NewMockCommitJournal(ctrl),
	}
	f.uc = billing.NewSubmissionUseCase(
		memory.NewTxRunner(store), f.gateway, f.journal,
		billing.SubmissionConfig{GatewayTimeout: timeout}, zerolog.Nop(),
	)
	return f
}

func (f *fixture) stats(t *testing.T, userID string) entity.UserStats {
	t.Helper()
	s, err := memory.NewStatsRepository(f.store).Get(context.Background(), userID)
	require.NoError(t, err)
	return s
}

func (f *fixture) invoiceCount(t *testing.T, userID string) int {
	t.Helper()
	page, err := memory.NewInvoiceRepository(f.store).List(context.Background(), repository.InvoiceFilter{UserID: userID}, 1, 100)
	require.NoError(t, err)
	return page.Total
}

func validDraft() *entity.InvoiceDraft {
	return &entity.InvoiceDraft{
		InvoiceType: "Sale Invoice",
		IssueDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Seller: entity.Party{
			Name: "ACME Traders", Address: "Mall Road, Lahore", NTN: "1234567", Province: "Punjab",
		},
		Buyer: entity.Party{
			Name: "Buyer Co", Address: "Clifton, Karachi", NTN: "7654321", Province: "Sindh",
		},
		BuyerRegistrationType: "Registered",
		LineItems: []entity.LineItem{{
			Description: "Widget",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(5000),
			HSCode:      "0101.2100",
			Rate:        "18%",
			UoM:         "pcs",
		}},
	}
}

func accepted(number string) *infrafbr.InvoiceResponse {
	return &infrafbr.InvoiceResponse{
		InvoiceNumber: number,
		Dated:         "2025-03-10 10:00:00",
		ValidationResponse: infrafbr.ValidationResponse{
			StatusCode: "00",
			Status:     "Valid",
			InvoiceStatuses: []infrafbr.ItemStatus{
				{ItemSNo: "1", StatusCode: "00", Status: "Valid"},
			},
		},
	}
}

func TestSubmit_AceptadaRegistraFacturaYContadores(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *infrafbr.InvoiceRequest) (*infrafbr.InvoiceResponse, error) {
			assert.Equal(t, "2025-03-10", req.InvoiceDate)
			require.Len(t, req.Items, 1)
			assert.InDelta(t, 11800.0, req.Items[0].TotalValues, 0.001)
			return accepted("7000007DI1747119701593"), nil
		})

	res, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.NoError(t, err)
	assert.Equal(t, "7000007DI1747119701593", res.InvoiceID)
	assert.False(t, res.AlreadyRecorded)
	assert.Equal(t, entity.InvoiceStatusPaid, res.Invoice.Status)
	assert.True(t, decimal.NewFromInt(11800).Equal(res.Invoice.Amount))

	stored, err := memory.NewInvoiceRepository(f.store).GetByID(context.Background(), res.InvoiceID, ownerID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Buyer Co", stored.CustomerName)
	require.Len(t, stored.LineItems, 1)
	assert.True(t, decimal.NewFromInt(10000).Equal(stored.LineItems[0].Total))

	s := f.stats(t, ownerID)
	assert.Equal(t, 1, s.InvoiceCount)
	assert.True(t, decimal.NewFromInt(11800).Equal(s.PaidAmount))
	assert.True(t, s.PendingAmount.IsZero())
}

func TestSubmit_SinFechaUsaLaMismaFechaEnFBRYLocal(t *testing.T) {
	pkt := time.FixedZone("PKT", 5*60*60)
	clock := time.Date(2025, 3, 11, 2, 0, 0, 0, pkt) // 2025-03-10 21:00 UTC

	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	require.NoError(t, memory.NewUserRepository(store).Create(context.Background(), &entity.User{
		ID: ownerID, Name: ownerID, Email: ownerID + "@example.com", Role: entity.RoleUser,
	}))
	gateway := billing.NewMockGatewayClient(ctrl)
	uc := billing.NewSubmissionUseCase(
		memory.NewTxRunner(store), gateway, nil,
		billing.SubmissionConfig{GatewayTimeout: time.Second, Now: func() time.Time { return clock }},
		zerolog.Nop(),
	)

	var wireDate string
	gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *infrafbr.InvoiceRequest) (*infrafbr.InvoiceResponse, error) {
			wireDate = req.InvoiceDate
			return accepted("INV-D"), nil
		})

	d := validDraft()
	d.IssueDate = time.Time{}
	res, err := uc.Submit(context.Background(), ownerID, d)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", wireDate)
	assert.Equal(t, wireDate, res.Invoice.IssueDate.Format("2006-01-02"))
	assert.Equal(t, res.Invoice.IssueDate, res.Invoice.DueDate)
}

func TestSubmit_ValidacionFallidaNoLlamaAlGateway(t *testing.T) {
	f := newFixture(t, time.Second)
	d := validDraft()
	d.Buyer.NTN = ""
	d.LineItems[0].HSCode = ""

	_, err := f.uc.Submit(context.Background(), ownerID, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "buyer.ntn")
	assert.Contains(t, fields, "line_items[0].hs_code")
	assert.Equal(t, 0, f.invoiceCount(t, ownerID))
}

func TestSubmit_RechazoNoPersiste(t *testing.T) {
	f := newFixture(t, time.Second)
	rejected := &infrafbr.InvoiceResponse{
		ValidationResponse: infrafbr.ValidationResponse{
			StatusCode: "01", Status: "Invalid", Error: "Seller NTN is not registered",
		},
	}
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(rejected, nil)

	_, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGatewayRejected)

	var rerr *billing.RejectedError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "Seller NTN is not registered", rerr.Message)
	assert.Same(t, rejected, rerr.Response)
	assert.Equal(t, 0, f.invoiceCount(t, ownerID))
	assert.Equal(t, 0, f.stats(t, ownerID).InvoiceCount)
}

func TestSubmit_RechazoPorLinea(t *testing.T) {
	f := newFixture(t, time.Second)
	resp := accepted("")
	resp.ValidationResponse.InvoiceStatuses[0] = infrafbr.ItemStatus{
		ItemSNo: "1", StatusCode: "01", Status: "Invalid", Error: "HS code inválido",
	}
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(resp, nil)

	_, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	var rerr *billing.RejectedError
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, rerr.Message, "HS code inválido")
	assert.Equal(t, 0, f.invoiceCount(t, ownerID))
}

func TestSubmit_GatewayInalcanzable(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))

	_, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGatewayUnreachable)
	assert.Equal(t, 0, f.invoiceCount(t, ownerID))
}

func TestSubmit_TimeoutDelGateway(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *infrafbr.InvoiceRequest) (*infrafbr.InvoiceResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	start := time.Now()
	_, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	assert.ErrorIs(t, err, domain.ErrGatewayUnreachable)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 0, f.invoiceCount(t, ownerID))
}

func TestSubmit_SinNumeroUsaIDLocal(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(accepted(""), nil)

	res, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.InvoiceID, billing.FallbackIDPrefix))
	assert.Equal(t, 1, f.invoiceCount(t, ownerID))
}

func TestSubmit_MockMarcaResultado(t *testing.T) {
	f := newFixture(t, time.Second)
	resp := accepted("FBR-MOCK-1")
	resp.Mock = true
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(resp, nil)

	res, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.NoError(t, err)
	assert.True(t, res.Mock)
	assert.Equal(t, 1, f.stats(t, ownerID).InvoiceCount)
}

func TestSubmit_MismoNumeroEsIdempotente(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(accepted("INV-1"), nil).Times(2)

	_, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.NoError(t, err)
	res, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.NoError(t, err)
	assert.True(t, res.AlreadyRecorded)

	s := f.stats(t, ownerID)
	assert.Equal(t, 1, s.InvoiceCount)
	assert.True(t, decimal.NewFromInt(11800).Equal(s.PaidAmount))
}

func TestSubmit_NumeroDeOtroUsuarioEsConflicto(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(accepted("INV-1"), nil).Times(2)
	f.journal.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.uc.Submit(context.Background(), "user-2", validDraft())
	require.NoError(t, err)
	_, err = f.uc.Submit(context.Background(), ownerID, validDraft())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
	assert.Equal(t, 0, f.stats(t, ownerID).InvoiceCount)
}

func TestSubmit_FalloDePersistenciaVaAlJournal(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(accepted("INV-9"), nil)
	f.store.FailNextInvoiceCreate(errors.New("disk full"))

	var journaled billing.JournalEntry
	f.journal.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e billing.JournalEntry) error {
			journaled = e
			return nil
		})

	_, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)

	var perr *billing.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "INV-9", perr.InvoiceNumber)
	assert.True(t, perr.Journaled)

	require.NotNil(t, journaled.Invoice)
	assert.Equal(t, "INV-9", journaled.Invoice.ID)
	assert.Contains(t, journaled.Reason, "disk full")

	assert.Equal(t, 0, f.invoiceCount(t, ownerID))
	s := f.stats(t, ownerID)
	assert.Equal(t, 0, s.InvoiceCount)
	assert.True(t, s.PaidAmount.IsZero())
}

func TestSubmit_SinUsuario(t *testing.T) {
	f := newFixture(t, time.Second)
	_, err := f.uc.Submit(context.Background(), "", validDraft())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDryRun_NoPersiste(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().ValidateInvoice(gomock.Any(), gomock.Any()).Return(accepted(""), nil)

	resp, err := f.uc.DryRun(context.Background(), validDraft())
	require.NoError(t, err)
	assert.True(t, resp.Accepted())
	assert.Equal(t, 0, f.invoiceCount(t, ownerID))
	assert.Equal(t, 0, f.stats(t, ownerID).InvoiceCount)
}

func TestDryRun_Rechazo(t *testing.T) {
	f := newFixture(t, time.Second)
	resp := &infrafbr.InvoiceResponse{ValidationResponse: infrafbr.ValidationResponse{StatusCode: "01", Error: "bad"}}
	f.gateway.EXPECT().ValidateInvoice(gomock.Any(), gomock.Any()).Return(resp, nil)

	_, err := f.uc.DryRun(context.Background(), validDraft())
	assert.ErrorIs(t, err, domain.ErrGatewayRejected)
}

func TestValidate_SinEfectos(t *testing.T) {
	f := newFixture(t, time.Second)
	d := validDraft()
	assert.True(t, f.uc.Validate(d).Valid())
	d.LineItems = nil
	res := f.uc.Validate(d)
	require.False(t, res.Valid())
	assert.Equal(t, "line_items", res.Errors[0].Field)
}

func TestRecovery_ReplayRegistraYResuelve(t *testing.T) {
	f := newFixture(t, time.Second)
	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(accepted("INV-R"), nil)
	f.store.FailNextInvoiceCreate(errors.New("connection reset"))

	var pending []billing.JournalEntry
	f.journal.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e billing.JournalEntry) error {
			pending = append(pending, e)
			return nil
		})
	_, err := f.uc.Submit(context.Background(), ownerID, validDraft())
	require.ErrorIs(t, err, domain.ErrPersistenceFailed)

	f.journal.EXPECT().Pending(gomock.Any()).Return(pending, nil).Times(2)
	f.journal.EXPECT().Resolve(gomock.Any(), "INV-R").Return(nil).Times(2)

	rec := billing.NewRecoveryUseCase(f.uc, f.journal, zerolog.Nop())
	rep, err := rec.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"INV-R"}, rep.Recovered)
	assert.Empty(t, rep.Failed)

	// Un segundo replay de la misma entrada no duplica contadores.
	_, err = rec.Replay(context.Background())
	require.NoError(t, err)
	s := f.stats(t, ownerID)
	assert.Equal(t, 1, s.InvoiceCount)
	assert.True(t, decimal.NewFromInt(11800).Equal(s.PaidAmount))
}

func TestSubmit_ListaPrimeroYRecomputeCoincide(t *testing.T) {
	f := newFixture(t, time.Second)
	ctx := context.Background()
	local := billing.NewInvoiceUseCase(memory.NewTxRunner(f.store), memory.NewInvoiceRepository(f.store), memory.NewStatsRepository(f.store), zerolog.Nop())
	_, err := local.CreateLocal(ctx, ownerID, validDraft())
	require.NoError(t, err)

	f.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(accepted("INV-NEW"), nil)
	_, err = f.uc.Submit(ctx, ownerID, validDraft())
	require.NoError(t, err)

	page, err := memory.NewInvoiceRepository(f.store).List(ctx, repository.InvoiceFilter{UserID: ownerID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "INV-NEW", page.Items[0].ID)

	live := f.stats(t, ownerID)
	recomputed, err := memory.NewStatsRepository(f.store).Recompute(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, live.Equal(recomputed))
	assert.True(t, decimal.NewFromInt(11800).Equal(live.PaidAmount))
	assert.True(t, decimal.NewFromInt(11800).Equal(live.PendingAmount))
}
