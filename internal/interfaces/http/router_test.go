package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jhoicas/fbr-invoicing/internal/application/admin"
	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	infrafbr "github.com/jhoicas/fbr-invoicing/internal/infrastructure/fbr"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/fbr-invoicing/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/fbr-invoicing/internal/interfaces/http"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

type testServer struct {
	app     *fiber.App
	authUC  *auth.AuthUseCase
	gateway *billing.MockGatewayClient
}

// newTestServer arma la API completa sobre el store en memoria y un gateway simulado con gomock.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	stats := memory.NewStatsRepository(store)
	invoices := memory.NewInvoiceRepository(store)
	tx := memory.NewTxRunner(store)
	log := zerolog.Nop()

	gateway := billing.NewMockGatewayClient(ctrl)
	gateway.EXPECT().IsMock().Return(false).AnyTimes()

	authUC := auth.NewAuthUseCase(users, memory.NewSessionRepository(store), stats, auth.JWTConfig{
		Secret: testJWTSecret, TTL: time.Hour, Issuer: "fbr-invoicing-test",
	}, log)
	submission := billing.NewSubmissionUseCase(tx, gateway, billing.NewMockCommitJournal(ctrl),
		billing.SubmissionConfig{GatewayTimeout: time.Second}, log)

	app := apphttp.NewApp(apphttp.AppConfig{Name: "test"}, log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		InvoiceUC:    billing.NewInvoiceUseCase(tx, invoices, stats, log),
		SubmissionUC: submission,
		PDFUC:        billing.NewPDFUseCase(invoices, infrapdf.NewMarotoPDFGenerator()),
		CustomerUC:   billing.NewCustomerUseCase(memory.NewCustomerRepository(store)),
		ProductUC:    billing.NewProductUseCase(memory.NewProductRepository(store)),
		AdminUC:      admin.NewUseCase(users, stats, log),
	})
	return &testServer{app: app, authUC: authUC, gateway: gateway}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login registra (si hace falta) e inicia sesión; devuelve el token y la respuesta completa.
func (s *testServer) login(t *testing.T, email string) (string, *http.Response) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token, resp
}

func (s *testServer) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Name: "Ali", Email: email, Password: "secret123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := s.login(t, email)
	return token
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func draftBody() map[string]any {
	return map[string]any{
		"invoice_type":            "Sale Invoice",
		"issue_date":              "2025-03-10",
		"seller":                  map[string]any{"name": "ACME Traders", "address": "Mall Road, Lahore", "ntn": "1234567", "province": "Punjab"},
		"buyer":                   map[string]any{"name": "Buyer Co", "address": "Clifton, Karachi", "ntn": "7654321", "province": "Sindh"},
		"buyer_registration_type": "Registered",
		"line_items": []map[string]any{{
			"description": "Widget", "quantity": 2, "unit_price": 5000,
			"hs_code": "0101.2100", "rate": "18%", "uom": "Numbers, pieces, units",
		}},
	}
}

func acceptedResponse(number string) *infrafbr.InvoiceResponse {
	return &infrafbr.InvoiceResponse{
		InvoiceNumber: number,
		Dated:         "2025-03-10 10:00:00",
		ValidationResponse: infrafbr.ValidationResponse{
			StatusCode: "00", Status: "Valid",
			InvoiceStatuses: []infrafbr.ItemStatus{{ItemSNo: "1", StatusCode: "00", Status: "Valid"}},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinTokenDevuelve401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/invoices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

func TestAuth_HeaderMalFormadoDevuelve401(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token abc")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuth_CookieDeSesionAutentica(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "cookie@example.com")
	_, loginResp := s.login(t, "cookie@example.com")

	var sessionCookie *http.Cookie
	for _, c := range loginResp.Cookies() {
		if c.Name == apphttp.AuthCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login debe emitir la cookie de sesión")
	assert.True(t, sessionCookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.AuthCookie, Value: sessionCookie.Value})
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me dto.UserResponse
	decode(t, resp, &me)
	assert.Equal(t, "cookie@example.com", me.Email)
}

func TestAuth_LogoutInvalidaElToken(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "logout@example.com")

	resp := s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_RegistroDuplicadoDevuelve409(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "dup@example.com")

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Name: "Otro", Email: "DUP@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "EMAIL_EXISTS", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// RBAC admin
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_UsuarioSinRolAdminRecibe403(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "user@example.com")

	resp := s.do(t, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdmin_AdminListaUsuariosYNoPuedeBorrarse(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "user@example.com")
	adminUser, err := s.authUC.CreateAdmin(context.Background(), dto.RegisterRequest{Name: "Root", Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)
	token, _ := s.login(t, "root@example.com")

	resp := s.do(t, http.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []dto.UserResponse
	decode(t, resp, &users)
	assert.Len(t, users, 2)

	resp = s.do(t, http.MethodDelete, "/api/admin/users/"+adminUser.ID, token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// FBR
// ──────────────────────────────────────────────────────────────────────────────

func TestFBR_PostInvoiceAceptadaDevuelve201(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "seller@example.com")
	s.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(acceptedResponse("7000007DI1747119701593"), nil)

	resp := s.do(t, http.MethodPost, "/api/fbr/post-invoice", token, draftBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.SubmissionResponse
	decode(t, resp, &out)
	assert.Equal(t, "7000007DI1747119701593", out.InvoiceID)
	require.NotNil(t, out.Invoice)
	assert.Equal(t, "11800", out.Invoice.Amount.String())
	assert.Equal(t, "Paid", out.Invoice.Status)

	resp = s.do(t, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash dto.DashboardResponse
	decode(t, resp, &dash)
	assert.Equal(t, 1, dash.Stats.InvoiceCount)
	assert.Equal(t, "11800", dash.Stats.PaidAmount.String())
	require.Len(t, dash.RecentInvoices, 1)

	resp = s.do(t, http.MethodGet, "/api/invoices/"+out.InvoiceID+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
}

func TestFBR_BorradorInvalidoDevuelve422SinLlamarGateway(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "seller@example.com")
	body := draftBody()
	body["line_items"] = []map[string]any{}

	resp := s.do(t, http.MethodPost, "/api/fbr/post-invoice", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION_FAILED", out.Code)
	assert.NotEmpty(t, out.Fields)
}

func TestFBR_RechazoDelGatewayDevuelve422ConDetalle(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "seller@example.com")
	s.gateway.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(&infrafbr.InvoiceResponse{
		ValidationResponse: infrafbr.ValidationResponse{StatusCode: "01", Status: "Invalid", Error: "Seller NTN is not registered"},
	}, nil)

	resp := s.do(t, http.MethodPost, "/api/fbr/post-invoice", token, draftBody())
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "GATEWAY_REJECTED", out.Code)
	assert.NotNil(t, out.Details)

	resp = s.do(t, http.MethodGet, "/api/invoices", token, nil)
	var list dto.InvoiceListResponse
	decode(t, resp, &list)
	assert.Empty(t, list.Items, "una factura rechazada no se registra")
}

func TestFBR_GatewayInalcanzableDevuelve502(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "seller@example.com")
	s.gateway.EXPECT().ValidateInvoice(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

	resp := s.do(t, http.MethodPost, "/api/fbr/validate-invoice", token, draftBody())
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestFBR_ValidateLocalNoLlamaGateway(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "seller@example.com")
	body := draftBody()
	body["buyer"] = map[string]any{"name": "Buyer Co", "address": "Clifton", "province": "Atlantis"}

	resp := s.do(t, http.MethodPost, "/api/fbr/validate", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ValidationResponse
	decode(t, resp, &out)
	assert.False(t, out.Valid)
	assert.NotEmpty(t, out.Errors)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas y aislamiento entre usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoices_OtroUsuarioRecibe404(t *testing.T) {
	s := newTestServer(t)
	owner := s.registerAndLogin(t, "owner@example.com")
	other := s.registerAndLogin(t, "other@example.com")

	resp := s.do(t, http.MethodPost, "/api/invoices", owner, draftBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv dto.InvoiceResponse
	decode(t, resp, &inv)
	assert.Equal(t, "Pending", inv.Status)

	resp = s.do(t, http.MethodGet, "/api/invoices/"+inv.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, "/api/invoices/"+inv.ID+"/status", owner, dto.UpdateInvoiceStatusRequest{Status: "Paid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &inv)
	assert.Equal(t, "Paid", inv.Status)
}

func TestInvoices_FiltroDeEstadoInvalidoDevuelve422(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "owner@example.com")

	resp := s.do(t, http.MethodGet, "/api/invoices?status=Unknown", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRutaInexistenteDevuelve404JSON(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/no-existe", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "NOT_FOUND", out.Code)
}
