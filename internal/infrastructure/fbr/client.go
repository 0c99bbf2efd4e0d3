// Package fbr implementa el cliente HTTP del gateway de Digital Invoicing de FBR (Pakistán).
package fbr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"

	"github.com/rs/zerolog"
)

// Endpoints del gateway. El sandbox usa el mismo path con sufijo "_sb".
const (
	DefaultBaseURL = "https://gw.fbr.gov.pk/di_data/v1/di"
	PathPost       = "/postinvoicedata"
	PathValidate   = "/validateinvoicedata"
	sandboxSuffix  = "_sb"

	DefaultTimeout  = 30 * time.Second
	maxResponseSize = 1 << 20
)

// Config configuración explícita del cliente.
type Config struct {
	Token   string // vacío = modo simulado
	Sandbox bool
	Timeout time.Duration
	BaseURL string // vacío = DefaultBaseURL
}

// Client cliente JSON con autenticación Bearer.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
	now  func() time.Time
}

// NewClient construye el cliente. Sin token todas las llamadas devuelven una aceptación simulada.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With().Str("component", "fbr_client").Logger(),
		now:  time.Now,
	}
}

// IsMock indica si el cliente opera sin credenciales.
func (c *Client) IsMock() bool { return c.cfg.Token == "" }

// Environment "sandbox" o "production".
func (c *Client) Environment() string {
	if c.cfg.Sandbox {
		return "sandbox"
	}
	return "production"
}

// PostInvoice registra la factura en FBR.
func (c *Client) PostInvoice(ctx context.Context, req *InvoiceRequest) (*InvoiceResponse, error) {
	return c.send(ctx, PathPost, req)
}

// ValidateInvoice valida la factura en FBR sin registrarla.
func (c *Client) ValidateInvoice(ctx context.Context, req *InvoiceRequest) (*InvoiceResponse, error) {
	return c.send(ctx, PathValidate, req)
}

func (c *Client) endpoint(path string) string {
	u := c.cfg.BaseURL + path
	if c.cfg.Sandbox {
		u += sandboxSuffix
	}
	return u
}

func (c *Client) send(ctx context.Context, path string, req *InvoiceRequest) (*InvoiceResponse, error) {
	if c.IsMock() {
		c.log.Warn().Str("path", path).Msg("FBR_API_TOKEN no configurado: respuesta simulada")
		return c.mockAcceptance(req, path == PathPost), nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("serializar factura: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Dur("elapsed", time.Since(start)).Msg("gateway FBR inalcanzable")
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrGatewayUnreachable, err)
	}
	c.log.Debug().Str("path", path).Int("http_status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("respuesta FBR")

	var out InvoiceResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode >= http.StatusMultipleChoices {
		if decodeErr == nil && out.ValidationResponse.StatusCode != "" {
			return &out, nil
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: HTTP %d", domain.ErrGatewayUnreachable, resp.StatusCode)
		}
		return &InvoiceResponse{
			Dated: c.now().Format("2006-01-02 15:04:05"),
			ValidationResponse: ValidationResponse{
				StatusCode: fbrcat.StatusCodeInvalid,
				Status:     fbrcat.StatusInvalid,
				Error:      "HTTP " + strconv.Itoa(resp.StatusCode) + ": " + strings.TrimSpace(string(raw)),
			},
		}, nil
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: respuesta ilegible: %v", domain.ErrGatewayUnreachable, decodeErr)
	}
	return &out, nil
}

// mockAcceptance respuesta simulada con el mismo formato que una aceptación real.
// Solo postinvoicedata asigna número de factura.
func (c *Client) mockAcceptance(req *InvoiceRequest, assignNumber bool) *InvoiceResponse {
	now := c.now()
	number := fmt.Sprintf("FBR-MOCK-%d", now.UnixMilli())
	statuses := make([]ItemStatus, 0, len(req.Items))
	for i := range req.Items {
		sno := strconv.Itoa(i + 1)
		st := ItemStatus{ItemSNo: sno, StatusCode: fbrcat.StatusCodeValid, Status: fbrcat.StatusValid}
		if assignNumber {
			n := number + "-" + sno
			st.InvoiceNo = &n
		}
		statuses = append(statuses, st)
	}
	resp := &InvoiceResponse{
		Dated: now.Format("2006-01-02 15:04:05"),
		ValidationResponse: ValidationResponse{
			StatusCode:      fbrcat.StatusCodeValid,
			Status:          fbrcat.StatusValid,
			InvoiceStatuses: statuses,
		},
		Mock: true,
	}
	if assignNumber {
		resp.InvoiceNumber = number
	}
	return resp
}
