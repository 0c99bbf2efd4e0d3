package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyDTO vendedor o comprador.
type PartyDTO struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Email    string `json:"email,omitempty"`
	NTN      string `json:"ntn,omitempty"`
	Province string `json:"province"`
}

// LineItemDTO línea de factura en requests y respuestas.
type LineItemDTO struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	HSCode      string          `json:"hs_code"`
	Rate        string          `json:"rate"`
	UoM         string          `json:"uom"`
	SaleType    string          `json:"sale_type"`
}

// InvoiceDraftRequest body de /api/fbr/* y POST /api/invoices.
// Fechas en formato YYYY-MM-DD.
type InvoiceDraftRequest struct {
	InvoiceType           string        `json:"invoice_type"`
	IssueDate             string        `json:"issue_date,omitempty"`
	DueDate               string        `json:"due_date,omitempty"`
	Seller                PartyDTO      `json:"seller"`
	Buyer                 PartyDTO      `json:"buyer"`
	BuyerRegistrationType string        `json:"buyer_registration_type"`
	LineItems             []LineItemDTO `json:"line_items"`
	Notes                 string        `json:"notes,omitempty"`
	InvoiceRefNo          string        `json:"invoice_ref_no,omitempty"`
	ScenarioID            string        `json:"scenario_id,omitempty"`
}

// InvoiceResponse factura con líneas.
type InvoiceResponse struct {
	ID                    string          `json:"id"`
	UserID                string          `json:"user_id"`
	InvoiceType           string          `json:"invoice_type"`
	CustomerName          string          `json:"customer_name"`
	IssueDate             string          `json:"issue_date"`
	DueDate               string          `json:"due_date"`
	Status                string          `json:"status"`
	Amount                decimal.Decimal `json:"amount"`
	Notes                 string          `json:"notes,omitempty"`
	Seller                PartyDTO        `json:"seller"`
	Buyer                 PartyDTO        `json:"buyer"`
	BuyerRegistrationType string          `json:"buyer_registration_type"`
	FBRDated              string          `json:"fbr_dated,omitempty"`
	LineItems             []LineItemDTO   `json:"line_items"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UpdateInvoiceStatusRequest body de PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Paid Overdue"`
}

// ValidationResponse resultado de la validación local.
type ValidationResponse struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// SubmissionResponse resultado de POST /api/fbr/post-invoice.
// Gateway es la respuesta completa de FBR.
type SubmissionResponse struct {
	InvoiceID       string           `json:"invoice_id"`
	Mock            bool             `json:"mock"`
	AlreadyRecorded bool             `json:"already_recorded,omitempty"`
	Invoice         *InvoiceResponse `json:"invoice"`
	Gateway         any              `json:"gateway"`
}

// DryRunResponse resultado de POST /api/fbr/validate-invoice.
type DryRunResponse struct {
	Accepted bool `json:"accepted"`
	Mock     bool `json:"mock"`
	Gateway  any  `json:"gateway"`
}

// DashboardResponse contadores del usuario y sus últimas facturas.
type DashboardResponse struct {
	Stats          UserStatsDTO      `json:"stats"`
	RecentInvoices []InvoiceResponse `json:"recent_invoices"`
}
