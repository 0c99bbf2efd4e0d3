package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusPending = "Pending"
	InvoiceStatusPaid    = "Paid"
	InvoiceStatusOverdue = "Overdue"
)

// ValidInvoiceStatuses estados admitidos por UpdateStatus.
var ValidInvoiceStatuses = map[string]bool{
	InvoiceStatusPending: true,
	InvoiceStatusPaid:    true,
	InvoiceStatusOverdue: true,
}

// Party datos de vendedor o comprador embebidos en la factura.
type Party struct {
	Name     string
	Address  string
	Email    string
	NTN      string // NTN o CNIC
	Province string
}

// LineItem línea de factura. Total = Quantity × UnitPrice (sin impuesto).
type LineItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	HSCode      string
	Rate        string // porcentaje textual, p. ej. "18%"
	UoM         string
	SaleType    string
}

// Invoice cabecera de factura con sus líneas. Amount es el gran total con impuesto.
type Invoice struct {
	ID                    string
	UserID                string
	InvoiceType           string
	CustomerName          string
	IssueDate             time.Time
	DueDate               time.Time
	Status                string
	Amount                decimal.Decimal
	Notes                 string
	Seller                Party
	Buyer                 Party
	BuyerRegistrationType string
	FBRDated              string // marca de tiempo devuelta por el gateway
	LineItems             []LineItem
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsPaid indica si el monto cuenta en paidAmount.
func (i *Invoice) IsPaid() bool { return i.Status == InvoiceStatusPaid }

// IsOutstanding indica si el monto cuenta en pendingAmount (Pending u Overdue).
func (i *Invoice) IsOutstanding() bool {
	return i.Status == InvoiceStatusPending || i.Status == InvoiceStatusOverdue
}

// InvoiceDraft factura compuesta por el usuario, aún no enviada.
type InvoiceDraft struct {
	InvoiceType           string
	IssueDate             time.Time
	DueDate               time.Time
	Seller                Party
	Buyer                 Party
	BuyerRegistrationType string
	LineItems             []LineItem
	Notes                 string
	InvoiceRefNo          string // requerido por FBR solo para Debit Note
	ScenarioID            string // escenarios del sandbox (SN001...)
}
