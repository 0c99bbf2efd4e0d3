// Package invoicing contiene las reglas de dominio de una factura FBR:
// validación del borrador y cálculo de totales por línea.
package invoicing

import (
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"

	"github.com/shopspring/decimal"
)

// Rangos que admite el almacenamiento: NUMERIC(18,4) para cantidad y precio
// unitario, NUMERIC(18,2) para importes.
const MaxLineScale = 4

var (
	maxLineValue = decimal.New(1, 14) // cantidad y precio unitario, exclusivo
	maxAmount    = decimal.New(1, 16) // totales de línea y de factura, exclusivo
)

// ValidationResult resultado de Validate; sin errores significa que pasa.
type ValidationResult struct {
	Errors []domain.FieldError
}

// Valid indica si el borrador pasó la validación.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Err devuelve *domain.ValidationError o nil si es válido.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &domain.ValidationError{Fields: r.Errors}
}

func (r *ValidationResult) add(field, format string, args ...any) {
	r.Errors = append(r.Errors, domain.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate valida el borrador sin mutarlo. Es determinista: dos llamadas sobre el
// mismo borrador devuelven el mismo resultado.
func Validate(d *entity.InvoiceDraft) ValidationResult {
	var r ValidationResult
	if d == nil {
		r.add("invoice", "borrador requerido")
		return r
	}

	if d.InvoiceType != "" && !fbrcat.ValidInvoiceTypes[d.InvoiceType] {
		r.add("invoice_type", "tipo de factura no soportado: %q", d.InvoiceType)
	}
	if d.InvoiceType == fbrcat.InvoiceTypeDebitNote && d.InvoiceRefNo == "" {
		r.add("invoice_ref_no", "la nota débito requiere la factura de referencia")
	}
	if !d.DueDate.IsZero() && !d.IssueDate.IsZero() && d.DueDate.Before(d.IssueDate) {
		r.add("due_date", "la fecha de vencimiento no puede ser anterior a la de emisión")
	}

	// Vendedor
	if d.Seller.Name == "" {
		r.add("seller.name", "requerido")
	}
	if d.Seller.Address == "" {
		r.add("seller.address", "requerido")
	}
	validateProvince(&r, "seller.province", d.Seller.Province)
	if err := fbrcat.ValidateNTN(d.Seller.NTN); err != nil {
		r.add("seller.ntn", "NTN/CNIC debe tener entre %d y %d caracteres", fbrcat.NTNMinLength, fbrcat.NTNMaxLength)
	}

	// Comprador
	if d.Buyer.Name == "" {
		r.add("buyer.name", "requerido")
	}
	validateProvince(&r, "buyer.province", d.Buyer.Province)
	switch d.BuyerRegistrationType {
	case fbrcat.RegistrationRegistered:
		if fbrcat.NormalizeNTN(d.Buyer.NTN) == "" {
			r.add("buyer.ntn", "requerido para compradores registrados")
		} else if err := fbrcat.ValidateNTN(d.Buyer.NTN); err != nil {
			r.add("buyer.ntn", "NTN/CNIC debe tener entre %d y %d caracteres", fbrcat.NTNMinLength, fbrcat.NTNMaxLength)
		}
	case fbrcat.RegistrationUnregistered:
		if fbrcat.NormalizeNTN(d.Buyer.NTN) != "" {
			if err := fbrcat.ValidateNTN(d.Buyer.NTN); err != nil {
				r.add("buyer.ntn", "NTN/CNIC debe tener entre %d y %d caracteres", fbrcat.NTNMinLength, fbrcat.NTNMaxLength)
			}
		}
	default:
		r.add("buyer_registration_type", "debe ser %q o %q", fbrcat.RegistrationRegistered, fbrcat.RegistrationUnregistered)
	}

	// Líneas
	if len(d.LineItems) == 0 {
		r.add("line_items", "la factura debe tener al menos una línea")
		return r
	}
	linesOK := true
	for i, it := range d.LineItems {
		p := fmt.Sprintf("line_items[%d]", i)
		before := len(r.Errors)
		if !it.Quantity.IsPositive() {
			r.add(p+".quantity", "debe ser mayor que cero")
		} else {
			validateMagnitude(&r, p+".quantity", it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			r.add(p+".unit_price", "no puede ser negativo")
		} else {
			validateMagnitude(&r, p+".unit_price", it.UnitPrice)
		}
		if it.HSCode == "" {
			r.add(p+".hs_code", "requerido")
		}
		if it.Rate == "" {
			r.add(p+".rate", "requerido")
		} else if _, err := fbrcat.ParseRate(it.Rate); err != nil {
			r.add(p+".rate", "tasa inválida %q", it.Rate)
		}
		if it.UoM == "" {
			r.add(p+".uom", "requerido")
		}
		if len(r.Errors) > before {
			linesOK = false
		}
	}
	if linesOK {
		validateAmounts(&r, d.LineItems)
	}
	return r
}

func validateMagnitude(r *ValidationResult, field string, v decimal.Decimal) {
	if !v.Equal(v.Truncate(MaxLineScale)) {
		r.add(field, "admite como máximo %d decimales", MaxLineScale)
	}
	if v.GreaterThanOrEqual(maxLineValue) {
		r.add(field, "debe ser menor que %s", maxLineValue.String())
	}
}

// validateAmounts comprueba que cada total de línea y el total de la factura
// caben en NUMERIC(18,2).
func validateAmounts(r *ValidationResult, items []entity.LineItem) {
	totals, err := ComputeTotals(items)
	if err != nil {
		return
	}
	for i, lt := range totals.Lines {
		if lt.TotalValue.GreaterThanOrEqual(maxAmount) {
			r.add(fmt.Sprintf("line_items[%d]", i), "el total de la línea excede %s", maxAmount.String())
		}
	}
	if totals.GrandTotal.GreaterThanOrEqual(maxAmount) {
		r.add("line_items", "el total de la factura excede %s", maxAmount.String())
	}
}

func validateProvince(r *ValidationResult, field, province string) {
	if province == "" {
		r.add(field, "requerido")
		return
	}
	if !fbrcat.IsKnownProvince(province) {
		r.add(field, "provincia desconocida %q", province)
	}
}

// LineTotal Quantity × UnitPrice redondeado al centavo.
func LineTotal(it entity.LineItem) decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice).Round(2)
}
