package invoicing

import (
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineTaxes desglose fiscal de una línea tal como lo espera el gateway.
type LineTaxes struct {
	Rate         decimal.Decimal // porcentaje, p. ej. 18
	ValueExclTax decimal.Decimal // unitPrice × quantity
	SalesTax     decimal.Decimal // ValueExclTax × Rate/100
	TotalValue   decimal.Decimal // ValueExclTax + SalesTax
}

// Totals totales de la factura. GrandTotal = Σ TotalValue.
type Totals struct {
	Lines      []LineTaxes
	NetTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeLine calcula el desglose de una línea redondeando al centavo.
func ComputeLine(it entity.LineItem) (LineTaxes, error) {
	rate, err := fbrcat.ParseRate(it.Rate)
	if err != nil {
		return LineTaxes{}, err
	}
	value := LineTotal(it)
	tax := value.Mul(rate).Div(hundred).Round(2)
	return LineTaxes{
		Rate:         rate,
		ValueExclTax: value,
		SalesTax:     tax,
		TotalValue:   value.Add(tax),
	}, nil
}

// ComputeTotals calcula todas las líneas y los totales de cabecera.
func ComputeTotals(items []entity.LineItem) (Totals, error) {
	t := Totals{Lines: make([]LineTaxes, 0, len(items))}
	for i, it := range items {
		lt, err := ComputeLine(it)
		if err != nil {
			return Totals{}, fmt.Errorf("línea %d: %w", i+1, err)
		}
		t.Lines = append(t.Lines, lt)
		t.NetTotal = t.NetTotal.Add(lt.ValueExclTax)
		t.TaxTotal = t.TaxTotal.Add(lt.SalesTax)
		t.GrandTotal = t.GrandTotal.Add(lt.TotalValue)
	}
	return t, nil
}
