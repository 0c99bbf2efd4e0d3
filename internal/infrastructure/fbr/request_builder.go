package fbr

import (
	"fmt"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/invoicing"
	fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// BuildInvoiceRequest aplana el borrador al formato del gateway y devuelve además
// los totales calculados (GrandTotal = Σ totalValues).
func BuildInvoiceRequest(d *entity.InvoiceDraft, today time.Time) (*InvoiceRequest, invoicing.Totals, error) {
	totals, err := invoicing.ComputeTotals(d.LineItems)
	if err != nil {
		return nil, invoicing.Totals{}, fmt.Errorf("calcular totales: %w", err)
	}

	invoiceType := d.InvoiceType
	if invoiceType == "" {
		invoiceType = fbrcat.InvoiceTypeSale
	}
	issue := d.IssueDate
	if issue.IsZero() {
		issue = today
	}

	req := &InvoiceRequest{
		InvoiceType:           invoiceType,
		InvoiceDate:           issue.Format("2006-01-02"),
		SellerNTNCNIC:         fbrcat.NormalizeNTN(d.Seller.NTN),
		SellerBusinessName:    d.Seller.Name,
		SellerProvince:        fbrcat.CanonicalProvince(d.Seller.Province),
		SellerAddress:         d.Seller.Address,
		BuyerNTNCNIC:          fbrcat.NormalizeNTN(d.Buyer.NTN),
		BuyerBusinessName:     d.Buyer.Name,
		BuyerProvince:         fbrcat.CanonicalProvince(d.Buyer.Province),
		BuyerAddress:          d.Buyer.Address,
		BuyerRegistrationType: d.BuyerRegistrationType,
		InvoiceRefNo:          d.InvoiceRefNo,
		ScenarioID:            d.ScenarioID,
		Items:                 make([]InvoiceItem, 0, len(d.LineItems)),
	}
	for i, it := range d.LineItems {
		lt := totals.Lines[i]
		saleType := it.SaleType
		if saleType == "" {
			saleType = fbrcat.DefaultSaleType
		}
		req.Items = append(req.Items, InvoiceItem{
			HSCode:                          it.HSCode,
			ProductDescription:              it.Description,
			Rate:                            fbrcat.FormatRate(lt.Rate),
			UoM:                             it.UoM,
			Quantity:                        it.Quantity.InexactFloat64(),
			TotalValues:                     lt.TotalValue.InexactFloat64(),
			ValueSalesExcludingST:           lt.ValueExclTax.InexactFloat64(),
			FixedNotifiedValueOrRetailPrice: 0,
			SalesTaxApplicable:              lt.SalesTax.InexactFloat64(),
			SalesTaxWithheldAtSource:        0,
			SaleType:                        saleType,
		})
	}
	return req, totals, nil
}
