// Package pdf genera la representación impresa de una factura registrada en FBR.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Vendedor + NTN       │  N° Factura FBR + Fechas     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENDEDOR: Dirección / Provincia / Email                     │
//	│  COMPRADOR: Nombre + NTN/CNIC + registro                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | HS | P.Unit | Tasa | Impuesto | Total │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Valor sin impuesto / Sales Tax / TOTAL             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER FBR: QR con el número de factura + estado            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/invoicing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 1, Green: 102, Blue: 56}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
// totals.Lines debe corresponder posición a posición con invoice.LineItems.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	totals invoicing.Totals,
) ([]byte, error) {
	if len(totals.Lines) != len(invoice.LineItems) {
		return nil, fmt.Errorf("pdf: %d líneas con %d totales", len(invoice.LineItems), len(totals.Lines))
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(invoice.InvoiceType+" "+invoice.ID, true).
		WithAuthor(invoice.Seller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(invoice.Seller))
	m.AddRows(buyerRow(invoice.Buyer, invoice.BuyerRegistrationType))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(invoice.LineItems, totals.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(totals))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(invoice *entity.Invoice) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(invoice.Seller.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NTN: "+nonEmpty(invoice.Seller.NTN, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(invoice.InvoiceType), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.ID, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+invoice.IssueDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Vence: "+invoice.DueDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func sellerRow(p entity.Party) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("VENDEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Provincia: %s   |   Email: %s",
				nonEmpty(p.Address, "-"),
				nonEmpty(p.Province, "-"),
				nonEmpty(p.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func buyerRow(p entity.Party, registrationType string) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NTN/CNIC: %s   |   %s   |   Provincia: %s",
				nonEmpty(p.NTN, "-"),
				nonEmpty(registrationType, "-"),
				nonEmpty(p.Province, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("HS Code", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Tasa", 1, align.Center),
		h("Sales Tax", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func tableDetailRows(items []entity.LineItem, lines []invoicing.LineTaxes) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		lt := lines[i]
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String()+" "+it.UoM,
				props.Text{Size: 7, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				nonEmpty(it.Description, "-"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.HSCode,
				props.Text{Size: 7, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.Rate,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				formatMoney(lt.SalesTax),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(lt.TotalValue),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(totals invoicing.Totals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Valor sin impuesto:"),
			label("Sales Tax:"),
			label("TOTAL:"),
		),
		col.New(3).Add(
			value("Rs. "+formatMoney(totals.NetTotal)),
			value("Rs. "+formatMoney(totals.TaxTotal)),
			grand("Rs. "+formatMoney(totals.GrandTotal)),
		),
		col.New(3),
	)
}

// footerRows: QR con el número de factura FBR; las facturas locales no llevan QR.
func footerRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN FBR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if invoice.FBRDated != "" || invoice.IsPaid() {
		rows = append(rows, row.New(40).Add(
			col.New(3).Add(code.NewQr(invoice.ID, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(9).Add(
				text.New("N° FBR: "+invoice.ID, props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3,
				}),
				text.New("Registrada: "+nonEmpty(invoice.FBRDated, "-"), props.Text{
					Size: 8, Top: 10, Left: 3, Color: colorGray,
				}),
				text.New("Estado: "+invoice.Status, props.Text{
					Size: 8, Top: 15, Left: 3, Color: colorGray,
				}),
			),
		))
	} else {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Factura local no registrada en FBR. Estado: "+invoice.Status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center,
				Color: colorPrimary, Top: 2,
			}),
		)))
	}

	if invoice.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+invoice.Notes, props.Text{Size: 7, Color: colorGray, Top: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney dos decimales con comas de miles.
// Ej: 11800 → "11,800.00", -1234567.5 → "-1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}
