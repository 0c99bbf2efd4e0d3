package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/invoicing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

// PDFUseCase genera la representación impresa de una factura registrada.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator}
}

// DownloadInvoicePDF recupera la factura del dueño, recalcula el desglose fiscal
// de sus líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o es de otro usuario.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	ownerID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID, ownerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	totals, err := invoicing.ComputeTotals(inv.LineItems)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: totales: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, totals)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = "invoice_" + safeFilename(inv.ID) + ".pdf"
	return pdfBytes, filename, nil
}

func safeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
