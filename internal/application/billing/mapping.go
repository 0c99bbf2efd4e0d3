package billing

import (
	"strings"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// DateLayout formato de fechas en requests y respuestas.
const DateLayout = "2006-01-02"

// DraftFromRequest convierte el body HTTP en borrador. Fechas mal formadas
// se reportan como *domain.ValidationError.
func DraftFromRequest(in dto.InvoiceDraftRequest) (*entity.InvoiceDraft, error) {
	var fields []domain.FieldError
	issue, ok := parseDate(in.IssueDate)
	if !ok {
		fields = append(fields, domain.FieldError{Field: "issue_date", Message: "fecha inválida, use YYYY-MM-DD"})
	}
	due, ok := parseDate(in.DueDate)
	if !ok {
		fields = append(fields, domain.FieldError{Field: "due_date", Message: "fecha inválida, use YYYY-MM-DD"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	d := &entity.InvoiceDraft{
		InvoiceType:           strings.TrimSpace(in.InvoiceType),
		IssueDate:             issue,
		DueDate:               due,
		Seller:                partyFromDTO(in.Seller),
		Buyer:                 partyFromDTO(in.Buyer),
		BuyerRegistrationType: strings.TrimSpace(in.BuyerRegistrationType),
		LineItems:             make([]entity.LineItem, 0, len(in.LineItems)),
		Notes:                 in.Notes,
		InvoiceRefNo:          strings.TrimSpace(in.InvoiceRefNo),
		ScenarioID:            strings.TrimSpace(in.ScenarioID),
	}
	for i, it := range in.LineItems {
		d.LineItems = append(d.LineItems, entity.LineItem{
			Position:    i + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			HSCode:      strings.TrimSpace(it.HSCode),
			Rate:        strings.TrimSpace(it.Rate),
			UoM:         strings.TrimSpace(it.UoM),
			SaleType:    strings.TrimSpace(it.SaleType),
		})
	}
	return d, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func partyFromDTO(p dto.PartyDTO) entity.Party {
	return entity.Party{
		Name:     strings.TrimSpace(p.Name),
		Address:  strings.TrimSpace(p.Address),
		Email:    strings.TrimSpace(p.Email),
		NTN:      strings.TrimSpace(p.NTN),
		Province: strings.TrimSpace(p.Province),
	}
}

func partyToDTO(p entity.Party) dto.PartyDTO {
	return dto.PartyDTO{Name: p.Name, Address: p.Address, Email: p.Email, NTN: p.NTN, Province: p.Province}
}

// ToInvoiceResponse mapea la entidad a su DTO.
func ToInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}
	items := make([]dto.LineItemDTO, 0, len(inv.LineItems))
	for _, it := range inv.LineItems {
		items = append(items, dto.LineItemDTO{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
			HSCode:      it.HSCode,
			Rate:        it.Rate,
			UoM:         it.UoM,
			SaleType:    it.SaleType,
		})
	}
	return &dto.InvoiceResponse{
		ID:                    inv.ID,
		UserID:                inv.UserID,
		InvoiceType:           inv.InvoiceType,
		CustomerName:          inv.CustomerName,
		IssueDate:             inv.IssueDate.Format(DateLayout),
		DueDate:               inv.DueDate.Format(DateLayout),
		Status:                inv.Status,
		Amount:                inv.Amount,
		Notes:                 inv.Notes,
		Seller:                partyToDTO(inv.Seller),
		Buyer:                 partyToDTO(inv.Buyer),
		BuyerRegistrationType: inv.BuyerRegistrationType,
		FBRDated:              inv.FBRDated,
		LineItems:             items,
		CreatedAt:             inv.CreatedAt,
		UpdatedAt:             inv.UpdatedAt,
	}
}

// ToStatsDTO mapea contadores.
func ToStatsDTO(s entity.UserStats) dto.UserStatsDTO {
	return dto.UserStatsDTO{
		InvoiceCount:  s.InvoiceCount,
		PaidAmount:    s.PaidAmount,
		PendingAmount: s.PendingAmount,
	}
}

// ToFieldErrors mapea errores de validación de dominio.
func ToFieldErrors(fields []domain.FieldError) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, dto.FieldError{Field: f.Field, Message: f.Message})
	}
	return out
}
