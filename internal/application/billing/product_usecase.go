package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// ProductUseCase casos de uso para el catálogo de productos del usuario.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create crea un producto; rate y uom toman los valores por defecto de FBR si vienen vacíos.
func (uc *ProductUseCase) Create(ctx context.Context, ownerID string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := productFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	p.ID = uuid.New().String()
	p.UserID = ownerID
	p.CreatedAt, p.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List productos del usuario.
func (uc *ProductUseCase) List(ctx context.Context, ownerID string) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Get producto del usuario.
func (uc *ProductUseCase) Get(ctx context.Context, ownerID, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Update reemplaza los datos del producto.
func (uc *ProductUseCase) Update(ctx context.Context, ownerID, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	p, err := productFromRequest(in)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Delete elimina el producto.
func (uc *ProductUseCase) Delete(ctx context.Context, ownerID, id string) error {
	return uc.repo.Delete(ctx, id, ownerID)
}

func productFromRequest(in dto.ProductRequest) (*entity.Product, error) {
	p := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		UnitPrice:   in.UnitPrice,
		HSCode:      strings.TrimSpace(in.HSCode),
		Rate:        strings.TrimSpace(in.Rate),
		UoM:         strings.TrimSpace(in.UoM),
	}
	if p.Rate == "" {
		p.Rate = fbrcat.DefaultRate
	}
	if p.UoM == "" {
		p.UoM = fbrcat.DefaultUoM
	}

	var fields []domain.FieldError
	if p.Name == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "es obligatorio"})
	}
	if p.HSCode == "" {
		fields = append(fields, domain.FieldError{Field: "hs_code", Message: "es obligatorio"})
	}
	if p.UnitPrice.IsNegative() {
		fields = append(fields, domain.FieldError{Field: "unit_price", Message: "no puede ser negativo"})
	}
	if _, err := fbrcat.ParseRate(p.Rate); err != nil {
		fields = append(fields, domain.FieldError{Field: "rate", Message: err.Error()})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return p, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		HSCode:      p.HSCode,
		Rate:        p.Rate,
		UoM:         p.UoM,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
