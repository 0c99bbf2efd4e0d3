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

// CustomerUseCase casos de uso para clientes (precarga del comprador).
type CustomerUseCase struct {
	repo repository.CustomerRepository
	now  func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, now: time.Now}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, ownerID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := customerFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	c.ID = uuid.New().String()
	c.UserID = ownerID
	c.CreatedAt, c.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes del usuario.
func (uc *CustomerUseCase) List(ctx context.Context, ownerID string) ([]*dto.CustomerResponse, error) {
	list, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Get cliente del usuario; domain.ErrNotFound si no existe.
func (uc *CustomerUseCase) Get(ctx context.Context, ownerID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, ownerID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	existing, err := uc.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	c, err := customerFromRequest(in)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.UserID = existing.UserID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina el cliente. Las facturas emitidas no se ven afectadas.
func (uc *CustomerUseCase) Delete(ctx context.Context, ownerID, id string) error {
	return uc.repo.Delete(ctx, id, ownerID)
}

// customerFromRequest valida con las mismas reglas que el comprador de una factura.
func customerFromRequest(in dto.CustomerRequest) (*entity.Customer, error) {
	c := &entity.Customer{
		Name:             strings.TrimSpace(in.Name),
		Email:            strings.TrimSpace(in.Email),
		Address:          strings.TrimSpace(in.Address),
		NTN:              fbrcat.NormalizeNTN(in.NTN),
		Province:         fbrcat.CanonicalProvince(in.Province),
		RegistrationType: strings.TrimSpace(in.RegistrationType),
	}
	if c.RegistrationType == "" {
		c.RegistrationType = fbrcat.RegistrationUnregistered
	}

	var fields []domain.FieldError
	if c.Name == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "es obligatorio"})
	}
	if c.Address == "" {
		fields = append(fields, domain.FieldError{Field: "address", Message: "es obligatorio"})
	}
	if !fbrcat.IsKnownProvince(c.Province) {
		fields = append(fields, domain.FieldError{Field: "province", Message: "provincia desconocida"})
	}
	switch c.RegistrationType {
	case fbrcat.RegistrationRegistered:
		if c.NTN == "" {
			fields = append(fields, domain.FieldError{Field: "ntn", Message: "obligatorio para compradores registrados"})
		} else if err := fbrcat.ValidateNTN(c.NTN); err != nil {
			fields = append(fields, domain.FieldError{Field: "ntn", Message: err.Error()})
		}
	case fbrcat.RegistrationUnregistered:
		if c.NTN != "" {
			if err := fbrcat.ValidateNTN(c.NTN); err != nil {
				fields = append(fields, domain.FieldError{Field: "ntn", Message: err.Error()})
			}
		}
	default:
		fields = append(fields, domain.FieldError{Field: "registration_type", Message: "debe ser Registered o Unregistered"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return c, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Address:          c.Address,
		NTN:              c.NTN,
		Province:         c.Province,
		RegistrationType: c.RegistrationType,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
