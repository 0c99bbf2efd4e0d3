package repository

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para Customer, siempre acotado al dueño.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id, ownerID string) (*entity.Customer, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id, ownerID string) error
}
