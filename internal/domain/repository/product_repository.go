package repository

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product, siempre acotado al dueño.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id, ownerID string) (*entity.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id, ownerID string) error
}
