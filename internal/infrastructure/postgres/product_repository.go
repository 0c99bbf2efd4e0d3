package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"

	"github.com/jackc/pgx/v5"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, user_id, name, description, unit_price, hs_code, rate, uom, created_at, updated_at`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.UserID, p.Name, nullIfEmpty(p.Description), p.UnitPrice, p.HSCode, p.Rate, p.UoM,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del dueño.
func (r *ProductRepo) GetByID(ctx context.Context, id, ownerID string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND user_id = $2`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByOwner lista los productos del dueño ordenados por nombre.
func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza los datos del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET name = $3, description = $4, unit_price = $5, hs_code = $6, rate = $7, uom = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`,
		p.ID, p.UserID, p.Name, nullIfEmpty(p.Description), p.UnitPrice, p.HSCode, p.Rate, p.UoM, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto del dueño.
func (r *ProductRepo) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var desc *string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &desc, &p.UnitPrice, &p.HSCode, &p.Rate, &p.UoM,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = derefStr(desc)
	return &p, nil
}
