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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, user_id, name, email, address, ntn, province, registration_type, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.UserID, customer.Name, nullIfEmpty(customer.Email), customer.Address,
		nullIfEmpty(customer.NTN), customer.Province, customer.RegistrationType,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del dueño.
func (r *CustomerRepo) GetByID(ctx context.Context, id, ownerID string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND user_id = $2`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// ListByOwner lista los clientes del dueño ordenados por nombre.
func (r *CustomerRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE user_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customers
		SET name = $3, email = $4, address = $5, ntn = $6, province = $7, registration_type = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`,
		customer.ID, customer.UserID, customer.Name, nullIfEmpty(customer.Email), customer.Address,
		nullIfEmpty(customer.NTN), customer.Province, customer.RegistrationType, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente del dueño.
func (r *CustomerRepo) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var email, ntn *string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &email, &c.Address, &ntn, &c.Province,
		&c.RegistrationType, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Email = derefStr(email)
	c.NTN = derefStr(ntn)
	return &c, nil
}
