package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, user_id, invoice_type, customer_name, issue_date, due_date, status, amount, notes,
	seller_name, seller_address, seller_email, seller_ntn, seller_province,
	buyer_name, buyer_address, buyer_email, buyer_ntn, buyer_province, buyer_registration_type,
	fbr_dated, created_at, updated_at`

// Create persiste cabecera y líneas en una sola transacción (savepoint si q ya es una tx).
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin invoice insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err = tx.Exec(ctx, query,
		invoice.ID, invoice.UserID, invoice.InvoiceType, invoice.CustomerName,
		invoice.IssueDate, invoice.DueDate, invoice.Status, invoice.Amount, nullIfEmpty(invoice.Notes),
		invoice.Seller.Name, invoice.Seller.Address, nullIfEmpty(invoice.Seller.Email), invoice.Seller.NTN, invoice.Seller.Province,
		invoice.Buyer.Name, nullIfEmpty(invoice.Buyer.Address), nullIfEmpty(invoice.Buyer.Email), nullIfEmpty(invoice.Buyer.NTN),
		invoice.Buyer.Province, invoice.BuyerRegistrationType,
		nullIfEmpty(invoice.FBRDated), invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice %s: %w", invoice.ID, domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("invoice owner %s: %w", invoice.UserID, domain.ErrUserNotFound)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	if len(invoice.LineItems) > 0 {
		const itemQuery = `
			INSERT INTO invoice_items (id, invoice_id, position, description, quantity, unit_price, total, hs_code, rate, uom, sale_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		batch := &pgx.Batch{}
		for i := range invoice.LineItems {
			it := &invoice.LineItems[i]
			if it.ID == "" {
				it.ID = uuid.New().String()
			}
			it.InvoiceID = invoice.ID
			it.Position = i + 1
			batch.Queue(itemQuery,
				it.ID, it.InvoiceID, it.Position, nullIfEmpty(it.Description), it.Quantity, it.UnitPrice,
				it.Total, it.HSCode, it.Rate, it.UoM, it.SaleType,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range invoice.LineItems {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert invoice item: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert invoice items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit invoice insert: %w", err)
	}
	return nil
}

// List devuelve una página de facturas del dueño, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter, page, limit int) (*repository.InvoicePage, error) {
	page, limit = repository.NormalizePage(page, limit)
	offset := (page - 1) * limit

	conds := []string{"user_id = $1"}
	args := []any{filter.UserID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("issue_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("issue_date <= $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM invoices%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Invoice, 0, limit)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadItems(ctx, items); err != nil {
		return nil, err
	}
	return &repository.InvoicePage{
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: offset+limit < total,
	}, nil
}

// GetByID obtiene la factura completa con sus líneas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id, ownerID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND ($2 = '' OR user_id = $2)`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateStatus cambia el estado de la factura.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status, ownerID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1 AND ($3 = '' OR user_id = $3)`,
		id, status, ownerID)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la factura; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND ($2 = '' OR user_id = $2)`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) loadItems(ctx context.Context, invoices []*entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Invoice, len(invoices))
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, position, description, quantity, unit_price, total, hs_code, rate, uom, sale_type
		FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY invoice_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.LineItem
		var desc *string
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &desc, &it.Quantity, &it.UnitPrice,
			&it.Total, &it.HSCode, &it.Rate, &it.UoM, &it.SaleType); err != nil {
			return fmt.Errorf("scan invoice item: %w", err)
		}
		it.Description = derefStr(desc)
		if inv := byID[it.InvoiceID]; inv != nil {
			inv.LineItems = append(inv.LineItems, it)
		}
	}
	return rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var notes, sellerEmail, buyerAddress, buyerEmail, buyerNTN, dated *string
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceType, &inv.CustomerName, &inv.IssueDate, &inv.DueDate,
		&inv.Status, &inv.Amount, &notes,
		&inv.Seller.Name, &inv.Seller.Address, &sellerEmail, &inv.Seller.NTN, &inv.Seller.Province,
		&inv.Buyer.Name, &buyerAddress, &buyerEmail, &buyerNTN, &inv.Buyer.Province, &inv.BuyerRegistrationType,
		&dated, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Notes = derefStr(notes)
	inv.Seller.Email = derefStr(sellerEmail)
	inv.Buyer.Address = derefStr(buyerAddress)
	inv.Buyer.Email = derefStr(buyerEmail)
	inv.Buyer.NTN = derefStr(buyerNTN)
	inv.FBRDated = derefStr(dated)
	return &inv, nil
}
