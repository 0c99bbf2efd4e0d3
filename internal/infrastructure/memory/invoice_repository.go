package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"

	"github.com/google/uuid"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct {
	s    *Store
	undo *undoLog
}

// NewInvoiceRepository construye el repo sobre el store.
func NewInvoiceRepository(s *Store) *InvoiceRepo {
	return &InvoiceRepo{s: s}
}

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.failNextCreate; err != nil {
		r.s.failNextCreate = nil
		return err
	}
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if _, ok := r.s.invoices[invoice.ID]; ok {
		return fmt.Errorf("invoice %s: %w", invoice.ID, domain.ErrDuplicate)
	}
	if _, ok := r.s.users[invoice.UserID]; !ok {
		return fmt.Errorf("invoice owner %s: %w", invoice.UserID, domain.ErrUserNotFound)
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = now()
	}
	if invoice.UpdatedAt.IsZero() {
		invoice.UpdatedAt = invoice.CreatedAt
	}
	for i := range invoice.LineItems {
		it := &invoice.LineItems[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.InvoiceID = invoice.ID
		it.Position = i + 1
	}
	r.undo.touchInvoice(r.s, invoice.ID)
	r.s.invoices[invoice.ID] = &storedInvoice{inv: cloneInvoice(invoice), seq: r.s.nextSeq()}
	return nil
}

func (r *InvoiceRepo) List(_ context.Context, filter repository.InvoiceFilter, page, limit int) (*repository.InvoicePage, error) {
	page, limit = repository.NormalizePage(page, limit)
	offset := (page - 1) * limit

	r.s.mu.RLock()
	var matched []*storedInvoice
	for _, si := range r.s.invoices {
		if matches(si.inv, filter) {
			matched = append(matched, si)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.inv.CreatedAt.Equal(b.inv.CreatedAt) {
			return a.inv.CreatedAt.After(b.inv.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := len(matched)
	items := make([]*entity.Invoice, 0, limit)
	for i := offset; i < total && i < offset+limit; i++ {
		items = append(items, cloneInvoice(matched[i].inv))
	}
	return &repository.InvoicePage{
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: offset+limit < total,
	}, nil
}

func matches(inv *entity.Invoice, f repository.InvoiceFilter) bool {
	if inv.UserID != f.UserID {
		return false
	}
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	if f.From != nil && inv.IssueDate.Before(*f.From) {
		return false
	}
	if f.To != nil && inv.IssueDate.After(*f.To) {
		return false
	}
	return true
}

func (r *InvoiceRepo) GetByID(_ context.Context, id, ownerID string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	si, ok := r.s.invoices[id]
	if !ok || (ownerID != "" && si.inv.UserID != ownerID) {
		return nil, nil
	}
	return cloneInvoice(si.inv), nil
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, id, status, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	si, ok := r.s.invoices[id]
	if !ok || (ownerID != "" && si.inv.UserID != ownerID) {
		return domain.ErrNotFound
	}
	r.undo.touchInvoice(r.s, id)
	si.inv.Status = status
	si.inv.UpdatedAt = now()
	return nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	si, ok := r.s.invoices[id]
	if !ok || (ownerID != "" && si.inv.UserID != ownerID) {
		return domain.ErrNotFound
	}
	r.undo.touchInvoice(r.s, id)
	delete(r.s.invoices, id)
	return nil
}
