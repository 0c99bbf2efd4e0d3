package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.SessionRepository  = (*SessionRepo)(nil)
)

// ── Customers ───────────────────────────────────────────────────────────────

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	s *Store
}

func NewCustomerRepository(s *Store) *CustomerRepo { return &CustomerRepo{s: s} }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	x := *c
	r.s.customers[c.ID] = &x
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id, ownerID string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok || c.UserID != ownerID {
		return nil, nil
	}
	x := *c
	return &x, nil
}

func (r *CustomerRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	var list []*entity.Customer
	for _, c := range r.s.customers {
		if c.UserID == ownerID {
			x := *c
			list = append(list, &x)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.customers[c.ID]
	if !ok || cur.UserID != c.UserID {
		return domain.ErrNotFound
	}
	x := *c
	x.CreatedAt = cur.CreatedAt
	r.s.customers[c.ID] = &x
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.UserID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}

// ── Products ────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct {
	s *Store
}

func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	x := *p
	r.s.products[p.ID] = &x
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id, ownerID string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.UserID != ownerID {
		return nil, nil
	}
	x := *p
	return &x, nil
}

func (r *ProductRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.UserID == ownerID {
			x := *p
			list = append(list, &x)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.UserID != p.UserID {
		return domain.ErrNotFound
	}
	x := *p
	x.CreatedAt = cur.CreatedAt
	r.s.products[p.ID] = &x
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.UserID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// ── Sessions ────────────────────────────────────────────────────────────────

// SessionRepo sesiones en memoria.
type SessionRepo struct {
	s *Store
}

func NewSessionRepository(s *Store) *SessionRepo { return &SessionRepo{s: s} }

func (r *SessionRepo) Create(_ context.Context, sess *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x := *sess
	r.s.sessions[sess.ID] = &x
	return nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	x := *sess
	return &x, nil
}

func (r *SessionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r *SessionRepo) DeleteExpired(_ context.Context, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, v := range r.s.sessions {
		if v.Expired(at) {
			delete(r.s.sessions, k)
			n++
		}
	}
	return n, nil
}
