package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repo sobre el store.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTakenLocked(user.Email, "") {
		return domain.ErrEmailAlreadyExists
	}
	if _, ok := r.s.users[user.ID]; ok {
		return domain.ErrDuplicate
	}
	u := *user
	r.s.users[user.ID] = &u
	return nil
}

func (r *UserRepo) emailTakenLocked(email, exceptID string) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, id, name, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTakenLocked(email, id) {
		return domain.ErrEmailAlreadyExists
	}
	u.Name = name
	u.Email = email
	return nil
}

func (r *UserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		t := at
		u.LastLogin = &t
	}
	return nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	list := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		list = append(list, &c)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		return list[i].RegistrationDate.After(list[j].RegistrationDate)
	})
	return list, nil
}

// Delete elimina al usuario y, en cascada, todo lo que posee.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	for k, v := range r.s.sessions {
		if v.UserID == id {
			delete(r.s.sessions, k)
		}
	}
	for k, v := range r.s.customers {
		if v.UserID == id {
			delete(r.s.customers, k)
		}
	}
	for k, v := range r.s.products {
		if v.UserID == id {
			delete(r.s.products, k)
		}
	}
	for k, v := range r.s.invoices {
		if v.inv.UserID == id {
			delete(r.s.invoices, k)
		}
	}
	return nil
}

func (r *UserRepo) CountByRole(_ context.Context, role string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
