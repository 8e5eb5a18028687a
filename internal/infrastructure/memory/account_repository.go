package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación en memoria de AccountRepository (desarrollo y pruebas).
// Aplica la misma restricción de unicidad de email que el índice de PostgreSQL.
type AccountRepo struct {
	mu      sync.RWMutex
	byID    map[string]*entity.Account
	byEmail map[string]string
}

// NewAccountRepository construye el repositorio vacío.
func NewAccountRepository() *AccountRepo {
	return &AccountRepo{
		byID:    make(map[string]*entity.Account),
		byEmail: make(map[string]string),
	}
}

// Create inserta la cuenta o devuelve domain.ErrEmailAlreadyExists.
func (r *AccountRepo) Create(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[account.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	c := clone(account)
	r.byID[c.ID] = c
	r.byEmail[c.Email] = c.ID
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(a), nil
}

// GetByEmail obtiene una cuenta por email normalizado.
func (r *AccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

// UpdatePassword reemplaza hash y bandera de cambio obligatorio.
func (r *AccountRepo) UpdatePassword(_ context.Context, id, hash string, mustChangePassword bool) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.PasswordHash = hash
	a.MustChangePassword = mustChangePassword
	a.UpdatedAt = time.Now().UTC()
	return clone(a), nil
}

// UpdateFields aplica un parche parcial.
func (r *AccountRepo) UpdateFields(_ context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(a)
	a.UpdatedAt = time.Now().UTC()
	return clone(a), nil
}

// List devuelve cuentas ordenadas por fecha de creación descendente y el total.
func (r *AccountRepo) List(_ context.Context, limit, offset int) ([]*entity.Account, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*entity.Account, 0, len(r.byID))
	for _, a := range r.byID {
		all = append(all, clone(a))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	if offset >= total {
		return []*entity.Account{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// DeleteByID borra la cuenta sin dejar rastro.
func (r *AccountRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byEmail, a.Email)
	delete(r.byID, id)
	return nil
}

func clone(a *entity.Account) *entity.Account {
	c := *a
	if a.EmployeeID != nil {
		v := *a.EmployeeID
		c.EmployeeID = &v
	}
	if a.WarehouseRef != nil {
		v := *a.WarehouseRef
		c.WarehouseRef = &v
	}
	return &c
}
