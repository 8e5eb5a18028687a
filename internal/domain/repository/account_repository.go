package repository

import (
	"context"

	"github.com/jhoicas/invorya-auth/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para Account (DIP).
//
// Create devuelve domain.ErrEmailAlreadyExists si el email ya existe; es la única
// garantía de unicidad entre peticiones concurrentes. Los Get y Delete devuelven
// domain.ErrNotFound cuando la cuenta no existe.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	UpdatePassword(ctx context.Context, id, hash string, mustChangePassword bool) (*entity.Account, error)
	UpdateFields(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Account, int, error)
	DeleteByID(ctx context.Context, id string) error
}
