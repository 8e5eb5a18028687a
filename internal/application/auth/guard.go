package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

// TokenVerifier valida un token firmado y devuelve sujeto y rol. Lo implementa *jwt.Manager.
type TokenVerifier interface {
	Parse(token string) (subjectID, role string, err error)
}

// Guard autoriza operaciones a partir de un token y un conjunto de roles requeridos.
type Guard struct {
	tokens   TokenVerifier
	accounts repository.AccountRepository
}

// NewGuard construye el guard.
func NewGuard(tokens TokenVerifier, accounts repository.AccountRepository) *Guard {
	return &Guard{tokens: tokens, accounts: accounts}
}

// Authorize devuelve la identidad del token si su rol está en required.
//
//   - domain.ErrUnauthenticated: token ausente, mal firmado o expirado.
//   - domain.ErrForbidden: token válido con un rol fuera de required.
//   - domain.ErrAccountNotFound: token válido cuya cuenta fue eliminada después de emitirlo.
//
// Sin roles requeridos se acepta cualquier rol válido.
func (g *Guard) Authorize(ctx context.Context, token string, required ...entity.Role) (*entity.Identity, error) {
	subjectID, role, err := g.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	id := entity.Identity{AccountID: subjectID, Role: entity.Role(role)}
	if !id.Role.Valid() {
		return nil, fmt.Errorf("%w: rol desconocido en el token", domain.ErrUnauthenticated)
	}
	if len(required) > 0 && !id.HasRole(required...) {
		return nil, domain.ErrForbidden
	}
	if _, err := g.accounts.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("verificar cuenta del token: %w", err)
	}
	return &id, nil
}
