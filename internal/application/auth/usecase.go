package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
	"github.com/jhoicas/invorya-auth/pkg/password"
)

// TokenIssuer firma tokens de sesión. Lo implementa *jwt.Manager.
type TokenIssuer interface {
	Generate(subjectID, role string) (string, time.Time, error)
}

// PasswordComparer compara en tiempo constante; CompareDummy iguala el costo cuando el email no existe.
type PasswordComparer interface {
	Compare(hash, plain string) error
	CompareDummy(plain string)
}

// AuthUseCase casos de uso de sesión: login, verificación y perfil propio.
type AuthUseCase struct {
	accounts repository.AccountRepository
	hasher   PasswordComparer
	tokens   TokenIssuer
	guard    *Guard
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(accounts repository.AccountRepository, hasher PasswordComparer, tokens TokenIssuer, guard *Guard, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, hasher: hasher, tokens: tokens, guard: guard, log: log}
}

// Login verifica email/password y emite un token.
// Email inexistente y contraseña incorrecta devuelven el mismo error tras el mismo trabajo de bcrypt.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	email := entity.NormalizeEmail(in.Email)

	account, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.hasher.CompareDummy(in.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("buscar cuenta: %w", err)
	}
	if err := uc.hasher.Compare(account.PasswordHash, in.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verificar contraseña: %w", err)
	}
	if account.Status == entity.StatusInactive {
		return nil, fmt.Errorf("%w: %w", domain.ErrForbidden, domain.ErrAccountInactive)
	}

	token, exp, err := uc.tokens.Generate(account.ID, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("emitir token: %w", err)
	}
	uc.log.Info().Str("account_id", account.ID).Str("role", string(account.Role)).Msg("login")
	return &dto.LoginResponse{
		Token:     token,
		Role:      string(account.Role),
		ExpiresAt: exp,
		Account:   *dto.NewAccountResponse(account),
	}, nil
}

// VerifySession valida el token con cualquier rol y comprueba que la cuenta siga existiendo.
func (uc *AuthUseCase) VerifySession(ctx context.Context, token string) (*dto.SessionResponse, error) {
	id, err := uc.guard.Authorize(ctx, token, entity.AllRoles...)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{AccountID: id.AccountID, Role: string(id.Role)}, nil
}

// Me devuelve el perfil de la identidad autenticada.
func (uc *AuthUseCase) Me(ctx context.Context, actor entity.Identity) (*dto.AccountResponse, error) {
	account, err := uc.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("obtener cuenta: %w", err)
	}
	return dto.NewAccountResponse(account), nil
}
