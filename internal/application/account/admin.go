package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

// AdminUseCase consultas, cambio de estado y borrado de cuentas. Todo requiere ADMIN.
type AdminUseCase struct {
	accounts repository.AccountRepository
	log      zerolog.Logger
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(accounts repository.AccountRepository, log zerolog.Logger) *AdminUseCase {
	return &AdminUseCase{accounts: accounts, log: log}
}

// GetAccount obtiene una cuenta por ID.
func (uc *AdminUseCase) GetAccount(ctx context.Context, actor entity.Identity, id string) (*dto.AccountResponse, error) {
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	a, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "obtener cuenta")
	}
	return dto.NewAccountResponse(a), nil
}

// ListAccounts lista cuentas con paginación.
func (uc *AdminUseCase) ListAccounts(ctx context.Context, actor entity.Identity, page dto.PageRequest) (*dto.AccountListResponse, error) {
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	page.Normalize()
	list, total, err := uc.accounts.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar cuentas: %w", err)
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *dto.NewAccountResponse(a))
	}
	return &dto.AccountListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// SetStatus transición administrativa active <-> inactive. Una cuenta pending solo puede
// desactivarse; se activa cuando su titular cambia la contraseña.
func (uc *AdminUseCase) SetStatus(ctx context.Context, actor entity.Identity, id string, in dto.SetStatusRequest) (*dto.AccountResponse, error) {
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	current, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "obtener cuenta")
	}
	target := entity.AccountStatus(in.Status)
	if current.Status == entity.StatusPending && target == entity.StatusActive {
		return nil, fmt.Errorf("%w: una cuenta pendiente se activa al cambiar su contraseña", domain.ErrInvalidInput)
	}
	if current.Status == target {
		return dto.NewAccountResponse(current), nil
	}
	updated, err := uc.accounts.UpdateFields(ctx, id, entity.AccountPatch{Status: &target})
	if err != nil {
		return nil, storeErr(err, "actualizar estado")
	}
	uc.log.Info().Str("op", "set_status").Str("account_id", id).Str("status", string(target)).
		Str("actor_id", actor.AccountID).Msg("estado de cuenta actualizado")
	return dto.NewAccountResponse(updated), nil
}

// DeleteAccount borrado definitivo. Los tokens ya emitidos para la cuenta dejan de
// pasar el guard (la cuenta ya no existe) aunque su firma siga siendo válida.
func (uc *AdminUseCase) DeleteAccount(ctx context.Context, actor entity.Identity, id string) error {
	if !actor.HasRole(entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	if err := uc.accounts.DeleteByID(ctx, id); err != nil {
		return storeErr(err, "eliminar cuenta")
	}
	uc.log.Info().Str("op", "delete").Str("account_id", id).Str("actor_id", actor.AccountID).Msg("cuenta eliminada")
	return nil
}

func storeErr(err error, op string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
