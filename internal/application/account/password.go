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
	"github.com/jhoicas/invorya-auth/pkg/password"
)

// maxSecretAttempts intentos para obtener una contraseña temporal distinta de la vigente.
const maxSecretAttempts = 5

// PasswordUseCase ciclo de vida de contraseñas: restablecimiento administrativo y cambio por el titular.
type PasswordUseCase struct {
	accounts  repository.AccountRepository
	tx        TxRunner
	hasher    PasswordHasher
	generator SecretGenerator
	policy    StrengthChecker
	notifier  Notifier
	log       zerolog.Logger
}

// NewPasswordUseCase construye el caso de uso.
func NewPasswordUseCase(
	accounts repository.AccountRepository,
	tx TxRunner,
	hasher PasswordHasher,
	generator SecretGenerator,
	policy StrengthChecker,
	notifier Notifier,
	log zerolog.Logger,
) *PasswordUseCase {
	return &PasswordUseCase{
		accounts:  accounts,
		tx:        tx,
		hasher:    hasher,
		generator: generator,
		policy:    policy,
		notifier:  notifier,
		log:       log,
	}
}

// ResetPassword asigna una contraseña temporal nueva y la entrega. Solo ADMIN.
//
// Misma disciplina que el alta: si la entrega falla se restauran el hash y la bandera
// anteriores (la cuenta ya existía, no se borra). El estado active/inactive no cambia.
func (uc *PasswordUseCase) ResetPassword(ctx context.Context, actor entity.Identity, accountID string) error {
	if !actor.HasRole(entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("obtener cuenta: %w", err)
	}
	log := uc.log.With().Str("op", "reset_password").Str("account_id", account.ID).Logger()

	secret, err := uc.freshSecret(account.PasswordHash)
	if err != nil {
		return err
	}
	hash, err := uc.hasher.Hash(secret)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}
	if _, err := uc.accounts.UpdatePassword(ctx, account.ID, hash, true); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("guardar contraseña: %w", err)
	}

	ctx = context.WithoutCancel(ctx)

	sendErr := uc.notifier.Send(ctx, account.Email, subjectReset, resetBody(account.Name, secret))
	if sendErr == nil {
		log.Info().Msg("contraseña restablecida")
		return nil
	}

	sendErr = asDeliveryError(sendErr)
	log.Warn().Err(sendErr).Msg("entrega de contraseña fallida, restaurando la anterior")
	if _, revertErr := uc.accounts.UpdatePassword(ctx, account.ID, account.PasswordHash, account.MustChangePassword); revertErr != nil {
		log.WithLevel(zerolog.FatalLevel).
			Err(revertErr).
			AnErr("delivery_error", sendErr).
			Msg("FALLO PARCIAL: contraseña temporal guardada pero nunca entregada")
		return fmt.Errorf("%w: cuenta %s", domain.ErrPartialFailure, account.ID)
	}
	return sendErr
}

// freshSecret genera una contraseña temporal que no coincida con el hash vigente.
func (uc *PasswordUseCase) freshSecret(currentHash string) (string, error) {
	for i := 0; i < maxSecretAttempts; i++ {
		secret, err := uc.generator.Generate()
		if err != nil {
			return "", fmt.Errorf("generar contraseña temporal: %w", err)
		}
		err = uc.hasher.Compare(currentHash, secret)
		if errors.Is(err, password.ErrMismatch) {
			return secret, nil
		}
		if err != nil {
			return "", fmt.Errorf("comparar contraseña temporal: %w", err)
		}
	}
	return "", fmt.Errorf("no se obtuvo una contraseña distinta de la vigente tras %d intentos", maxSecretAttempts)
}

// ChangePassword cambio por el propio titular: verifica la actual, aplica la política,
// limpia mustChangePassword y activa una cuenta pending.
// Los tokens emitidos antes del cambio siguen siendo válidos hasta expirar.
func (uc *PasswordUseCase) ChangePassword(ctx context.Context, actor entity.Identity, accountID string, in dto.ChangePasswordRequest) (*dto.AccountResponse, error) {
	if actor.AccountID != accountID {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("obtener cuenta: %w", err)
	}
	if err := uc.hasher.Compare(account.PasswordHash, in.CurrentPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("verificar contraseña: %w", err)
	}
	if in.NewPassword == in.CurrentPassword {
		return nil, fmt.Errorf("%w: la nueva contraseña debe ser distinta de la actual", domain.ErrInvalidInput)
	}
	if err := uc.policy.Check(in.NewPassword); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}
	// el hash nuevo y la activación se confirman juntos
	var updated *entity.Account
	err = uc.tx.RunInTx(ctx, func(accounts repository.AccountRepository) error {
		u, err := accounts.UpdatePassword(ctx, account.ID, hash, false)
		if err != nil {
			return fmt.Errorf("guardar contraseña: %w", err)
		}
		if u.Status == entity.StatusPending {
			active := entity.StatusActive
			if u, err = accounts.UpdateFields(ctx, account.ID, entity.AccountPatch{Status: &active}); err != nil {
				return fmt.Errorf("activar cuenta: %w", err)
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("op", "change_password").Str("account_id", account.ID).Msg("contraseña cambiada")
	return dto.NewAccountResponse(updated), nil
}
