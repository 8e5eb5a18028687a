package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

// ProvisioningUseCase alta de cuentas por un administrador con entrega de credenciales.
//
// Es una saga de dos fases: crear la cuenta y luego enviar la contraseña. Si el envío falla
// la cuenta se elimina; si la eliminación también falla se reporta ErrPartialFailure.
// No hay transacción entre la consulta por email y el insert: el índice único del
// repositorio decide las carreras.
type ProvisioningUseCase struct {
	accounts   repository.AccountRepository
	warehouses repository.WarehouseRepository
	hasher     PasswordHasher
	generator  SecretGenerator
	policy     StrengthChecker
	notifier   Notifier
	log        zerolog.Logger
	now        func() time.Time
}

// NewProvisioningUseCase construye el caso de uso.
func NewProvisioningUseCase(
	accounts repository.AccountRepository,
	warehouses repository.WarehouseRepository,
	hasher PasswordHasher,
	generator SecretGenerator,
	policy StrengthChecker,
	notifier Notifier,
	log zerolog.Logger,
) *ProvisioningUseCase {
	return &ProvisioningUseCase{
		accounts:   accounts,
		warehouses: warehouses,
		hasher:     hasher,
		generator:  generator,
		policy:     policy,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

// ProvisionAccount crea la cuenta en estado pending con cambio de contraseña obligatorio
// y entrega la contraseña al titular. Solo ADMIN.
func (uc *ProvisioningUseCase) ProvisionAccount(ctx context.Context, actor entity.Identity, in dto.ProvisionAccountRequest) (*dto.AccountResponse, error) {
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	// 1. validación
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Password != "" {
		if err := uc.policy.Check(in.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if in.WarehouseRef != nil {
		w, err := uc.warehouses.GetByID(ctx, *in.WarehouseRef)
		if err != nil {
			return nil, fmt.Errorf("consultar bodega: %w", err)
		}
		if w == nil {
			return nil, fmt.Errorf("%w: la bodega %s no existe", domain.ErrInvalidInput, *in.WarehouseRef)
		}
	}
	email := entity.NormalizeEmail(in.Email)
	log := uc.log.With().Str("op", "provision").Str("email", email).Str("role", in.Role).Logger()

	// 2. unicidad (optimista; el índice único tiene la última palabra en el paso 4)
	_, err := uc.accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailAlreadyExists
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("consultar email: %w", err)
	}

	// 3. contraseña temporal
	secret := in.Password
	if secret == "" {
		generated, err := uc.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("generar contraseña temporal: %w", err)
		}
		secret = generated
	}

	// 4. hash + alta
	hash, err := uc.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}
	now := uc.now().UTC()
	account := &entity.Account{
		ID:                 uuid.New().String(),
		Email:              email,
		Name:               in.Name,
		PasswordHash:       hash,
		Role:               entity.Role(in.Role),
		Status:             entity.StatusPending,
		MustChangePassword: true,
		EmployeeID:         in.EmployeeID,
		WarehouseRef:       in.WarehouseRef,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			// perdimos la carrera: no hay nada propio que deshacer
			log.Info().Msg("alta concurrente rechazada por el índice de email")
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("crear cuenta: %w", err)
	}
	log = log.With().Str("account_id", account.ID).Logger()

	// A partir de aquí la saga debe terminar aunque el cliente cancele la petición.
	ctx = context.WithoutCancel(ctx)

	// 5. entrega
	sendErr := uc.notifier.Send(ctx, account.Email, subjectWelcome,
		welcomeBody(account.Name, account.Email, string(account.Role), secret))
	if sendErr == nil {
		// 7. éxito
		log.Info().Msg("cuenta aprovisionada")
		return dto.NewAccountResponse(account), nil
	}

	// 6. compensación
	sendErr = asDeliveryError(sendErr)
	log.Warn().Err(sendErr).Msg("entrega de credenciales fallida, eliminando cuenta")
	if delErr := uc.accounts.DeleteByID(ctx, account.ID); delErr != nil {
		log.WithLevel(zerolog.FatalLevel).
			Err(delErr).
			AnErr("delivery_error", sendErr).
			Msg("FALLO PARCIAL: cuenta pendiente huérfana sin credenciales entregadas")
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrPartialFailure, account.ID)
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrProvisioningFailed, sendErr)
}

// asDeliveryError garantiza que cualquier fallo del notificador se clasifique como ErrDeliveryFailed.
func asDeliveryError(err error) error {
	if errors.Is(err, domain.ErrDeliveryFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
}
