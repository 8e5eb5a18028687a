package account_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
)

func provisionRequest(email string, role entity.Role) dto.ProvisionAccountRequest {
	return dto.ProvisionAccountRequest{Email: email, Name: "Pat", Role: string(role)}
}

func TestProvisionAccount_Exito(t *testing.T) {
	f := newFixture(t, newSpyRepo())
	ctx := context.Background()

	resp, err := f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("  Pat@Acme.com ", entity.RoleWarehouseManager))
	require.NoError(t, err)
	assert.Equal(t, "pat@acme.com", resp.Email)
	assert.Equal(t, string(entity.StatusPending), resp.Status)
	assert.True(t, resp.MustChangePassword)

	stored, err := f.repo.GetByEmail(ctx, "pat@acme.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWarehouseManager, stored.Role)

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, "pat@acme.com", f.notifier.sent[0].To)
	secret := f.notifier.lastSecret(t)
	assert.NoError(t, testPolicy.Check(secret))
	assert.NotContains(t, stored.PasswordHash, secret)
}

// La contraseña temporal entregada permite iniciar sesión; la cuenta sigue exigiendo el cambio.
func TestProvisionAccount_LoginConContraseñaTemporal(t *testing.T) {
	f := newFixture(t, newSpyRepo())
	ctx := context.Background()

	_, err := f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("pat@acme.com", entity.RoleWarehouseManager))
	require.NoError(t, err)

	login, err := f.auth.Login(ctx, dto.LoginRequest{Email: "pat@acme.com", Password: f.notifier.lastSecret(t)})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleWarehouseManager), login.Role)
	assert.True(t, login.Account.MustChangePassword)
	assert.NotEmpty(t, login.Token)
}

func TestProvisionAccount_EntregaFallidaEliminaLaCuenta(t *testing.T) {
	repo := newSpyRepo()
	f := newFixture(t, repo)
	f.notifier.err = errors.New("smtp: conexión rechazada")
	ctx := context.Background()

	_, err := f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("pat@acme.com", entity.RoleWarehouseManager))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvisioningFailed)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.NotErrorIs(t, err, domain.ErrPartialFailure)

	_, err = f.repo.GetByEmail(ctx, "pat@acme.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int32(1), repo.deletes.Load())

	// el email queda libre para un nuevo intento
	f.notifier.err = nil
	_, err = f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("pat@acme.com", entity.RoleWarehouseManager))
	assert.NoError(t, err)
}

func TestProvisionAccount_FalloParcial(t *testing.T) {
	repo := newSpyRepo()
	repo.deleteErr = errors.New("db: conexión perdida")
	f := newFixture(t, repo)
	f.notifier.err = errors.New("smtp caído")
	ctx := context.Background()

	_, err := f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("pat@acme.com", entity.RoleProcurementOfficer))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPartialFailure)
	assert.NotErrorIs(t, err, domain.ErrProvisioningFailed)

	// la cuenta huérfana sigue ahí y el incidente queda en el log con nivel fatal
	_, err = f.repo.GetByEmail(ctx, "pat@acme.com")
	assert.NoError(t, err)
	assert.Contains(t, f.logs.String(), `"level":"fatal"`)
}

func TestProvisionAccount_ContextoCanceladoTrasElAlta(t *testing.T) {
	repo := newSpyRepo()
	f := newFixture(t, repo)
	f.notifier.err = errors.New("smtp caído")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// el repositorio en memoria ignora el contexto; la compensación debe ocurrir igualmente
	_, err := f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("pat@acme.com", entity.RoleWarehouseManager))
	assert.ErrorIs(t, err, domain.ErrProvisioningFailed)
	_, err = f.repo.GetByEmail(context.Background(), "pat@acme.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProvisionAccount_EmailDuplicado(t *testing.T) {
	f := newFixture(t, newSpyRepo())
	ctx := context.Background()

	_, err := f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("pat@acme.com", entity.RoleWarehouseManager))
	require.NoError(t, err)

	_, err = f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("PAT@acme.com", entity.RoleAdmin))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, 1, f.notifier.count())
}

func TestProvisionAccount_AltasConcurrentes(t *testing.T) {
	repo := newSpyRepo()
	f := newFixture(t, repo)
	ctx := context.Background()

	// ambas peticiones superan la consulta por email antes de que cualquiera inserte
	gate := &sync.WaitGroup{}
	gate.Add(2)
	repo.emailGate = gate

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.provisioning.ProvisionAccount(ctx, adminActor, provisionRequest("race@acme.com", entity.RoleWarehouseManager))
		}(i)
	}
	wg.Wait()
	repo.emailGate = nil

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int32(0), repo.deletes.Load(), "el perdedor no debe borrar la cuenta del ganador")
	assert.Equal(t, 1, f.notifier.count())

	_, err := repo.GetByEmail(ctx, "race@acme.com")
	assert.NoError(t, err)
}

func TestProvisionAccount_EntradaInvalida(t *testing.T) {
	f := newFixture(t, newSpyRepo())
	ctx := context.Background()
	missing := "00000000-0000-0000-0000-000000000000"
	weak := "corta"
	long := "Aa1" + strings.Repeat("x", 83)

	cases := []struct {
		name string
		in   dto.ProvisionAccountRequest
	}{
		{"EmailMalFormado", dto.ProvisionAccountRequest{Email: "no-es-email", Name: "Pat", Role: string(entity.RoleAdmin)}},
		{"SinRol", dto.ProvisionAccountRequest{Email: "a@acme.com", Name: "Pat"}},
		{"RolDesconocido", dto.ProvisionAccountRequest{Email: "a@acme.com", Name: "Pat", Role: "AUDITOR"}},
		{"SinNombre", dto.ProvisionAccountRequest{Email: "a@acme.com", Role: string(entity.RoleAdmin)}},
		{"BodegaInexistente", dto.ProvisionAccountRequest{Email: "a@acme.com", Name: "Pat", Role: string(entity.RoleWarehouseManager), WarehouseRef: &missing}},
		{"ContraseñaDébil", dto.ProvisionAccountRequest{Email: "a@acme.com", Name: "Pat", Role: string(entity.RoleAdmin), Password: weak}},
		{"ContraseñaMayorA72Bytes", dto.ProvisionAccountRequest{Email: "a@acme.com", Name: "Pat", Role: string(entity.RoleAdmin), Password: long}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.provisioning.ProvisionAccount(ctx, adminActor, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, f.notifier.count())
}

func TestProvisionAccount_ConBodegaYContraseñaProvista(t *testing.T) {
	f := newFixture(t, newSpyRepo())
	ctx := context.Background()
	ref := testWarehouseID

	in := provisionRequest("bodega@acme.com", entity.RoleWarehouseManager)
	in.WarehouseRef = &ref
	in.Password = "Provista2024"
	resp, err := f.provisioning.ProvisionAccount(ctx, adminActor, in)
	require.NoError(t, err)
	require.NotNil(t, resp.WarehouseRef)
	assert.Equal(t, testWarehouseID, *resp.WarehouseRef)
	assert.Equal(t, "Provista2024", f.notifier.lastSecret(t))
}

func TestProvisionAccount_SoloAdmin(t *testing.T) {
	f := newFixture(t, newSpyRepo())
	actor := entity.Identity{AccountID: "x", Role: entity.RoleProcurementOfficer}

	_, err := f.provisioning.ProvisionAccount(context.Background(), actor, provisionRequest("pat@acme.com", entity.RoleAdmin))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 0, f.notifier.count())
}

func TestProvisionAccount_ErrorNoExponeContraseña(t *testing.T) {
	f := newFixture(t, newSpyRepo())
	f.notifier.err = errors.New("smtp caído")
	in := provisionRequest("pat@acme.com", entity.RoleAdmin)
	in.Password = "Provista2024"

	_, err := f.provisioning.ProvisionAccount(context.Background(), adminActor, in)
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "Provista2024"))
	assert.NotContains(t, f.logs.String(), "Provista2024")
}
