package http_test

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
)

// Alta por un ADMIN, primer login con la contraseña temporal y cambio obligatorio.
func TestFlujoCompleto_AltaLoginYCambioDeContraseña(t *testing.T) {
	s := buildTestApp(t)
	adminTok := s.tokenFor(t, adminID, entity.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/admin/accounts", adminTok, dto.ProvisionAccountRequest{
		Email: "pat@acme.com", Name: "Pat", Role: string(entity.RoleWarehouseManager),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.AccountResponse
	decode(t, resp, &created)
	assert.Equal(t, string(entity.StatusPending), created.Status)
	assert.True(t, created.MustChangePassword)

	temp := s.notifier.secret(t)
	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "pat@acme.com", Password: temp})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	assert.Equal(t, string(entity.RoleWarehouseManager), login.Role)
	assert.True(t, login.Account.MustChangePassword)

	// un jefe de bodega no administra cuentas
	resp = s.do(t, http.MethodGet, "/api/admin/accounts", login.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// ni cambia la contraseña de otro
	resp = s.do(t, http.MethodPost, "/api/accounts/"+adminID+"/password", login.Token,
		dto.ChangePasswordRequest{CurrentPassword: temp, NewPassword: "NuevaClave2024"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/accounts/"+created.ID+"/password", login.Token,
		dto.ChangePasswordRequest{CurrentPassword: "Incorrecta2024", NewPassword: "NuevaClave2024"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/accounts/"+created.ID+"/password", login.Token,
		dto.ChangePasswordRequest{CurrentPassword: temp, NewPassword: "NuevaClave2024"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var changed dto.AccountResponse
	decode(t, resp, &changed)
	assert.False(t, changed.MustChangePassword)
	assert.Equal(t, string(entity.StatusActive), changed.Status)

	resp = s.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.AccountResponse
	decode(t, resp, &me)
	assert.Equal(t, "pat@acme.com", me.Email)
}

func TestProvision_EntregaFallida_502(t *testing.T) {
	s := buildTestApp(t)
	s.notifier.err = errors.New("smtp caído")
	adminTok := s.tokenFor(t, adminID, entity.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/admin/accounts", adminTok, dto.ProvisionAccountRequest{
		Email: "pat@acme.com", Name: "Pat", Role: string(entity.RoleWarehouseManager),
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "PROVISIONING_FAILED")

	resp = s.do(t, http.MethodGet, "/api/admin/accounts", adminTok, nil)
	var list dto.AccountListResponse
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Page.Total, "solo debe quedar el ADMIN sembrado")
}

func TestProvision_Errores(t *testing.T) {
	s := buildTestApp(t)
	adminTok := s.tokenFor(t, adminID, entity.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/admin/accounts", adminTok, dto.ProvisionAccountRequest{
		Email: adminEmail, Name: "Otro", Role: string(entity.RoleAdmin),
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/admin/accounts", adminTok, dto.ProvisionAccountRequest{
		Email: "x@acme.com", Name: "X", Role: "SUPERVISOR",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdmin_EstadoResetYBorrado(t *testing.T) {
	s := buildTestApp(t)
	adminTok := s.tokenFor(t, adminID, entity.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/admin/accounts", adminTok, dto.ProvisionAccountRequest{
		Email: "buyer@acme.com", Name: "Buyer", Role: string(entity.RoleProcurementOfficer),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.AccountResponse
	decode(t, resp, &created)
	base := "/api/admin/accounts/" + created.ID

	resp = s.do(t, http.MethodGet, base, adminTok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, base+"/status", adminTok, dto.SetStatusRequest{Status: "inactive"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.AccountResponse
	decode(t, resp, &updated)
	assert.Equal(t, string(entity.StatusInactive), updated.Status)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "buyer@acme.com", Password: s.notifier.secret(t)})
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "ACCOUNT_INACTIVE")

	resp = s.do(t, http.MethodPost, base+"/reset-password", adminTok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	s.notifier.err = errors.New("smtp caído")
	resp = s.do(t, http.MethodPost, base+"/reset-password", adminTok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, base, adminTok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, base, adminTok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
