package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invorya-auth/internal/application/account"
	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
)

// AccountHandler administración de cuentas (solo ADMIN).
type AccountHandler struct {
	provisioning *account.ProvisioningUseCase
	passwords    *account.PasswordUseCase
	admin        *account.AdminUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(provisioning *account.ProvisioningUseCase, passwords *account.PasswordUseCase, admin *account.AdminUseCase) *AccountHandler {
	return &AccountHandler{provisioning: provisioning, passwords: passwords, admin: admin}
}

// Provision godoc
// @Summary      Aprovisionar cuenta
// @Description  Crea la cuenta en estado pending y envía la contraseña temporal por correo. Si el envío falla la cuenta no se conserva.
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProvisionAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/admin/accounts [post]
func (h *AccountHandler) Provision(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	var in dto.ProvisionAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.provisioning.ProvisionAccount(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cuentas
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.AccountListResponse
// @Router       /api/admin/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.admin.ListAccounts(c.UserContext(), actor, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuenta por ID
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id} [get]
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	out, err := h.admin.GetAccount(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Activar o desactivar cuenta
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la cuenta"
// @Param        body  body  dto.SetStatusRequest  true  "active | inactive"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id}/status [patch]
func (h *AccountHandler) SetStatus(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.admin.SetStatus(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ResetPassword godoc
// @Summary      Restablecer contraseña
// @Description  Genera una contraseña temporal y la envía al titular. Si el envío falla se conserva la anterior.
// @Tags         accounts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id}/reset-password [post]
func (h *AccountHandler) ResetPassword(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	if err := h.passwords.ResetPassword(c.UserContext(), actor, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar cuenta
// @Tags         accounts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	if err := h.admin.DeleteAccount(c.UserContext(), actor, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
