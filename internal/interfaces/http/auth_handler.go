package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invorya-auth/internal/application/account"
	"github.com/jhoicas/invorya-auth/internal/application/auth"
	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
)

// AuthHandler maneja login, logout, sesión y el cambio de contraseña propio.
type AuthHandler struct {
	uc        *auth.AuthUseCase
	passwords *account.PasswordUseCase
	cookie    *SessionCookie
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, passwords *account.PasswordUseCase, cookie *SessionCookie) *AuthHandler {
	return &AuthHandler{uc: uc, passwords: passwords, cookie: cookie}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Verifica las credenciales, emite el token y lo deja también en la cookie de sesión.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	h.cookie.Set(c, out.Token, out.ExpiresAt)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Borra la cookie de sesión. El token sigue siendo válido hasta expirar.
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookie.Clear(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Verificar sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	out, err := h.uc.VerifySession(c.UserContext(), tokenFromRequest(c, h.cookie.Name()))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil de la cuenta autenticada
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AccountResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	out, err := h.uc.Me(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña propia
// @Description  Solo el titular. Limpia el cambio obligatorio y activa una cuenta pendiente.
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la cuenta"
// @Param        body  body  dto.ChangePasswordRequest  true  "contraseña actual y nueva"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := GetIdentity(c)
	if !ok {
		return writeError(c, domain.ErrUnauthenticated)
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.passwords.ChangePassword(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
