package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invorya-auth/internal/domain/entity"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalIdentity = "identity"
	LocalUserID   = "user_id"
	LocalRole     = "role"
)

// Authorizer contrato del guard de roles. Lo implementa *auth.Guard.
type Authorizer interface {
	Authorize(ctx context.Context, token string, required ...entity.Role) (*entity.Identity, error)
}

// AuthMiddleware exige una sesión válida con cualquier rol.
func AuthMiddleware(guard Authorizer, cookieName string) fiber.Handler {
	return RequireRole(guard, cookieName)
}

// RequireRole valida el token (cookie de sesión o Bearer) contra el guard y exige uno de los roles.
// Sin roles acepta cualquier rol válido. Deja la identidad en c.Locals.
//
// Respuestas: 401 sin sesión válida, 403 rol no permitido, 404 la cuenta del token ya no existe.
func RequireRole(guard Authorizer, cookieName string, roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := guard.Authorize(c.UserContext(), tokenFromRequest(c, cookieName), roles...)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalIdentity, *id)
		c.Locals(LocalUserID, id.AccountID)
		c.Locals(LocalRole, string(id.Role))
		return c.Next()
	}
}

// tokenFromRequest prioriza la cookie de sesión; si no existe usa Authorization: Bearer <token>.
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if cookieName != "" {
		if tok := strings.TrimSpace(c.Cookies(cookieName)); tok != "" {
			return tok
		}
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) (entity.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(entity.Identity)
	return id, ok
}

// GetUserID devuelve el ID de la cuenta autenticada.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol de la cuenta autenticada.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
