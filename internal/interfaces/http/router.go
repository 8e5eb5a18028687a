package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invorya-auth/internal/application/account"
	"github.com/jhoicas/invorya-auth/internal/application/auth"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	Guard          *auth.Guard
	ProvisioningUC *account.ProvisioningUseCase
	PasswordUC     *account.PasswordUseCase
	AdminUC        *account.AdminUseCase
	Cookie         *SessionCookie
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	cookie := deps.Cookie
	if cookie == nil {
		cookie = NewSessionCookie(CookieConfig{})
	}
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.PasswordUC, cookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/session", authHandler.Session)
	authGroup.Get("/me", AuthMiddleware(deps.Guard, cookie.Name()), authHandler.Me)

	// Cuenta propia (cualquier rol)
	accounts := api.Group("/accounts", AuthMiddleware(deps.Guard, cookie.Name()))
	accounts.Post("/:id/password", authHandler.ChangePassword)

	// Administración (solo ADMIN)
	admin := api.Group("/admin", RequireRole(deps.Guard, cookie.Name(), entity.RoleAdmin))
	accountHandler := NewAccountHandler(deps.ProvisioningUC, deps.PasswordUC, deps.AdminUC)
	admin.Post("/accounts", accountHandler.Provision)
	admin.Get("/accounts", accountHandler.List)
	admin.Get("/accounts/:id", accountHandler.GetByID)
	admin.Patch("/accounts/:id/status", accountHandler.SetStatus)
	admin.Post("/accounts/:id/reset-password", accountHandler.ResetPassword)
	admin.Delete("/accounts/:id", accountHandler.Delete)
}
