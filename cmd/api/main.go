package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/invorya-auth/docs"
	"github.com/jhoicas/invorya-auth/internal/application/account"
	"github.com/jhoicas/invorya-auth/internal/application/auth"
	"github.com/jhoicas/invorya-auth/internal/infrastructure/mail"
	"github.com/jhoicas/invorya-auth/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/invorya-auth/internal/interfaces/http"
	"github.com/jhoicas/invorya-auth/pkg/config"
	"github.com/jhoicas/invorya-auth/pkg/jwt"
	"github.com/jhoicas/invorya-auth/pkg/logger"
	"github.com/jhoicas/invorya-auth/pkg/password"
)

// @title                       Invorya Auth API
// @version                     1.0
// @description                 Aprovisionamiento de cuentas y sesiones por rol (ADMIN, PROCUREMENT_OFFICER, WAREHOUSE_MANAGER).
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	accountRepo := postgres.NewAccountRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)

	tokens, err := jwt.NewManager(jwt.Config{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL(),
		Issuer: cfg.JWT.Issuer,
	}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar JWT")
	}

	hasher, err := password.NewHasher(cfg.Password.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar bcrypt")
	}
	policy := password.Policy{
		MinLength:        cfg.Password.MinLength,
		RequireUppercase: cfg.Password.RequireUpper,
		RequireLowercase: cfg.Password.RequireLower,
		RequireDigit:     cfg.Password.RequireDigit,
		RequireSpecial:   cfg.Password.RequireSpecial,
	}
	generator := password.NewGenerator(policy, cfg.Password.TempLength)

	notifier, err := mail.NewSMTPNotifier(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		TLS:      cfg.Mail.TLS,
		Timeout:  cfg.Mail.Timeout(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar SMTP")
	}

	guard := auth.NewGuard(tokens, accountRepo)
	authUC := auth.NewAuthUseCase(accountRepo, hasher, tokens, guard, log.Component("auth"))
	provisioningUC := account.NewProvisioningUseCase(accountRepo, warehouseRepo, hasher, generator, policy, notifier, log.Component("provisioning"))
	passwordUC := account.NewPasswordUseCase(accountRepo, postgres.NewTxRunner(pool), hasher, generator, policy, notifier, log.Component("password"))
	adminUC := account.NewAdminUseCase(accountRepo, log.Component("admin"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invorya Auth API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		Guard:          guard,
		ProvisioningUC: provisioningUC,
		PasswordUC:     passwordUC,
		AdminUC:        adminUC,
		Cookie: httpRouter.NewSessionCookie(httpRouter.CookieConfig{
			Path:     cfg.Session.CookiePath,
			Secure:   cfg.Session.CookieSecure,
			SameSite: cfg.Session.CookieSameSite,
		}),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
