// seed_admin crea la primera cuenta ADMIN para poder aprovisionar el resto desde la API.
//
// Uso: SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... [SEED_ADMIN_NAME=...] go run ./cmd/seed_admin
// Lee la conexión a PostgreSQL de las mismas variables que la API. Si el email ya existe no hace nada.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/infrastructure/postgres"
	"github.com/jhoicas/invorya-auth/pkg/config"
	"github.com/jhoicas/invorya-auth/pkg/logger"
	"github.com/jhoicas/invorya-auth/pkg/password"
)

func main() {
	v := viper.New()
	v.AutomaticEnv()
	cfg := config.FromViper(v)

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed_admin"})

	in := dto.ProvisionAccountRequest{
		Email:    v.GetString("SEED_ADMIN_EMAIL"),
		Name:     v.GetString("SEED_ADMIN_NAME"),
		Role:     string(entity.RoleAdmin),
		Password: v.GetString("SEED_ADMIN_PASSWORD"),
	}
	if in.Name == "" {
		in.Name = "Administrador"
	}
	if err := in.Validate(); err != nil {
		log.Fatal().Err(err).Msg("datos del administrador inválidos")
	}
	policy := password.Policy{
		MinLength:        cfg.Password.MinLength,
		RequireUppercase: cfg.Password.RequireUpper,
		RequireLowercase: cfg.Password.RequireLower,
		RequireDigit:     cfg.Password.RequireDigit,
		RequireSpecial:   cfg.Password.RequireSpecial,
	}
	if err := policy.Check(in.Password); err != nil {
		log.Fatal().Err(err).Msg("SEED_ADMIN_PASSWORD no cumple la política")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	repo := postgres.NewAccountRepository(pool)
	email := entity.NormalizeEmail(in.Email)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.Info().Str("email", email).Msg("el administrador ya existe, nada que hacer")
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Fatal().Err(err).Msg("consultar administrador")
	}

	hasher, err := password.NewHasher(cfg.Password.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar bcrypt")
	}
	hash, err := hasher.Hash(in.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear contraseña")
	}
	now := time.Now().UTC()
	admin := &entity.Account{
		ID:                 uuid.New().String(),
		Email:              email,
		Name:               in.Name,
		PasswordHash:       hash,
		Role:               entity.RoleAdmin,
		Status:             entity.StatusPending,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			log.Info().Str("email", email).Msg("el administrador ya existe, nada que hacer")
			return
		}
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("email", email).Str("account_id", admin.ID).Msg("administrador creado; debe cambiar la contraseña en el primer inicio de sesión")
}
