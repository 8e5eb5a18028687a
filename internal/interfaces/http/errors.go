package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invorya-auth/internal/application/dto"
	"github.com/jhoicas/invorya-auth/internal/domain"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// El orden importa: los errores compuestos (p. ej. fallo parcial, cuenta inactiva)
// deben resolverse antes que los genéricos que también envuelven.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", ""},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED", "sesión ausente, inválida o expirada"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "la contraseña actual no coincide"},
	{domain.ErrAccountInactive, fiber.StatusForbidden, "ACCOUNT_INACTIVE", "cuenta inactiva"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "no tiene permisos para esta operación"},
	{domain.ErrAccountNotFound, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND", "la cuenta de la sesión ya no existe"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "cuenta no encontrada"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrPartialFailure, fiber.StatusInternalServerError, "PARTIAL_FAILURE", "la operación quedó incompleta y requiere intervención de un administrador"},
	{domain.ErrProvisioningFailed, fiber.StatusBadGateway, "PROVISIONING_FAILED", "no se pudieron entregar las credenciales; la cuenta no fue creada"},
	{domain.ErrDeliveryFailed, fiber.StatusBadGateway, "DELIVERY_FAILED", "no se pudo entregar el correo; no se aplicaron cambios"},
}

// writeError traduce un error de dominio a la respuesta HTTP. Los errores no clasificados
// responden 500 con un mensaje genérico: el detalle solo va al log.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		if m.status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Str("code", m.code).Msg("operación fallida")
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error no clasificado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
