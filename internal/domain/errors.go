package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores de infraestructura envuelven sus errores; los casos de uso los traducen a estos valores.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrAccountNotFound    = errors.New("la cuenta del token ya no existe")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthenticated    = errors.New("sesión ausente, inválida o expirada")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("la contraseña actual no coincide")
	ErrForbidden          = errors.New("acceso denegado")
	ErrAccountInactive    = errors.New("cuenta inactiva")
	ErrDeliveryFailed     = errors.New("no se pudo entregar la notificación")
	ErrProvisioningFailed = errors.New("no se pudo aprovisionar la cuenta; los cambios fueron revertidos")
	ErrPartialFailure     = errors.New("fallo parcial: la compensación no pudo completarse, requiere intervención")
)

// ErrAlreadyExists es el nombre genérico del conflicto de unicidad (hoy solo aplica al email).
var ErrAlreadyExists = ErrEmailAlreadyExists
