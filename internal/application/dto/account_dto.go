package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var roleValues = []interface{}{"ADMIN", "PROCUREMENT_OFFICER", "WAREHOUSE_MANAGER"}

// ProvisionAccountRequest alta de cuenta por un administrador.
// Password es opcional: si viene vacío se genera una contraseña temporal.
type ProvisionAccountRequest struct {
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Password     string  `json:"password,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	WarehouseRef *string `json:"warehouse_ref,omitempty"`
}

// Validate campos obligatorios y rol dentro de la enumeración.
func (r ProvisionAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Role, validation.Required, validation.In(roleValues...)),
		validation.Field(&r.Password, validation.Length(0, 72)),
		validation.Field(&r.EmployeeID, validation.NilOrNotEmpty, validation.Length(1, 64)),
		validation.Field(&r.WarehouseRef, validation.NilOrNotEmpty, is.UUID),
	)
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate email y password presentes.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// ChangePasswordRequest cambio de contraseña por el propio titular.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate ambas contraseñas presentes; la fortaleza la decide la política configurada.
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(1, 72)),
	)
}

// SetStatusRequest activación / desactivación administrativa.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate solo active o inactive: pending no se asigna a mano.
func (r SetStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In("active", "inactive")),
	)
}

// AccountResponse salida de una cuenta (sin hash ni contraseña).
type AccountResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	Status             string    `json:"status"`
	MustChangePassword bool      `json:"must_change_password"`
	EmployeeID         *string   `json:"employee_id,omitempty"`
	WarehouseRef       *string   `json:"warehouse_ref,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AccountListResponse lista paginada de cuentas.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// LoginResponse token de sesión + perfil.
type LoginResponse struct {
	Token     string          `json:"token"`
	Role      string          `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

// SessionResponse identidad extraída de un token válido.
type SessionResponse struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}
