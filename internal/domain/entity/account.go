package entity

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Role es el tipo de actor; enumeración cerrada e inmutable tras la creación de la cuenta.
type Role string

// Roles válidos para Account.
const (
	RoleAdmin              Role = "ADMIN"
	RoleProcurementOfficer Role = "PROCUREMENT_OFFICER"
	RoleWarehouseManager   Role = "WAREHOUSE_MANAGER"
)

// AllRoles lista todos los roles; lo usan las lecturas autenticadas que aceptan cualquier rol.
var AllRoles = []Role{RoleAdmin, RoleProcurementOfficer, RoleWarehouseManager}

// Valid indica si el rol pertenece a la enumeración cerrada.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProcurementOfficer, RoleWarehouseManager:
		return true
	}
	return false
}

// AccountStatus estado de la cuenta.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// Valid indica si el estado es uno de los conocidos.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive:
		return true
	}
	return false
}

// Account representa una cuenta de acceso (admin, compras o bodega).
type Account struct {
	ID                 string
	Email              string
	Name               string
	PasswordHash       string // bcrypt; nunca se guarda la contraseña en claro
	Role               Role
	Status             AccountStatus
	MustChangePassword bool
	EmployeeID         *string
	WarehouseRef       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AccountPatch campos mutables de una cuenta. El rol no aparece: es inmutable.
type AccountPatch struct {
	Name         *string
	Status       *AccountStatus
	EmployeeID   *string
	WarehouseRef *string
}

// Apply copia en a los campos presentes en p.
func (p AccountPatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.EmployeeID != nil {
		a.EmployeeID = p.EmployeeID
	}
	if p.WarehouseRef != nil {
		a.WarehouseRef = p.WarehouseRef
	}
}

// NormalizeEmail forma canónica del email para búsquedas e inserciones (NFKC + minúsculas).
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(email)))
}
