package dto

import "github.com/jhoicas/invorya-auth/internal/domain/entity"

// NewAccountResponse proyecta la entidad sin hash ni contraseña.
func NewAccountResponse(a *entity.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:                 a.ID,
		Email:              a.Email,
		Name:               a.Name,
		Role:               string(a.Role),
		Status:             string(a.Status),
		MustChangePassword: a.MustChangePassword,
		EmployeeID:         a.EmployeeID,
		WarehouseRef:       a.WarehouseRef,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
