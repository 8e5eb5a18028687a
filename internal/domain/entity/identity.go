package entity

// Identity quién hace la petición, tal como lo aprobó el guard. Se pasa explícitamente
// por petición; no hay "usuario actual" global.
type Identity struct {
	AccountID string
	Role      Role
}

// HasRole indica si el rol de la identidad está en roles.
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
