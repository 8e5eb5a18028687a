package entity

import "time"

// Warehouse bodega a la que puede quedar asignado un jefe de bodega.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}
