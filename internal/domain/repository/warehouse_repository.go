package repository

import (
	"context"

	"github.com/jhoicas/invorya-auth/internal/domain/entity"
)

// WarehouseRepository puerto de lectura de bodegas. El CRUD de bodegas vive fuera de este servicio;
// aquí solo se valida que el warehouse_ref de una cuenta apunte a una bodega existente.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}
