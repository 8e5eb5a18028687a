package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo catálogo de bodegas en memoria.
type WarehouseRepo struct {
	mu    sync.RWMutex
	items map[string]*entity.Warehouse
}

// NewWarehouseRepository construye el catálogo con las bodegas dadas.
func NewWarehouseRepository(warehouses ...*entity.Warehouse) *WarehouseRepo {
	r := &WarehouseRepo{items: make(map[string]*entity.Warehouse)}
	for _, w := range warehouses {
		r.items[w.ID] = w
	}
	return r
}

// GetByID devuelve nil, nil si no existe.
func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}
