package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
type MaterialRepository interface {
	List(ctx context.Context) ([]*entity.Material, error)
	// GetByIDs devuelve solo los materiales existentes; los IDs desconocidos se omiten.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Material, error)
	GetOrCreate(ctx context.Context, name string) (material *entity.Material, created bool, err error)
}
