package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	// List devuelve todas las categorías en orden de inserción.
	List(ctx context.Context) ([]*entity.Category, error)
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetOrCreate devuelve la categoría con ese nombre exacto o la crea; created indica si se insertó.
	GetOrCreate(ctx context.Context, name string) (category *entity.Category, created bool, err error)
}
