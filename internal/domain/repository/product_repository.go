package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// SortField columnas permitidas para ordenar el listado de productos.
type SortField string

const (
	SortNone       SortField = ""
	SortBySKU      SortField = "SKU"
	SortByName     SortField = "product_name"
	SortByCategory SortField = "category_name"
	SortByPrice    SortField = "price"
	SortByStatus   SortField = "status"
)

// Valid indica si el campo está en la lista blanca.
func (f SortField) Valid() bool {
	switch f {
	case SortNone, SortBySKU, SortByName, SortByCategory, SortByPrice, SortByStatus:
		return true
	}
	return false
}

// ProductFilter filtros combinados con AND; campos vacíos no restringen.
type ProductFilter struct {
	SKU        string // subcadena, sin distinguir mayúsculas
	Name       string // subcadena, sin distinguir mayúsculas
	CategoryID string // exacto
	MaterialID string // el producto contiene el material
	Status     entity.ProductStatus
}

// ProductSort orden estable; sin campo = orden de inserción.
type ProductSort struct {
	Field SortField
	Desc  bool
}

// PageRequest página 1-indexada.
type PageRequest struct {
	Page int
	Size int
}

// Offset desplazamiento de la página.
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// ProductQuery filtro + orden + página.
type ProductQuery struct {
	Filter ProductFilter
	Sort   ProductSort
	Page   PageRequest
}

// ProductPage resultado de Query: Total cuenta las filas que cumplen el filtro (antes de paginar).
type ProductPage struct {
	Items []*entity.Product
	Total int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los productos devueltos llevan Category y Materials resueltos.
type ProductRepository interface {
	// Create persiste el producto; un SKU repetido devuelve un *domain.ValidationError (duplicate_sku).
	Create(ctx context.Context, product *entity.Product) error
	// Update reemplaza los campos mutables; domain.ErrNotFound si no existe.
	Update(ctx context.Context, product *entity.Product) error
	// Delete borra definitivamente; domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Query(ctx context.Context, q ProductQuery) (*ProductPage, error)
	// ListAll todos los productos en orden de inserción.
	ListAll(ctx context.Context) ([]*entity.Product, error)
	// CatalogVersion cambia en la misma transacción que cada Create, Update o Delete.
	// Leída junto con ListAll en una instantánea identifica ese conjunto de productos.
	CatalogVersion(ctx context.Context) (int64, error)
}
