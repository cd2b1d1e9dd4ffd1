package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus estado comercial del producto.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Valid indica si el estado pertenece al enum.
func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product representa un producto del catálogo.
// SKU es único en todo el catálogo e inmutable tras la creación.
// Category y Materials se resuelven al leer (referencias, no copias).
type Product struct {
	ID          string
	SKU         string
	Name        string
	CategoryID  string
	MaterialIDs []string // orden de inserción
	Price       decimal.Decimal
	Status      ProductStatus
	MediaURL    string // vacío = sin media
	Category    *Category
	Materials   []*Material
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMedia false si media_url está ausente o vacío.
func (p *Product) HasMedia() bool {
	return strings.TrimSpace(p.MediaURL) != ""
}

// CategoryName nombre de la categoría resuelta ("" si no está resuelta).
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// Clone copia superficial con slices propios; Category/Materials se comparten (inmutables).
func (p *Product) Clone() *Product {
	c := *p
	c.MaterialIDs = append([]string(nil), p.MaterialIDs...)
	c.Materials = append([]*Material(nil), p.Materials...)
	return &c
}

// ValidatedProduct payload normalizado por la capa de validación, listo para persistir.
type ValidatedProduct struct {
	SKU         string
	Name        string
	CategoryID  string
	MaterialIDs []string
	Price       decimal.Decimal // redondeado a 2 decimales
	Status      ProductStatus
	MediaURL    string
}
