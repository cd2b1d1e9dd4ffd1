package entity

import "github.com/shopspring/decimal"

// PriceRange rango fijo del histograma de precios.
type PriceRange string

const (
	PriceRangeUpTo500   PriceRange = "0-500"    // [0, 500]
	PriceRangeUpTo1000  PriceRange = "501-1000" // (500, 1000]
	PriceRangeAbove1000 PriceRange = "1000+"    // (1000, ∞)
)

// PriceRanges orden de presentación de los rangos.
var PriceRanges = []PriceRange{PriceRangeUpTo500, PriceRangeUpTo1000, PriceRangeAbove1000}

// PriceRangeCount conteo de productos por rango.
type PriceRangeCount map[PriceRange]int

// Total suma de todos los rangos.
func (c PriceRangeCount) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// CategoryPriceSummary precio máximo y cantidad de productos de una categoría.
type CategoryPriceSummary struct {
	CategoryID   string
	CategoryName string
	HighestPrice decimal.Decimal
	ProductCount int
}

// ProductMediaGap proyección de un producto sin media_url.
type ProductMediaGap struct {
	ID           string
	SKU          string
	Name         string
	CategoryName string
	Price        decimal.Decimal
}

// CatalogStatistics vista derivada, calculada sobre un único snapshot del catálogo.
type CatalogStatistics struct {
	TotalProducts        int
	ActiveProducts       int
	TotalValue           decimal.Decimal
	PriceRangeCount      PriceRangeCount
	CategoryHighestPrice []CategoryPriceSummary
	ProductsWithoutMedia []ProductMediaGap
}
