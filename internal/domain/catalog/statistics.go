package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// Límites fijos del histograma de precios (no configurables).
var (
	priceRangeLow  = decimal.NewFromInt(500)
	priceRangeHigh = decimal.NewFromInt(1000)
)

// PriceRangeFor ubica un precio en exactamente un rango: [0,500], (500,1000], (1000,∞).
func PriceRangeFor(price decimal.Decimal) entity.PriceRange {
	switch {
	case price.LessThanOrEqual(priceRangeLow):
		return entity.PriceRangeUpTo500
	case price.LessThanOrEqual(priceRangeHigh):
		return entity.PriceRangeUpTo1000
	default:
		return entity.PriceRangeAbove1000
	}
}

// ComputeStatistics calcula todas las vistas derivadas en una sola pasada sobre el
// snapshot recibido, de modo que los totales sean mutuamente consistentes.
// Los productos deben traer la categoría resuelta para informar nombres.
func ComputeStatistics(products []*entity.Product) *entity.CatalogStatistics {
	stats := &entity.CatalogStatistics{
		TotalValue:           decimal.Zero,
		PriceRangeCount:      entity.PriceRangeCount{},
		CategoryHighestPrice: []entity.CategoryPriceSummary{},
		ProductsWithoutMedia: []entity.ProductMediaGap{},
	}
	for _, r := range entity.PriceRanges {
		stats.PriceRangeCount[r] = 0
	}

	byCategory := make(map[string]*entity.CategoryPriceSummary)
	var categoryOrder []string

	for _, p := range products {
		stats.TotalProducts++
		if p.Status == entity.ProductStatusActive {
			stats.ActiveProducts++
		}
		stats.TotalValue = stats.TotalValue.Add(p.Price)
		stats.PriceRangeCount[PriceRangeFor(p.Price)]++

		summary, ok := byCategory[p.CategoryID]
		if !ok {
			summary = &entity.CategoryPriceSummary{
				CategoryID:   p.CategoryID,
				CategoryName: p.CategoryName(),
				HighestPrice: p.Price,
			}
			byCategory[p.CategoryID] = summary
			categoryOrder = append(categoryOrder, p.CategoryID)
		}
		summary.ProductCount++
		if p.Price.GreaterThan(summary.HighestPrice) {
			summary.HighestPrice = p.Price
		}

		if !p.HasMedia() {
			stats.ProductsWithoutMedia = append(stats.ProductsWithoutMedia, entity.ProductMediaGap{
				ID:           p.ID,
				SKU:          p.SKU,
				Name:         p.Name,
				CategoryName: p.CategoryName(),
				Price:        p.Price,
			})
		}
	}
	stats.TotalValue = stats.TotalValue.Round(2)

	for _, id := range categoryOrder {
		stats.CategoryHighestPrice = append(stats.CategoryHighestPrice, *byCategory[id])
	}
	// Precio más alto descendente; empate por nombre de categoría ascendente.
	sort.SliceStable(stats.CategoryHighestPrice, func(i, j int) bool {
		a, b := stats.CategoryHighestPrice[i], stats.CategoryHighestPrice[j]
		if c := a.HighestPrice.Cmp(b.HighestPrice); c != 0 {
			return c > 0
		}
		return a.CategoryName < b.CategoryName
	})
	return stats
}
