package dto

// StatisticsResponse agregados del catálogo.
type StatisticsResponse struct {
	TotalProducts        int                            `json:"totalProducts"`
	ActiveProducts       int                            `json:"activeProducts"`
	TotalValue           Money                          `json:"totalValue"`
	PriceRangeCount      map[string][]PriceRangeBucket  `json:"priceRangeCount"`
	CategoryHighestPrice []CategoryHighestPriceResponse `json:"categoryHighestPrice"`
	ProductsWithNoMedia  []ProductWithNoMediaResponse   `json:"productsWithNoMedia"`
}

// PriceRangeBucket conteo de un rango de precio.
type PriceRangeBucket struct {
	Count int `json:"count"`
}

// CategoryNameRef nombre de categoría en los agregados.
type CategoryNameRef struct {
	CategoryName string `json:"category_name"`
}

// CategoryHighestPriceResponse precio más alto y número de productos por categoría.
type CategoryHighestPriceResponse struct {
	CategoryID   string            `json:"category_id"`
	Category     []CategoryNameRef `json:"category"`
	HighestPrice Money             `json:"highestPrice"`
	ProductCount int               `json:"productCount"`
}

// ProductWithNoMediaResponse producto sin media_url.
type ProductWithNoMediaResponse struct {
	ID           string `json:"id"`
	SKU          string `json:"SKU"`
	ProductName  string `json:"product_name"`
	CategoryName string `json:"category_name"`
	Price        Money  `json:"price"`
}
