package dto

import "time"

// CreateCategoryRequest entrada de get-or-create de categoría.
type CreateCategoryRequest struct {
	CategoryName string `json:"category_name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateMaterialRequest entrada de get-or-create de material.
type CreateMaterialRequest struct {
	MaterialName string `json:"material_name"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	MaterialID   string    `json:"material_id"`
	MaterialName string    `json:"material_name"`
	CreatedAt    time.Time `json:"created_at"`
}
