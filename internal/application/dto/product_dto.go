package dto

import (
	"bytes"
	"encoding/json"
	"time"
)

// ProductRequest entrada para crear o actualizar un producto.
// Price se conserva tal como llegó (número o cadena) y lo interpreta la validación,
// así un precio no numérico se informa junto con las demás violaciones.
type ProductRequest struct {
	SKU         string          `json:"SKU"`
	ProductName string          `json:"product_name"`
	CategoryID  string          `json:"category_id"`
	MaterialIDs []string        `json:"material_ids"`
	Price       json.RawMessage `json:"price" swaggertype:"number"`
	Status      string          `json:"status"`
	MediaURL    string          `json:"media_url"`
}

// PriceText devuelve el precio como texto; nil si no vino o es null.
func (r ProductRequest) PriceText() *string {
	raw := bytes.TrimSpace(r.Price)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
	} else {
		s = string(raw)
	}
	return &s
}

// ProductListRequest parámetros de consulta del listado.
// Sort acepta "campo" o "-campo" (descendente); Order ("asc"|"desc") tiene prioridad si viene.
// MaterialIDs es el nombre que usa el front-end; MaterialID se acepta como alias.
type ProductListRequest struct {
	Page        int    `query:"page"`
	Limit       int    `query:"limit"`
	SKU         string `query:"SKU"`
	ProductName string `query:"product_name"`
	CategoryID  string `query:"category_id"`
	MaterialIDs string `query:"material_ids"`
	MaterialID  string `query:"material_id"`
	Status      string `query:"status"`
	Sort        string `query:"sort"`
	Order       string `query:"order"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize aplica valores por defecto y límites de paginación.
func (r *ProductListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
}

// CategoryRef categoría embebida en la respuesta de producto.
type CategoryRef struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// MaterialRef material embebido en la respuesta de producto.
type MaterialRef struct {
	MaterialID   string `json:"material_id"`
	MaterialName string `json:"material_name"`
}

// ProductResponse salida de un producto con sus referencias resueltas.
type ProductResponse struct {
	ID          string        `json:"id"`
	SKU         string        `json:"SKU"`
	ProductName string        `json:"product_name"`
	CategoryID  string        `json:"category_id"`
	Category    *CategoryRef  `json:"category"`
	MaterialIDs []string      `json:"material_ids"`
	Materials   []MaterialRef `json:"materials"`
	Price       Money         `json:"price"`
	Status      string        `json:"status"`
	MediaURL    string        `json:"media_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProductListResponse página de productos más el total sin paginar.
type ProductListResponse struct {
	Products      []ProductResponse `json:"products"`
	TotalProducts int               `json:"totalProducts"`
	Page          int               `json:"page"`
	Limit         int               `json:"limit"`
}
