package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

const productSelect = `
		SELECT p.id, p.sku, p.name, p.category_id, c.name, c.created_at, p.price, p.status,
		       COALESCE(p.media_url, ''), p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id`

// sortColumns lista blanca de columnas de orden; nunca se interpola entrada del cliente.
var sortColumns = map[repository.SortField]string{
	repository.SortBySKU:      "lower(p.sku)",
	repository.SortByName:     "lower(p.name)",
	repository.SortByCategory: "lower(c.name)",
	repository.SortByPrice:    "p.price",
	repository.SortByStatus:   "p.status",
}

// productQuery SQL y argumentos para listar y contar con el mismo filtro.
type productQuery struct {
	List      string
	ListArgs  []any
	Count     string
	CountArgs []any
}

// buildProductQuery arma el SELECT paginado y el COUNT(*) para un ProductQuery.
// p.seq desempata para que el orden sea estable (orden de inserción).
func buildProductQuery(q repository.ProductQuery) (productQuery, error) {
	where, args := buildProductWhere(q.Filter)

	order := "p.seq"
	if q.Sort.Field != repository.SortNone {
		col, ok := sortColumns[q.Sort.Field]
		if !ok {
			return productQuery{}, fmt.Errorf("%w: campo de orden %q", domain.ErrInvalidInput, q.Sort.Field)
		}
		dir := "ASC"
		if q.Sort.Desc {
			dir = "DESC"
		}
		order = col + " " + dir + ", p.seq"
	}

	list := productSelect + where + " ORDER BY " + order
	listArgs := append([]any(nil), args...)
	if q.Page.Size > 0 {
		listArgs = append(listArgs, q.Page.Size, q.Page.Offset())
		list += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(listArgs)-1, len(listArgs))
	}

	count := `SELECT COUNT(*) FROM products p JOIN categories c ON c.id = p.category_id` + where
	return productQuery{List: list, ListArgs: listArgs, Count: count, CountArgs: args}, nil
}

func buildProductWhere(f repository.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.SKU != "" {
		conds = append(conds, "strpos(lower(p.sku), lower("+next(f.SKU)+")) > 0")
	}
	if f.Name != "" {
		conds = append(conds, "strpos(lower(p.name), lower("+next(f.Name)+")) > 0")
	}
	if f.CategoryID != "" {
		conds = append(conds, "p.category_id::text = "+next(f.CategoryID))
	}
	if f.MaterialID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM product_materials pm WHERE pm.product_id = p.id AND pm.material_id::text = "+next(f.MaterialID)+")")
	}
	if f.Status != "" {
		conds = append(conds, "p.status = "+next(string(f.Status)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
