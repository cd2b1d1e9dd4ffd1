package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	st       *state
	readOnly bool
}

// Create persiste el producto. El índice por SKU actúa como restricción de unicidad.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, taken := r.st.productBySKU[product.SKU]; taken {
		return domain.NewDuplicateSKUError(product.SKU)
	}
	if _, exists := r.st.productByID[product.ID]; exists {
		return fmt.Errorf("insert product: id %s ya existe", product.ID)
	}
	stored := normalized(product)
	r.st.products = append(r.st.products, stored)
	r.st.productByID[stored.ID] = stored
	r.st.productBySKU[stored.SKU] = stored.ID
	r.st.version++
	return nil
}

// Update reemplaza los campos mutables; el SKU almacenado se conserva.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	if r.readOnly {
		return errReadOnly
	}
	current, ok := r.st.productByID[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := normalized(product)
	next.SKU = current.SKU
	next.CreatedAt = current.CreatedAt
	i := slices.Index(r.st.products, current)
	r.st.products[i] = next
	r.st.productByID[next.ID] = next
	r.st.version++
	return nil
}

// Delete elimina el producto; un segundo borrado devuelve ErrNotFound.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	if r.readOnly {
		return errReadOnly
	}
	current, ok := r.st.productByID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.st.products = slices.DeleteFunc(r.st.products, func(p *entity.Product) bool { return p == current })
	delete(r.st.productByID, id)
	delete(r.st.productBySKU, current.SKU)
	r.st.version++
	return nil
}

// CatalogVersion versión del estado visto por este repositorio.
func (r *ProductRepo) CatalogVersion(context.Context) (int64, error) {
	return r.st.version, nil
}

// GetByID obtiene un producto resuelto; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.productByID[id]
	if !ok {
		return nil, nil
	}
	return r.st.resolve(p), nil
}

// GetBySKU obtiene un producto por SKU exacto; (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	id, ok := r.st.productBySKU[sku]
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// ListAll devuelve todos los productos en orden de inserción.
func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		out = append(out, r.st.resolve(p))
	}
	return out, nil
}

// Query filtra, ordena de forma estable y pagina.
func (r *ProductRepo) Query(ctx context.Context, q repository.ProductQuery) (*repository.ProductPage, error) {
	if !q.Sort.Field.Valid() {
		return nil, fmt.Errorf("%w: campo de orden %q", domain.ErrInvalidInput, q.Sort.Field)
	}
	all, _ := r.ListAll(ctx)
	matched := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if matches(p, q.Filter) {
			matched = append(matched, p)
		}
	}
	if q.Sort.Field != repository.SortNone {
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i], matched[j], q.Sort.Field)
			if q.Sort.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	page := &repository.ProductPage{Items: []*entity.Product{}, Total: len(matched)}
	if q.Page.Size <= 0 {
		page.Items = matched
		return page, nil
	}
	start := q.Page.Offset()
	if start >= len(matched) {
		return page, nil
	}
	end := min(start+q.Page.Size, len(matched))
	page.Items = matched[start:end]
	return page, nil
}

func matches(p *entity.Product, f repository.ProductFilter) bool {
	if f.SKU != "" && !containsFold(p.SKU, f.SKU) {
		return false
	}
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.MaterialID != "" && !slices.Contains(p.MaterialIDs, f.MaterialID) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func compare(a, b *entity.Product, field repository.SortField) int {
	switch field {
	case repository.SortBySKU:
		return strings.Compare(strings.ToLower(a.SKU), strings.ToLower(b.SKU))
	case repository.SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case repository.SortByCategory:
		return strings.Compare(strings.ToLower(a.CategoryName()), strings.ToLower(b.CategoryName()))
	case repository.SortByPrice:
		return a.Price.Cmp(b.Price)
	case repository.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	}
	return 0
}

// normalized copia el producto sin las referencias resueltas.
func normalized(p *entity.Product) *entity.Product {
	out := p.Clone()
	out.Category = nil
	out.Materials = nil
	return out
}
