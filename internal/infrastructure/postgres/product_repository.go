package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y sus materiales.
// La restricción products_sku_key es la garantía final de unicidad ante carreras.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, category_id, price, status, media_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.CategoryID, product.Price,
		string(product.Status), product.MediaURL, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintProductSKU) {
			return domain.NewDuplicateSKUError(product.SKU)
		}
		if isForeignKeyViolation(err) {
			return referenceError("category_id", domain.ViolationUnknownCategory, product.CategoryID)
		}
		if isNumericOutOfRange(err) {
			return priceRangeError(product)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	if err := r.insertMaterials(ctx, product); err != nil {
		return err
	}
	return r.bumpVersion(ctx)
}

// Update reemplaza los campos mutables (todo salvo SKU) y la lista de materiales.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category_id = $3, price = $4, status = $5,
		       media_url = NULLIF($6, ''), updated_at = $7
		WHERE id = $1`
	if !validUUID(product.ID) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.CategoryID, product.Price,
		string(product.Status), product.MediaURL, product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return referenceError("category_id", domain.ViolationUnknownCategory, product.CategoryID)
		}
		if isNumericOutOfRange(err) {
			return priceRangeError(product)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_materials WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("reset product materials: %w", err)
	}
	if err := r.insertMaterials(ctx, product); err != nil {
		return err
	}
	return r.bumpVersion(ctx)
}

func (r *ProductRepo) insertMaterials(ctx context.Context, product *entity.Product) error {
	batch := &pgx.Batch{}
	for i, id := range product.MaterialIDs {
		batch.Queue(
			`INSERT INTO product_materials (product_id, material_id, position) VALUES ($1, $2, $3)`,
			product.ID, id, i,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return referenceError(fmt.Sprintf("material_ids[%d]", i), domain.ViolationUnknownMaterial, product.MaterialIDs[i])
			}
			return fmt.Errorf("insert product material: %w", err)
		}
	}
	return nil
}

// Delete elimina un producto por ID (product_materials cae en cascada).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.bumpVersion(ctx)
}

// CatalogVersion lee la versión visible en la transacción o snapshot actual.
func (r *ProductRepo) CatalogVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := r.q.QueryRow(ctx, `SELECT version FROM catalog_version WHERE id = 1`).Scan(&version); err != nil {
		return 0, fmt.Errorf("catalog version: %w", err)
	}
	return version, nil
}

// bumpVersion bloquea la fila de versión hasta el commit: las mutaciones de productos
// quedan serializadas respecto de la versión.
func (r *ProductRepo) bumpVersion(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `UPDATE catalog_version SET version = version + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("bump catalog version: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetBySKU obtiene un producto por SKU exacto.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	list, err := r.list(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Query lista una página filtrada y ordenada más el total sin paginar.
func (r *ProductRepo) Query(ctx context.Context, q repository.ProductQuery) (*repository.ProductPage, error) {
	built, err := buildProductQuery(q)
	if err != nil {
		return nil, err
	}
	var total int
	if err := r.q.QueryRow(ctx, built.Count, built.CountArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	items, err := r.list(ctx, built.List, built.ListArgs...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &repository.ProductPage{Items: items, Total: total}, nil
}

// ListAll lista todos los productos en orden de inserción.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	items, err := r.list(ctx, productSelect+` ORDER BY p.seq`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// list ejecuta un SELECT de productos y carga sus materiales en una segunda consulta.
func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*entity.Product{}
	byID := make(map[string]*entity.Product)
	for rows.Next() {
		var p entity.Product
		var c entity.Category
		var status string
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &c.Name, &c.CreatedAt,
			&p.Price, &status, &p.MediaURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		c.ID = p.CategoryID
		p.Category = &c
		p.Status = entity.ProductStatus(status)
		p.MaterialIDs = []string{}
		p.Materials = []*entity.Material{}
		list = append(list, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}
	if err := r.loadMaterials(ctx, byID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) loadMaterials(ctx context.Context, byID map[string]*entity.Product) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := r.q.Query(ctx, `
		SELECT pm.product_id, m.id, m.name, m.created_at
		FROM product_materials pm
		JOIN materials m ON m.id = pm.material_id
		WHERE pm.product_id::text = ANY($1)
		ORDER BY pm.product_id, pm.position`, ids)
	if err != nil {
		return fmt.Errorf("list product materials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var m entity.Material
		if err := rows.Scan(&productID, &m.ID, &m.Name, &m.CreatedAt); err != nil {
			return fmt.Errorf("scan product material: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.MaterialIDs = append(p.MaterialIDs, m.ID)
			mat := m
			p.Materials = append(p.Materials, &mat)
		}
	}
	return rows.Err()
}

func referenceError(field string, kind domain.ViolationKind, id string) error {
	return &domain.ValidationError{Violations: []domain.Violation{{
		Field: field, Kind: kind, Message: "la referencia " + id + " no existe",
	}}}
}

func priceRangeError(product *entity.Product) error {
	return &domain.ValidationError{Violations: []domain.Violation{{
		Field: "price", Kind: domain.ViolationPriceOutOfRange,
		Message: "el precio " + product.Price.String() + " excede la precisión almacenable",
	}}}
}
