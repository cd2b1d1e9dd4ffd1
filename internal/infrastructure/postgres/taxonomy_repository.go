package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
)

// term fila común de categories y materials.
type term struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// termTable acceso compartido a las tablas de taxonomía (mismo esquema).
type termTable struct {
	q     Querier
	table string
}

func (t termTable) list(ctx context.Context) ([]term, error) {
	rows, err := t.q.Query(ctx, `SELECT id, name, created_at FROM `+t.table+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()
	var list []term
	for rows.Next() {
		var tr term
		if err := rows.Scan(&tr.ID, &tr.Name, &tr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		list = append(list, tr)
	}
	return list, rows.Err()
}

func (t termTable) getByIDs(ctx context.Context, ids []string) ([]term, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := t.q.Query(ctx,
		`SELECT id, name, created_at FROM `+t.table+` WHERE id::text = ANY($1) ORDER BY seq`, ids)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	defer rows.Close()
	var list []term
	for rows.Next() {
		var tr term
		if err := rows.Scan(&tr.ID, &tr.Name, &tr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		list = append(list, tr)
	}
	return list, rows.Err()
}

// getOrCreate inserta el término si no existe. ON CONFLICT DO NOTHING espera a una
// inserción concurrente del mismo nombre; el SELECT posterior ve la fila ya confirmada.
func (t termTable) getOrCreate(ctx context.Context, name string) (term, bool, error) {
	var tr term
	err := t.q.QueryRow(ctx,
		`INSERT INTO `+t.table+` (id, name, created_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id, name, created_at`,
		uuid.New().String(), name,
	).Scan(&tr.ID, &tr.Name, &tr.CreatedAt)
	if err == nil {
		return tr, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return term{}, false, fmt.Errorf("insert %s: %w", t.table, err)
	}
	err = t.q.QueryRow(ctx,
		`SELECT id, name, created_at FROM `+t.table+` WHERE name = $1`, name,
	).Scan(&tr.ID, &tr.Name, &tr.CreatedAt)
	if err != nil {
		return term{}, false, fmt.Errorf("get %s by name: %w", t.table, err)
	}
	return tr, false, nil
}

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	t termTable
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{t: termTable{q: q, table: "categories"}}
}

// List lista las categorías en orden de inserción.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Category, 0, len(rows))
	for _, tr := range rows {
		out = append(out, toCategory(tr))
	}
	return out, nil
}

// GetByID obtiene una categoría por ID; (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	rows, err := r.t.getByIDs(ctx, []string{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return toCategory(rows[0]), nil
}

// GetOrCreate obtiene o crea la categoría por nombre exacto.
func (r *CategoryRepo) GetOrCreate(ctx context.Context, name string) (*entity.Category, bool, error) {
	tr, created, err := r.t.getOrCreate(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return toCategory(tr), created, nil
}

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	t termTable
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{t: termTable{q: q, table: "materials"}}
}

// List lista los materiales en orden de inserción.
func (r *MaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	rows, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Material, 0, len(rows))
	for _, tr := range rows {
		out = append(out, toMaterial(tr))
	}
	return out, nil
}

// GetByIDs devuelve los materiales existentes entre los IDs pedidos.
func (r *MaterialRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Material, error) {
	rows, err := r.t.getByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Material, 0, len(rows))
	for _, tr := range rows {
		out = append(out, toMaterial(tr))
	}
	return out, nil
}

// GetOrCreate obtiene o crea el material por nombre exacto.
func (r *MaterialRepo) GetOrCreate(ctx context.Context, name string) (*entity.Material, bool, error) {
	tr, created, err := r.t.getOrCreate(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return toMaterial(tr), created, nil
}

func toCategory(tr term) *entity.Category {
	return &entity.Category{ID: tr.ID, Name: tr.Name, CreatedAt: tr.CreatedAt}
}

func toMaterial(tr term) *entity.Material {
	return &entity.Material{ID: tr.ID, Name: tr.Name, CreatedAt: tr.CreatedAt}
}
