package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	st       *state
	now      func() time.Time
	readOnly bool
}

// List devuelve las categorías en orden de inserción.
func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	return append([]*entity.Category{}, r.st.categories...), nil
}

// GetByID obtiene una categoría; (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	return r.st.categoryByID[id], nil
}

// GetOrCreate devuelve la categoría con ese nombre o la agrega al final.
func (r *CategoryRepo) GetOrCreate(_ context.Context, name string) (*entity.Category, bool, error) {
	if c, ok := r.st.categoryByName[name]; ok {
		return c, false, nil
	}
	if r.readOnly {
		return nil, false, errReadOnly
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: r.now()}
	r.st.categories = append(r.st.categories, c)
	r.st.categoryByID[c.ID] = c
	r.st.categoryByName[c.Name] = c
	return c, true, nil
}

// MaterialRepo implementación en memoria de MaterialRepository.
type MaterialRepo struct {
	st       *state
	now      func() time.Time
	readOnly bool
}

// List devuelve los materiales en orden de inserción.
func (r *MaterialRepo) List(_ context.Context) ([]*entity.Material, error) {
	return append([]*entity.Material{}, r.st.materials...), nil
}

// GetByIDs devuelve los materiales existentes entre los IDs pedidos.
func (r *MaterialRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.st.materialByID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetOrCreate devuelve el material con ese nombre o lo agrega al final.
func (r *MaterialRepo) GetOrCreate(_ context.Context, name string) (*entity.Material, bool, error) {
	if m, ok := r.st.materialByName[name]; ok {
		return m, false, nil
	}
	if r.readOnly {
		return nil, false, errReadOnly
	}
	m := &entity.Material{ID: uuid.New().String(), Name: name, CreatedAt: r.now()}
	r.st.materials = append(r.st.materials, m)
	r.st.materialByID[m.ID] = m
	r.st.materialByName[m.Name] = m
	return m, true, nil
}
