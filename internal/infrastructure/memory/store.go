// Package memory implementa los puertos del catálogo en memoria. Sirve como
// almacenamiento de desarrollo (STORE_DRIVER=memory) y como doble de pruebas.
//
// Cada transacción trabaja sobre una copia del estado bajo el lock de escritura y
// solo se publica si el callback termina sin error y el contexto sigue vigente:
// una mutación se aplica completa o no se aplica.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var errReadOnly = errors.New("memory: operación de escritura en snapshot de solo lectura")

// Store estado compartido del catálogo en memoria.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

// NewStore construye un almacén vacío. La versión parte del reloj para no repetir
// versiones de un proceso anterior en un cache compartido.
func NewStore() *Store {
	st := newState()
	st.version = time.Now().UnixNano()
	return &Store{st: st, now: time.Now}
}

// Run ejecuta fn con repositorios atados a una copia del estado y la publica al terminar.
// Las transacciones de escritura son mutuamente excluyentes.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(work.repositories(s.now, false)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// ReadSnapshot ejecuta fn sobre un estado consistente; las escrituras fallan.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st.repositories(s.now, true))
}

// state colecciones en orden de inserción más índices.
type state struct {
	categories     []*entity.Category
	categoryByID   map[string]*entity.Category
	categoryByName map[string]*entity.Category

	materials      []*entity.Material
	materialByID   map[string]*entity.Material
	materialByName map[string]*entity.Material

	// products guarda registros normalizados (sin Category/Materials resueltos).
	products     []*entity.Product
	productByID  map[string]*entity.Product
	productBySKU map[string]string

	// version avanza con cada mutación de productos.
	version int64
}

func newState() *state {
	return &state{
		categoryByID:   map[string]*entity.Category{},
		categoryByName: map[string]*entity.Category{},
		materialByID:   map[string]*entity.Material{},
		materialByName: map[string]*entity.Material{},
		productByID:    map[string]*entity.Product{},
		productBySKU:   map[string]string{},
	}
}

// clone copia slices e índices; los registros se tratan como inmutables y se
// reemplazan (no se modifican) al actualizar.
func (st *state) clone() *state {
	c := &state{
		categories:     append([]*entity.Category(nil), st.categories...),
		categoryByID:   make(map[string]*entity.Category, len(st.categoryByID)),
		categoryByName: make(map[string]*entity.Category, len(st.categoryByName)),
		materials:      append([]*entity.Material(nil), st.materials...),
		materialByID:   make(map[string]*entity.Material, len(st.materialByID)),
		materialByName: make(map[string]*entity.Material, len(st.materialByName)),
		products:       append([]*entity.Product(nil), st.products...),
		productByID:    make(map[string]*entity.Product, len(st.productByID)),
		productBySKU:   make(map[string]string, len(st.productBySKU)),
		version:        st.version,
	}
	for k, v := range st.categoryByID {
		c.categoryByID[k] = v
	}
	for k, v := range st.categoryByName {
		c.categoryByName[k] = v
	}
	for k, v := range st.materialByID {
		c.materialByID[k] = v
	}
	for k, v := range st.materialByName {
		c.materialByName[k] = v
	}
	for k, v := range st.productByID {
		c.productByID[k] = v
	}
	for k, v := range st.productBySKU {
		c.productBySKU[k] = v
	}
	return c
}

func (st *state) repositories(now func() time.Time, readOnly bool) repository.Repositories {
	return repository.Repositories{
		Categories: &CategoryRepo{st: st, now: now, readOnly: readOnly},
		Materials:  &MaterialRepo{st: st, now: now, readOnly: readOnly},
		Products:   &ProductRepo{st: st, readOnly: readOnly},
	}
}

// resolve devuelve una copia del producto con la categoría y los materiales actuales.
func (st *state) resolve(p *entity.Product) *entity.Product {
	out := p.Clone()
	out.Category = st.categoryByID[p.CategoryID]
	out.Materials = make([]*entity.Material, 0, len(p.MaterialIDs))
	for _, id := range p.MaterialIDs {
		if m, ok := st.materialByID[id]; ok {
			out.Materials = append(out.Materials, m)
		}
	}
	return out
}
