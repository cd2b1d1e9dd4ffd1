package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// TaxonomyUseCase categorías y materiales: listas append-only con nombres únicos.
type TaxonomyUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewTaxonomyUseCase construye el caso de uso.
func NewTaxonomyUseCase(tx TxRunner, log *logger.Logger) *TaxonomyUseCase {
	return &TaxonomyUseCase{tx: tx, log: log.Component("taxonomy")}
}

// ListCategories lista las categorías en orden de creación.
func (uc *TaxonomyUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var list []*entity.Category
	err := uc.tx.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Categories.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// GetOrCreateCategory devuelve la categoría con ese nombre, creándola si no existe.
// created indica si se insertó. Nombre vacío = domain.ErrInvalidInput.
func (uc *TaxonomyUseCase) GetOrCreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, bool, error) {
	name := strings.TrimSpace(in.CategoryName)
	if name == "" {
		return nil, false, fmt.Errorf("%w: category_name es requerido", domain.ErrInvalidInput)
	}
	var cat *entity.Category
	var created bool
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		cat, created, err = repos.Categories.GetOrCreate(ctx, name)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("get or create category: %w", err)
	}
	if created {
		uc.log.Info().Str("category_id", cat.ID).Str("name", cat.Name).Msg("categoría creada")
	}
	out := toCategoryResponse(cat)
	return &out, created, nil
}

// ListMaterials lista los materiales en orden de creación.
func (uc *TaxonomyUseCase) ListMaterials(ctx context.Context) ([]dto.MaterialResponse, error) {
	var list []*entity.Material
	err := uc.tx.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Materials.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMaterialResponse(m))
	}
	return out, nil
}

// GetOrCreateMaterial devuelve el material con ese nombre, creándolo si no existe.
func (uc *TaxonomyUseCase) GetOrCreateMaterial(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, bool, error) {
	name := strings.TrimSpace(in.MaterialName)
	if name == "" {
		return nil, false, fmt.Errorf("%w: material_name es requerido", domain.ErrInvalidInput)
	}
	var mat *entity.Material
	var created bool
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		mat, created, err = repos.Materials.GetOrCreate(ctx, name)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("get or create material: %w", err)
	}
	if created {
		uc.log.Info().Str("material_id", mat.ID).Str("name", mat.Name).Msg("material creado")
	}
	out := toMaterialResponse(mat)
	return &out, created, nil
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{CategoryID: c.ID, CategoryName: c.Name, CreatedAt: c.CreatedAt}
}

func toMaterialResponse(m *entity.Material) dto.MaterialResponse {
	return dto.MaterialResponse{MaterialID: m.ID, MaterialName: m.Name, CreatedAt: m.CreatedAt}
}
