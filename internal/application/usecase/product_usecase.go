package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD de productos. Toda mutación pasa por la validación
// del catálogo dentro de la misma transacción que la persiste.
type ProductUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx TxRunner, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{
		tx:  tx,
		log: log.Component("products"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create valida y registra un nuevo producto.
// Errores: *domain.ValidationError (incluye SKU duplicado).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	payload := toPayload(in)
	var created *entity.Product
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		state, err := loadState(ctx, repos, payload)
		if err != nil {
			return err
		}
		v, err := catalog.ValidateCreate(payload, state)
		if err != nil {
			return err
		}
		now := uc.now()
		p := &entity.Product{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		apply(p, v, state)
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		uc.logRejected("create", payload.SKU, err)
		return nil, err
	}
	uc.log.Info().Str("product_id", created.ID).Str("sku", created.SKU).Msg("producto creado")
	return toProductResponse(created), nil
}

// Update reemplaza los campos mutables de un producto. El SKU es inmutable: un valor
// distinto en el payload se ignora.
// Errores: domain.ErrNotFound, *domain.ValidationError.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	payload := toPayload(in)
	var updated *entity.Product
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if sku := strings.TrimSpace(payload.SKU); sku != "" && sku != existing.SKU {
			uc.log.Debug().Str("product_id", id).Str("sku", existing.SKU).Str("ignored_sku", sku).
				Msg("cambio de SKU ignorado")
		}
		payload.SKU = existing.SKU
		state, err := loadState(ctx, repos, payload)
		if err != nil {
			return err
		}
		v, err := catalog.ValidateUpdate(existing, payload, state)
		if err != nil {
			return err
		}
		p := existing.Clone()
		apply(p, v, state)
		p.UpdatedAt = uc.now()
		if err := repos.Products.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		uc.logRejected("update", id, err)
		return nil, err
	}
	uc.log.Info().Str("product_id", updated.ID).Str("sku", updated.SKU).Msg("producto actualizado")
	return toProductResponse(updated), nil
}

// Delete elimina un producto. Un segundo borrado devuelve domain.ErrNotFound.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		uc.logRejected("delete", id, err)
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// GetByID obtiene un producto con sus referencias resueltas.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if p == nil {
			return domain.ErrNotFound
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List devuelve una página filtrada y ordenada más el total sin paginar.
// Errores: domain.ErrInvalidInput para estado o campo de orden desconocidos.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.Normalize()
	q, err := toProductQuery(in)
	if err != nil {
		return nil, err
	}
	var page *repository.ProductPage
	err = uc.tx.ReadSnapshot(ctx, func(repos repository.Repositories) error {
		var err error
		page, err = repos.Products.Query(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Products:      items,
		TotalProducts: page.Total,
		Page:          in.Page,
		Limit:         in.Limit,
	}, nil
}

func (uc *ProductUseCase) logRejected(op, ref string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		uc.log.Debug().Str("op", op).Str("ref", ref).Int("violations", len(verr.Violations)).
			Bool("duplicate_sku", verr.Has(domain.ViolationDuplicateSKU)).Msg("producto rechazado")
	case errors.Is(err, domain.ErrNotFound):
		uc.log.Debug().Str("op", op).Str("ref", ref).Msg("producto no encontrado")
	default:
		uc.log.Error().Err(err).Str("op", op).Str("ref", ref).Msg("operación de producto fallida")
	}
}

// loadState carga solo la parte del catálogo que el payload referencia.
func loadState(ctx context.Context, repos repository.Repositories, in catalog.ProductPayload) (catalog.State, error) {
	state := catalog.NewState()
	if id := strings.TrimSpace(in.CategoryID); id != "" {
		c, err := repos.Categories.GetByID(ctx, id)
		if err != nil {
			return state, fmt.Errorf("get category: %w", err)
		}
		if c != nil {
			state.Categories[c.ID] = c
		}
	}
	ids := make([]string, 0, len(in.MaterialIDs))
	for _, id := range in.MaterialIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		mats, err := repos.Materials.GetByIDs(ctx, ids)
		if err != nil {
			return state, fmt.Errorf("get materials: %w", err)
		}
		for _, m := range mats {
			state.Materials[m.ID] = m
		}
	}
	if sku := strings.TrimSpace(in.SKU); sku != "" {
		p, err := repos.Products.GetBySKU(ctx, sku)
		if err != nil {
			return state, fmt.Errorf("get product by sku: %w", err)
		}
		if p != nil {
			state.SKUs[p.SKU] = p.ID
		}
	}
	return state, nil
}

// apply copia los campos validados al producto y resuelve sus referencias.
func apply(p *entity.Product, v *entity.ValidatedProduct, state catalog.State) {
	if p.SKU == "" {
		p.SKU = v.SKU
	}
	p.Name = v.Name
	p.CategoryID = v.CategoryID
	p.MaterialIDs = v.MaterialIDs
	p.Price = v.Price
	p.Status = v.Status
	p.MediaURL = v.MediaURL
	p.Category = state.Categories[v.CategoryID]
	p.Materials = make([]*entity.Material, 0, len(v.MaterialIDs))
	for _, id := range v.MaterialIDs {
		p.Materials = append(p.Materials, state.Materials[id])
	}
}

func toPayload(in dto.ProductRequest) catalog.ProductPayload {
	return catalog.ProductPayload{
		SKU:         in.SKU,
		Name:        in.ProductName,
		CategoryID:  in.CategoryID,
		MaterialIDs: in.MaterialIDs,
		Price:       in.PriceText(),
		Status:      in.Status,
		MediaURL:    in.MediaURL,
	}
}

// toProductQuery traduce los parámetros HTTP a la consulta del repositorio.
func toProductQuery(in dto.ProductListRequest) (repository.ProductQuery, error) {
	q := repository.ProductQuery{
		Filter: repository.ProductFilter{
			SKU:        strings.TrimSpace(in.SKU),
			Name:       strings.TrimSpace(in.ProductName),
			CategoryID: strings.TrimSpace(in.CategoryID),
			MaterialID: materialFilter(in),
		},
		Page: repository.PageRequest{Page: in.Page, Size: in.Limit},
	}
	// El estado se compara en minúsculas, igual que en la validación de productos.
	if s := strings.ToLower(strings.TrimSpace(in.Status)); s != "" {
		status := entity.ProductStatus(s)
		if !status.Valid() {
			return q, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
		}
		q.Filter.Status = status
	}

	field := strings.TrimSpace(in.Sort)
	if strings.HasPrefix(field, "-") {
		field = strings.TrimPrefix(field, "-")
		q.Sort.Desc = true
	}
	q.Sort.Field = repository.SortField(field)
	if !q.Sort.Field.Valid() {
		return q, fmt.Errorf("%w: campo de orden %q", domain.ErrInvalidInput, in.Sort)
	}
	switch strings.ToLower(strings.TrimSpace(in.Order)) {
	case "":
	case "asc":
		q.Sort.Desc = false
	case "desc":
		q.Sort.Desc = true
	default:
		return q, fmt.Errorf("%w: orden %q", domain.ErrInvalidInput, in.Order)
	}
	return q, nil
}

// materialFilter prioriza material_ids (front-end) sobre el alias material_id.
func materialFilter(in dto.ProductListRequest) string {
	if id := strings.TrimSpace(in.MaterialIDs); id != "" {
		return id
	}
	return strings.TrimSpace(in.MaterialID)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		ProductName: p.Name,
		CategoryID:  p.CategoryID,
		MaterialIDs: append([]string{}, p.MaterialIDs...),
		Materials:   make([]dto.MaterialRef, 0, len(p.Materials)),
		Price:       dto.NewMoney(p.Price),
		Status:      string(p.Status),
		MediaURL:    p.MediaURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		out.Category = &dto.CategoryRef{CategoryID: p.Category.ID, CategoryName: p.Category.Name}
	}
	for _, m := range p.Materials {
		if m != nil {
			out.Materials = append(out.Materials, dto.MaterialRef{MaterialID: m.ID, MaterialName: m.Name})
		}
	}
	return out
}
