package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
)

// TaxonomyHandler categorías y materiales.
type TaxonomyHandler struct {
	uc *usecase.TaxonomyUseCase
}

// NewTaxonomyHandler construye el handler.
func NewTaxonomyHandler(uc *usecase.TaxonomyUseCase) *TaxonomyHandler {
	return &TaxonomyHandler{uc: uc}
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *TaxonomyHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Obtener o crear categoría
// @Description  Idempotente por nombre: 201 si se creó, 200 si ya existía.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Nombre de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, created, err := h.uc.GetOrCreateCategory(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(createdStatus(created)).JSON(out)
}

// ListMaterials godoc
// @Summary      Listar materiales
// @Tags         materials
// @Produce      json
// @Success      200  {array}  dto.MaterialResponse
// @Router       /api/materials [get]
func (h *TaxonomyHandler) ListMaterials(c *fiber.Ctx) error {
	out, err := h.uc.ListMaterials(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateMaterial godoc
// @Summary      Obtener o crear material
// @Description  Idempotente por nombre: 201 si se creó, 200 si ya existía.
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Nombre del material"
// @Success      201   {object}  dto.MaterialResponse
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *TaxonomyHandler) CreateMaterial(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, created, err := h.uc.GetOrCreateMaterial(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(createdStatus(created)).JSON(out)
}

func createdStatus(created bool) int {
	if created {
		return fiber.StatusCreated
	}
	return fiber.StatusOK
}
