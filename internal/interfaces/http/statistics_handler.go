package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
)

// StatisticsHandler agregados del catálogo.
type StatisticsHandler struct {
	uc *usecase.StatisticsUseCase
}

// NewStatisticsHandler construye el handler.
func NewStatisticsHandler(uc *usecase.StatisticsUseCase) *StatisticsHandler {
	return &StatisticsHandler{uc: uc}
}

// Get godoc
// @Summary      Estadísticas del catálogo
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  dto.StatisticsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/statistics [get]
func (h *StatisticsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de estadísticas
// @Tags         statistics
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/statistics/pdf [get]
func (h *StatisticsHandler) Report(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.Report(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
