package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
)

// writeError traduce un error de dominio a su respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		status, code := fiber.StatusUnprocessableEntity, "VALIDATION"
		if verr.Has(domain.ViolationDuplicateSKU) {
			status, code = fiber.StatusConflict, "DUPLICATE_SKU"
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:       code,
			Message:    "el producto no cumple las reglas del catálogo",
			Violations: toViolations(verr.Violations),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	default:
		c.Locals(localsError, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func toViolations(vs []domain.Violation) []dto.ViolationResponse {
	out := make([]dto.ViolationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, dto.ViolationResponse{Field: v.Field, Kind: string(v.Kind), Message: v.Message})
	}
	return out
}

// errorHandler respuesta para errores no manejados por los handlers (rutas inexistentes, panics recuperados).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = "INVALID_INPUT"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	c.Locals(localsError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
