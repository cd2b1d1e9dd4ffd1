// Package catalog contiene las reglas puras del catálogo: validación de payloads de
// producto y agregación de estadísticas. No accede a almacenamiento; el estado
// necesario (taxonomía y SKUs existentes) se recibe como argumento.
package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// MaxPrice mayor precio almacenable (NUMERIC(12,2)); rige igual para todos los almacenamientos.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// ProductPayload entrada tipada para crear o actualizar un producto.
// Price es el texto recibido; nil significa ausente.
type ProductPayload struct {
	SKU         string   `json:"SKU" validate:"required"`
	Name        string   `json:"product_name" validate:"required"`
	CategoryID  string   `json:"category_id" validate:"required"`
	MaterialIDs []string `json:"material_ids" validate:"required,min=1,dive,required"`
	Price       *string  `json:"price" validate:"-"`
	Status      string   `json:"status" validate:"omitempty,oneof=active inactive"`
	MediaURL    string   `json:"media_url" validate:"omitempty,url"`
}

// State estado actual necesario para validar referencias y unicidad.
// Puede contener solo el subconjunto relevante para el payload.
type State struct {
	Categories map[string]*entity.Category
	Materials  map[string]*entity.Material
	SKUs       map[string]string // SKU -> ID del producto que lo usa
}

// NewState construye un State vacío.
func NewState() State {
	return State{
		Categories: map[string]*entity.Category{},
		Materials:  map[string]*entity.Material{},
		SKUs:       map[string]string{},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los nombres de campo en las violaciones son los del contrato JSON.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateCreate valida un payload de creación. Recoge todas las violaciones.
func ValidateCreate(in ProductPayload, state State) (*entity.ValidatedProduct, error) {
	in = normalize(in)
	price, violations := checkFields(in, state)
	if in.SKU != "" {
		if _, taken := state.SKUs[in.SKU]; taken {
			violations = append(violations, domain.Violation{
				Field: "SKU", Kind: domain.ViolationDuplicateSKU,
				Message: "el SKU " + in.SKU + " ya existe",
			})
		}
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return toValidated(in, price), nil
}

// ValidateUpdate valida un payload de actualización sobre un producto existente.
// El SKU no es mutable: si el payload trae otro valor se ignora y se conserva el actual.
func ValidateUpdate(existing *entity.Product, in ProductPayload, state State) (*entity.ValidatedProduct, error) {
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	in.SKU = existing.SKU
	in = normalize(in)
	price, violations := checkFields(in, state)
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return toValidated(in, price), nil
}

// normalize recorta espacios, pasa el estado a minúsculas y elimina materiales repetidos (conservando el primer orden).
func normalize(in ProductPayload) ProductPayload {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.MediaURL = strings.TrimSpace(in.MediaURL)
	if in.Status == "" {
		in.Status = string(entity.ProductStatusActive)
	}
	if in.MaterialIDs != nil {
		seen := make(map[string]struct{}, len(in.MaterialIDs))
		ids := make([]string, 0, len(in.MaterialIDs))
		for _, id := range in.MaterialIDs {
			id = strings.TrimSpace(id)
			if _, dup := seen[id]; dup && id != "" {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		in.MaterialIDs = ids
	}
	return in
}

// checkFields evalúa las reglas de campo y de integridad referencial de forma independiente.
// Devuelve el precio redondeado a 2 decimales cuando es válido.
func checkFields(in ProductPayload, state State) (*decimal.Decimal, []domain.Violation) {
	var violations []domain.Violation
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, []domain.Violation{{Field: "payload", Kind: domain.ViolationRequired, Message: err.Error()}}
		}
		for _, fe := range fieldErrs {
			violations = append(violations, fieldViolation(fe))
		}
	}

	price, v := checkPrice(in.Price)
	if v != nil {
		violations = append(violations, *v)
	}

	if in.CategoryID != "" {
		if _, ok := state.Categories[in.CategoryID]; !ok {
			violations = append(violations, domain.Violation{
				Field: "category_id", Kind: domain.ViolationUnknownCategory,
				Message: "la categoría " + in.CategoryID + " no existe",
			})
		}
	}
	for i, id := range in.MaterialIDs {
		if id == "" {
			continue
		}
		if _, ok := state.Materials[id]; !ok {
			violations = append(violations, domain.Violation{
				Field: fmt.Sprintf("material_ids[%d]", i), Kind: domain.ViolationUnknownMaterial,
				Message: "el material " + id + " no existe",
			})
		}
	}
	return price, violations
}

// checkPrice interpreta el precio, lo redondea a 2 decimales (mitad lejos de cero) y
// verifica el rango [0, MaxPrice].
func checkPrice(raw *string) (*decimal.Decimal, *domain.Violation) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, &domain.Violation{Field: "price", Kind: domain.ViolationRequired, Message: "el precio es requerido"}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, &domain.Violation{Field: "price", Kind: domain.ViolationInvalidPrice,
			Message: fmt.Sprintf("el precio %q no es un número", *raw)}
	}
	d = d.Round(2)
	switch {
	case d.IsNegative():
		return nil, &domain.Violation{Field: "price", Kind: domain.ViolationNegativePrice,
			Message: fmt.Sprintf("el precio %s no puede ser negativo", d.StringFixed(2))}
	case d.GreaterThan(MaxPrice):
		return nil, &domain.Violation{Field: "price", Kind: domain.ViolationPriceOutOfRange,
			Message: "el precio no puede superar " + MaxPrice.StringFixed(2)}
	}
	return &d, nil
}

func fieldViolation(fe validator.FieldError) domain.Violation {
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, ".") {
		_, field, _ = strings.Cut(ns, ".")
	}
	switch fe.Tag() {
	case "oneof":
		return domain.Violation{Field: field, Kind: domain.ViolationInvalidStatus,
			Message: "el estado debe ser active o inactive"}
	case "url":
		return domain.Violation{Field: field, Kind: domain.ViolationInvalidURL,
			Message: "media_url debe ser una URL absoluta válida"}
	default:
		return domain.Violation{Field: field, Kind: domain.ViolationRequired,
			Message: "el campo es requerido"}
	}
}

func toValidated(in ProductPayload, price *decimal.Decimal) *entity.ValidatedProduct {
	return &entity.ValidatedProduct{
		SKU:         in.SKU,
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		MaterialIDs: append([]string(nil), in.MaterialIDs...),
		Price:       *price,
		Status:      entity.ProductStatus(in.Status),
		MediaURL:    in.MediaURL,
	}
}
