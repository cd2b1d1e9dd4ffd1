package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrValidation           = errors.New("validación fallida")
	ErrDuplicateSKU         = errors.New("el SKU ya existe")
	ErrReferentialIntegrity = errors.New("referencia a categoría o material inexistente")
)

// ViolationKind identifica de forma estable (legible por máquina) la regla incumplida.
type ViolationKind string

const (
	ViolationRequired        ViolationKind = "required"
	ViolationDuplicateSKU    ViolationKind = "duplicate_sku"
	ViolationUnknownCategory ViolationKind = "unknown_category"
	ViolationUnknownMaterial ViolationKind = "unknown_material"
	ViolationNegativePrice   ViolationKind = "negative_price"
	ViolationInvalidPrice    ViolationKind = "invalid_price"
	ViolationPriceOutOfRange ViolationKind = "price_out_of_range"
	ViolationInvalidStatus   ViolationKind = "invalid_status"
	ViolationInvalidURL      ViolationKind = "invalid_url"
)

// Violation una regla incumplida sobre un campo del payload.
type Violation struct {
	Field   string
	Kind    ViolationKind
	Message string
}

// ValidationError agrupa todas las violaciones detectadas (nunca solo la primera).
//
// errors.Is(err, ErrValidation) siempre es verdadero; ErrDuplicateSKU y
// ErrReferentialIntegrity se reportan según el tipo de las violaciones.
type ValidationError struct {
	Violations []Violation
}

// NewDuplicateSKUError construye el error para un SKU ya registrado.
func NewDuplicateSKUError(sku string) *ValidationError {
	return &ValidationError{Violations: []Violation{{
		Field:   "SKU",
		Kind:    ViolationDuplicateSKU,
		Message: "el SKU " + sku + " ya existe",
	}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Has indica si alguna violación es del tipo indicado.
func (e *ValidationError) Has(kind ViolationKind) bool {
	for _, v := range e.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrDuplicateSKU:
		return e.Has(ViolationDuplicateSKU)
	case ErrReferentialIntegrity:
		return e.Has(ViolationUnknownCategory) || e.Has(ViolationUnknownMaterial)
	}
	return false
}
