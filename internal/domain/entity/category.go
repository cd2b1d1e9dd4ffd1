package entity

import "time"

// Category clasifica productos. Única por nombre (coincidencia exacta, sensible a mayúsculas).
// Se crea bajo demanda (get-or-create) y no se elimina.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
