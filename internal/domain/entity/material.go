package entity

import "time"

// Material mismo ciclo de vida que Category: único por nombre, creado bajo demanda.
type Material struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
