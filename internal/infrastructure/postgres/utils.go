package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNumericOutOfRange   = "22003"
	constraintProductSKU    = "products_sku_key"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
// Con constraint vacío acepta cualquier índice único.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// isNumericOutOfRange verifica si un valor excede la precisión de la columna (22003).
func isNumericOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeNumericOutOfRange
}

// validUUID evita enviar a PostgreSQL identificadores que no son UUID (22P02);
// un ID mal formado simplemente no existe.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validUUIDs filtra los identificadores válidos.
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validUUID(id) {
			out = append(out, id)
		}
	}
	return out
}
