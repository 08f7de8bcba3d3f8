package dbx

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == uniqueViolation
	}
	return false
}

// IsUUID reports whether id can be stored in a uuid column. Repositories use
// it to treat malformed ids as absent records instead of driver errors.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
