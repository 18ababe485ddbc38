package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/eleven-am/keep/internal/domain"
)

// translateError converts driver-level failures into domain errors.
// sql.ErrNoRows becomes a NotFoundError for the given resource; anything
// unrecognized becomes an OperationFailedError so callers never see raw
// storage exceptions.
func translateError(err error, op, resource, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFound(resource, id)
	}
	return domain.NewOperationFailed(op, err)
}

// isUniqueViolation reports whether err is a unique-constraint violation.
// Postgres is detected by SQLSTATE 23505; sqlite by message, the same way
// the driver itself reports it.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
