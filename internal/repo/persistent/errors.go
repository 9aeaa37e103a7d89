package persistent

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// isForeignKeyViolation reports a write that points at a missing owner or category.
func isForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}
