package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"flatpay-backend/internal/apperrors"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// translateNoRows maps pgx.ErrNoRows to a NotFound with the given
// message and passes other errors through.
func translateNoRows(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound(msg)
	}
	return err
}
