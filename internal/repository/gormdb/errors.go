package gormdb

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE class 23 codes.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// Constraint names declared on the models.
const (
	usersEmailKey = "users_email_key"
	votesPkey     = "votes_pkey"
)

// pgError returns the *pgconn.PgError in err's chain, if any.
func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// isViolation reports whether err is a Postgres error with the given SQLSTATE.
func isViolation(err error, code string) (*pgconn.PgError, bool) {
	pgErr := pgError(err)
	return pgErr, pgErr != nil && pgErr.Code == code
}
