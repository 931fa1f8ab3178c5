package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/msomdec/linkvote/internal/domain"
)

// SQLSTATE class 23 codes.
const (
	notNullViolation    = "23502"
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	checkViolation      = "23514"
)

// pqError returns the *pq.Error in err's chain, if any.
func pqError(err error) *pq.Error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr
	}
	return nil
}

// translate maps constraint failures to domain errors. Anything else is an
// opaque provider error.
func translate(op string, err error) error {
	pqErr := pqError(err)
	if pqErr == nil {
		return domain.ProviderError(op, err)
	}
	switch string(pqErr.Code) {
	case uniqueViolation:
		if pqErr.Constraint == "votes_pkey" {
			return domain.ErrDuplicateVote
		}
		return domain.Constraint("%s violates %s", pqErr.Table, pqErr.Constraint)
	case foreignKeyViolation:
		return domain.ErrNotFound
	case notNullViolation, checkViolation:
		return domain.Constraint("%s", pqErr.Message)
	}
	return domain.ProviderError(op, err)
}

// rowExists runs a single-row lookup inside tx and maps an empty result to
// domain.ErrNotFound.
func rowExists(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return domain.ProviderError("lookup", err)
	}
	return nil
}
