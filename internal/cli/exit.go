package cli

import (
	"errors"
	"flag"
	"io"

	"github.com/msomdec/linkvote/internal/domain"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitNotFound   = 3
	ExitConstraint = 4
	ExitDuplicate  = 5
)

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, domain.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, domain.ErrDuplicateVote):
		return ExitDuplicate
	case errors.Is(err, domain.ErrConstraintViolation):
		return ExitConstraint
	}
	return ExitFailure
}

// Kind names the error kind for machine-readable output.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "usage"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, domain.ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, domain.ErrProvider):
		return "provider"
	}
	return "internal"
}

// WriteError reports err on w as JSON.
func WriteError(w io.Writer, err error) {
	writeJSON(w, errorBody{Error: err.Error(), Kind: Kind(err)})
}
