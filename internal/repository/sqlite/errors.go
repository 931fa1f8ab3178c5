package sqlite

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// constraintKind classifies a SQLite constraint failure. The zero value means
// err is not a constraint failure.
type constraintKind int

const (
	notConstraint constraintKind = iota
	uniqueConstraint
	foreignKeyConstraint
	otherConstraint
)

func classify(err error) (constraintKind, string) {
	var serr *msqlite.Error
	if !errors.As(err, &serr) {
		return notConstraint, ""
	}
	if serr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return notConstraint, ""
	}

	msg := serr.Error()
	switch {
	case serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		strings.Contains(msg, "UNIQUE constraint failed"):
		return uniqueConstraint, msg
	case serr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return foreignKeyConstraint, msg
	default:
		return otherConstraint, msg
	}
}
