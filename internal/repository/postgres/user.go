package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/msomdec/linkvote/internal/domain"
)

type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Username, nullString(user.Email), user.PasswordHash, now, now,
	).Scan(&user.ID)
	if err != nil {
		if pqErr := pqError(err); pqErr != nil && string(pqErr.Code) == uniqueViolation {
			if pqErr.Constraint == "users_email_key" {
				return domain.Constraint("email %q already exists", user.Email)
			}
			return domain.Constraint("username %q already exists", user.Username)
		}
		return translate("insert user", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "query user by id", `WHERE id = $1`, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "query user by username", `WHERE username = $1`, username)
}

func (r *userRepo) getOne(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	var email sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users `+where, arg,
	).Scan(&user.ID, &user.Username, &email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ProviderError(op, err)
	}
	user.Email = email.String
	return user, nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return domain.ProviderError("delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.ProviderError("rows affected", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nullString stores an empty email as NULL so the UNIQUE constraint only
// applies to users that have one.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
