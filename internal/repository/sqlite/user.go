package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/msomdec/linkvote/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Username, nullString(user.Email), user.PasswordHash, now, now,
	)
	if err != nil {
		switch kind, msg := classify(err); kind {
		case uniqueConstraint:
			if strings.Contains(msg, "users.email") {
				return domain.Constraint("email %q already exists", user.Email)
			}
			return domain.Constraint("username %q already exists", user.Username)
		case otherConstraint:
			return domain.Constraint("%s", msg)
		}
		return domain.ProviderError("insert user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.ProviderError("get last insert id", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "query user by id", `WHERE id = ?`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "query user by username", `WHERE username = ?`, username)
}

func (r *UserRepository) getOne(ctx context.Context, op, where string, arg any) (*domain.User, error) {
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

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
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
