package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/linkvote/internal/domain"
)

// contentRepo implements domain.ContentRepository using SQLite.
type contentRepo struct {
	db *sql.DB
}

func (r *contentRepo) CreateForOwner(ctx context.Context, ownerID int64, content *domain.Content) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ProviderError("begin tx", err)
	}
	defer tx.Rollback()

	if err := rowExists(ctx, tx, "SELECT 1 FROM users WHERE id = ?", ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("owner %d: %w", ownerID, err)
		}
		return err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	result, err := tx.ExecContext(ctx,
		`INSERT INTO contents (owner_id, url, title, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ownerID, content.URL, content.Title, now, now,
	)
	if err != nil {
		switch kind, msg := classify(err); kind {
		case foreignKeyConstraint:
			return fmt.Errorf("owner %d: %w", ownerID, domain.ErrNotFound)
		case uniqueConstraint, otherConstraint:
			return domain.Constraint("%s", msg)
		}
		return domain.ProviderError("insert content", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.ProviderError("get content id", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.ProviderError("commit", err)
	}

	content.ID = id
	content.OwnerID = ownerID
	content.CreatedAt = now
	content.UpdatedAt = now
	return nil
}

func (r *contentRepo) GetByID(ctx context.Context, id int64) (*domain.Content, error) {
	c := &domain.Content{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, url, title, created_at, updated_at
		 FROM contents WHERE id = ?`, id,
	).Scan(&c.ID, &c.OwnerID, &c.URL, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ProviderError("get content", err)
	}
	return c, nil
}

func (r *contentRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Content, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, url, title, created_at, updated_at
		 FROM contents WHERE owner_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, domain.ProviderError("list contents", err)
	}
	defer rows.Close()

	var contents []domain.Content
	for rows.Next() {
		var c domain.Content
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.URL, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, domain.ProviderError("scan content", err)
		}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ProviderError("iterate contents", err)
	}
	return contents, nil
}

func (r *contentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contents WHERE id = ?", id)
	if err != nil {
		return domain.ProviderError("delete content", err)
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
