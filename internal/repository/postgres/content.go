package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/linkvote/internal/domain"
)

type contentRepo struct {
	db *sql.DB
}

func (r *contentRepo) CreateForOwner(ctx context.Context, ownerID int64, content *domain.Content) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ProviderError("begin tx", err)
	}
	defer tx.Rollback()

	// FOR KEY SHARE keeps the owner from being deleted before commit.
	if err := rowExists(ctx, tx, "SELECT 1 FROM users WHERE id = $1 FOR KEY SHARE", ownerID); err != nil {
		return fmt.Errorf("owner %d: %w", ownerID, err)
	}

	var id int64
	now := time.Now().UTC().Truncate(time.Microsecond)
	err = tx.QueryRowContext(ctx,
		`INSERT INTO contents (owner_id, url, title, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		ownerID, content.URL, content.Title, now, now,
	).Scan(&id)
	if err != nil {
		return translate("insert content", err)
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
		 FROM contents WHERE id = $1`, id,
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
		 FROM contents WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
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
	result, err := r.db.ExecContext(ctx, "DELETE FROM contents WHERE id = $1", id)
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
