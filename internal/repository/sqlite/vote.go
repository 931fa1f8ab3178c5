package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/linkvote/internal/domain"
)

// voteRepo implements domain.VoteRepository using SQLite.
type voteRepo struct {
	db *sql.DB
}

func (r *voteRepo) Cast(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ProviderError("begin tx", err)
	}
	defer tx.Rollback()

	if err := rowExists(ctx, tx, "SELECT 1 FROM users WHERE id = ?", vote.UserID); err != nil {
		return fmt.Errorf("user %d: %w", vote.UserID, err)
	}
	if err := rowExists(ctx, tx, "SELECT 1 FROM contents WHERE id = ?", vote.ContentID); err != nil {
		return fmt.Errorf("content %d: %w", vote.ContentID, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (user_id, content_id, up_vote, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		vote.UserID, vote.ContentID, vote.UpVote, now, now,
	)
	if err != nil {
		switch kind, msg := classify(err); kind {
		case uniqueConstraint:
			return domain.ErrDuplicateVote
		case foreignKeyConstraint:
			return domain.ErrNotFound
		case otherConstraint:
			return domain.Constraint("%s", msg)
		}
		return domain.ProviderError("insert vote", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.ProviderError("commit", err)
	}

	vote.CreatedAt = now
	vote.UpdatedAt = now
	return nil
}

func (r *voteRepo) Get(ctx context.Context, userID, contentID int64) (*domain.Vote, error) {
	v := &domain.Vote{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, content_id, up_vote, created_at, updated_at
		 FROM votes WHERE user_id = ? AND content_id = ?`, userID, contentID,
	).Scan(&v.UserID, &v.ContentID, &v.UpVote, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ProviderError("get vote", err)
	}
	return v, nil
}

func (r *voteRepo) Tally(ctx context.Context, contentID int64) (domain.Tally, error) {
	t := domain.Tally{ContentID: contentID}

	var exists int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM contents WHERE id = ?", contentID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.ErrNotFound
		}
		return t, domain.ProviderError("lookup content", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN up_vote = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN up_vote = 0 THEN 1 ELSE 0 END), 0)
		 FROM votes WHERE content_id = ?`, contentID,
	).Scan(&t.Up, &t.Down)
	if err != nil {
		return t, domain.ProviderError("tally votes", err)
	}
	return t, nil
}
