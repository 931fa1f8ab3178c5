package domain

import (
	"context"
	"time"
)

// Vote links a user to a content item with a direction. The pair
// (UserID, ContentID) is the primary key.
type Vote struct {
	UserID    int64     `json:"user_id"`
	ContentID int64     `json:"content_id"`
	UpVote    bool      `json:"up_vote"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tally summarises the votes cast on one content item.
type Tally struct {
	ContentID int64 `json:"content_id"`
	Up        int   `json:"up"`
	Down      int   `json:"down"`
}

// Score is the number of upvotes minus the number of downvotes.
func (t Tally) Score() int {
	return t.Up - t.Down
}

type VoteRepository interface {
	// Cast inserts a vote. Returns ErrNotFound when the user or content
	// does not exist and ErrDuplicateVote when the pair already voted.
	Cast(ctx context.Context, vote *Vote) error
	Get(ctx context.Context, userID, contentID int64) (*Vote, error)
	Tally(ctx context.Context, contentID int64) (Tally, error)
}
