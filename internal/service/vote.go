package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/linkvote/internal/domain"
)

// VoteService records votes. A user gets one vote per content item and
// cannot change it afterwards.
type VoteService struct {
	votes domain.VoteRepository
}

// NewVoteService creates a new VoteService.
func NewVoteService(votes domain.VoteRepository) *VoteService {
	return &VoteService{votes: votes}
}

// Vote casts userID's vote on contentID. A repeat vote on the same pair
// fails with domain.ErrDuplicateVote and leaves the first vote in place.
func (s *VoteService) Vote(ctx context.Context, contentID, userID int64, up bool) (*domain.Vote, error) {
	vote := &domain.Vote{UserID: userID, ContentID: contentID, UpVote: up}
	if err := s.votes.Cast(ctx, vote); err != nil {
		return nil, fmt.Errorf("vote on content %d: %w", contentID, err)
	}

	slog.DebugContext(ctx, "vote cast", "user_id", userID, "content_id", contentID, "up", up)
	return vote, nil
}

// Tally returns the up and down counts for contentID.
func (s *VoteService) Tally(ctx context.Context, contentID int64) (domain.Tally, error) {
	return s.votes.Tally(ctx, contentID)
}
