package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/roysafi/poll/internal/core/domain"
)

type VoteRepository interface {
	// InsertVote appends a vote. It fails with domain.ErrNoActivePoll when the
	// referenced poll is no longer active or the choice index no longer fits.
	InsertVote(ctx context.Context, vote *domain.Vote) error
	FetchVoteCounts(ctx context.Context, pollID uuid.UUID, ward *string) (map[int]int64, error)
	FetchWardVoteCounts(ctx context.Context, pollID uuid.UUID) ([]domain.WardCount, error)
}

type VoteInput struct {
	ChoiceIndex *int
	Ward        *string
}

type VoteService interface {
	SubmitVote(ctx context.Context, input VoteInput) error
}
