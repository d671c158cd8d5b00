package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

// SubmitVote records one vote for the active poll. Nothing is written unless
// every check passes.
func (s *voteService) SubmitVote(ctx context.Context, input ports.VoteInput) error {
	if input.ChoiceIndex == nil {
		return domain.ErrChoiceIndexRequired
	}
	index := *input.ChoiceIndex

	poll, err := s.pollRepo.FetchActivePoll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch active poll: %w", err)
	}
	if poll == nil {
		return domain.ErrNoActivePoll
	}
	if !poll.ValidChoice(index) {
		return domain.ErrInvalidChoiceIndex
	}

	vote := &domain.Vote{
		ID:          uuid.New(),
		PollID:      poll.ID,
		Ward:        input.Ward,
		ChoiceIndex: index,
		ChoiceLabel: poll.Options[index],
		CreatedAt:   time.Now(),
	}
	return s.voteRepo.InsertVote(ctx, vote)
}
