package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

type pollService struct {
	polls ports.PollRepository
	votes ports.VoteRepository
}

func NewPollService(polls ports.PollRepository, votes ports.VoteRepository) ports.PollService {
	return &pollService{
		polls: polls,
		votes: votes,
	}
}

func (s *pollService) GetActivePollWithResults(ctx context.Context, ward *string) (*domain.PollResults, error) {
	poll, err := s.polls.FetchActivePoll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active poll: %w", err)
	}
	if poll == nil {
		return nil, nil
	}

	counts, err := s.votes.FetchVoteCounts(ctx, poll.ID, ward)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vote counts: %w", err)
	}

	results, total := domain.Tally(poll.Options, counts)
	return &domain.PollResults{
		Poll:    poll,
		Results: results,
		Total:   total,
	}, nil
}

func (s *pollService) WardBreakdown(ctx context.Context) (*domain.PollResults, []domain.WardResults, error) {
	poll, err := s.polls.FetchActivePoll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch active poll: %w", err)
	}
	if poll == nil {
		return nil, nil, nil
	}

	rows, err := s.votes.FetchWardVoteCounts(ctx, poll.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch ward vote counts: %w", err)
	}

	type group struct {
		ward   *string
		counts map[int]int64
	}
	groups := make(map[string]*group)
	overall := make(map[int]int64)
	for _, row := range rows {
		key := wardKey(row.Ward)
		g, ok := groups[key]
		if !ok {
			g = &group{ward: row.Ward, counts: make(map[int]int64)}
			groups[key] = g
		}
		g.counts[row.ChoiceIndex] += row.Votes
		overall[row.ChoiceIndex] += row.Votes
	}

	wards := make([]domain.WardResults, 0, len(groups))
	for _, g := range groups {
		results, total := domain.Tally(poll.Options, g.counts)
		wards = append(wards, domain.WardResults{
			Ward:    g.ward,
			Results: results,
			Total:   total,
		})
	}
	sortWards(wards)

	results, total := domain.Tally(poll.Options, overall)
	return &domain.PollResults{Poll: poll, Results: results, Total: total}, wards, nil
}

// wardKey separates votes without a ward from votes with an empty ward label.
func wardKey(ward *string) string {
	if ward == nil {
		return "\x00"
	}
	return "=" + *ward
}

// sortWards orders named wards alphabetically, votes without a ward last.
func sortWards(wards []domain.WardResults) {
	sort.Slice(wards, func(i, j int) bool {
		a, b := wards[i].Ward, wards[j].Ward
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
