// Package memory holds an in-process implementation of the poll, vote and
// visit repositories. It backs local runs without a database and the service
// and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roysafi/poll/internal/core/domain"
)

type Store struct {
	mu     sync.RWMutex
	polls  []*domain.Poll
	votes  []domain.Vote
	visits []domain.Visit
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) FetchActivePoll(ctx context.Context) (*domain.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active *domain.Poll
	for _, p := range s.polls {
		if !p.IsActive {
			continue
		}
		if active == nil || p.CreatedAt.After(active.CreatedAt) {
			active = p
		}
	}
	if active == nil {
		return nil, nil
	}
	return clonePoll(active), nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.find(id)
	if p == nil {
		return nil, domain.ErrPollNotFound
	}
	return clonePoll(p), nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polls := make([]*domain.Poll, 0, len(s.polls))
	for _, p := range s.polls {
		polls = append(polls, clonePoll(p))
	}
	sort.SliceStable(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (s *Store) Save(ctx context.Context, poll *domain.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.polls {
		if p.Slug == poll.Slug {
			return domain.ErrSlugTaken
		}
	}
	if poll.IsActive {
		s.deactivateAll()
	}
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now()
	}
	s.polls = append(s.polls, clonePoll(poll))
	return nil
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return domain.ErrPollNotFound
	}
	if active {
		s.deactivateAll()
	}
	p.IsActive = active
	return nil
}

func (s *Store) InsertVote(ctx context.Context, vote *domain.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(vote.PollID)
	if p == nil || !p.IsActive || !p.ValidChoice(vote.ChoiceIndex) {
		return domain.ErrNoActivePoll
	}
	v := *vote
	if v.Ward != nil {
		ward := *v.Ward
		v.Ward = &ward
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	s.votes = append(s.votes, v)
	return nil
}

func (s *Store) FetchVoteCounts(ctx context.Context, pollID uuid.UUID, ward *string) (map[int]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int64)
	for _, v := range s.votes {
		if v.PollID != pollID {
			continue
		}
		if ward != nil && (v.Ward == nil || *v.Ward != *ward) {
			continue
		}
		counts[v.ChoiceIndex]++
	}
	return counts, nil
}

func (s *Store) FetchWardVoteCounts(ctx context.Context, pollID uuid.UUID) ([]domain.WardCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct {
		hasWard bool
		ward    string
		index   int
	}
	counts := make(map[key]int64)
	var order []key
	for _, v := range s.votes {
		if v.PollID != pollID {
			continue
		}
		k := key{index: v.ChoiceIndex}
		if v.Ward != nil {
			k.hasWard, k.ward = true, *v.Ward
		}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}

	rows := make([]domain.WardCount, 0, len(order))
	for _, k := range order {
		row := domain.WardCount{ChoiceIndex: k.index, Votes: counts[k]}
		if k.hasWard {
			ward := k.ward
			row.Ward = &ward
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) InsertVisit(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visits = append(s.visits, domain.Visit{
		ID:        int64(len(s.visits) + 1),
		Path:      path,
		CreatedAt: time.Now(),
	})
	return nil
}

func (s *Store) CountVisits(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.visits)), nil
}

// VoteCount returns the number of stored votes across all polls.
func (s *Store) VoteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.votes)
}

func (s *Store) find(id uuid.UUID) *domain.Poll {
	for _, p := range s.polls {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) deactivateAll() {
	for _, p := range s.polls {
		p.IsActive = false
	}
}

func clonePoll(p *domain.Poll) *domain.Poll {
	c := *p
	c.Options = append([]string(nil), p.Options...)
	return &c
}
