package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/roysafi/poll/internal/core/domain"
)

type PollRepository interface {
	// FetchActivePoll returns the most recently created active poll, or nil
	// when no poll is active.
	FetchActivePoll(ctx context.Context) (*domain.Poll, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	List(ctx context.Context) ([]*domain.Poll, error)
	// Save inserts a new poll. When the poll is active every other poll is
	// deactivated in the same transaction.
	Save(ctx context.Context, poll *domain.Poll) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type PollService interface {
	// GetActivePollWithResults returns nil when there is no active poll. A
	// non-nil ward restricts the tallies to votes cast with that ward label.
	GetActivePollWithResults(ctx context.Context, ward *string) (*domain.PollResults, error)
	WardBreakdown(ctx context.Context) (*domain.PollResults, []domain.WardResults, error)
}

type CreatePollInput struct {
	Slug     string
	Question string
	Options  []string
	Active   bool
}

type AdminService interface {
	CreatePoll(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	ActivatePoll(ctx context.Context, id string) (*domain.Poll, error)
	DeactivatePoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context) ([]*domain.Poll, error)
}
