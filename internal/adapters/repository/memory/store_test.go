package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roysafi/poll/internal/core/domain"
)

func newPoll(slug string, active bool, createdAt time.Time) *domain.Poll {
	return &domain.Poll{
		ID:        uuid.New(),
		Slug:      slug,
		Question:  "Question " + slug,
		Options:   []string{"A", "B"},
		IsActive:  active,
		CreatedAt: createdAt,
	}
}

func TestStore_ActivePollIsSingle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	first := newPoll("first", true, now)
	second := newPoll("second", true, now.Add(time.Second))
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	active, err := s.FetchActivePoll(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	got, err := s.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "saving an active poll deactivates the others")

	require.NoError(t, s.SetActive(ctx, first.ID, true))
	active, err = s.FetchActivePoll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	require.NoError(t, s.SetActive(ctx, first.ID, false))
	active, err = s.FetchActivePoll(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestStore_SlugTaken(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Save(ctx, newPoll("dup", false, time.Now())))
	err := s.Save(ctx, newPoll("dup", false, time.Now()))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestStore_InsertVoteRechecksPoll(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := newPoll("votes", false, time.Now())
	require.NoError(t, s.Save(ctx, p))

	err := s.InsertVote(ctx, &domain.Vote{ID: uuid.New(), PollID: p.ID, ChoiceIndex: 0})
	assert.ErrorIs(t, err, domain.ErrNoActivePoll)

	require.NoError(t, s.SetActive(ctx, p.ID, true))
	err = s.InsertVote(ctx, &domain.Vote{ID: uuid.New(), PollID: p.ID, ChoiceIndex: 2})
	assert.ErrorIs(t, err, domain.ErrNoActivePoll)

	ward := "Zimmerman"
	require.NoError(t, s.InsertVote(ctx, &domain.Vote{ID: uuid.New(), PollID: p.ID, ChoiceIndex: 1, Ward: &ward}))
	require.NoError(t, s.InsertVote(ctx, &domain.Vote{ID: uuid.New(), PollID: p.ID, ChoiceIndex: 1}))
	assert.Equal(t, 2, s.VoteCount())

	counts, err := s.FetchVoteCounts(ctx, p.ID, &ward)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{1: 1}, counts)

	rows, err := s.FetchWardVoteCounts(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStore_GetByIDNotFound(t *testing.T) {
	_, err := NewStore().GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}
