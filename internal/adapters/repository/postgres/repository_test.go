package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roysafi/poll/internal/core/domain"
)

func newPoll(slug string, active bool, options ...string) *domain.Poll {
	return &domain.Poll{
		ID:        uuid.New(),
		Slug:      slug,
		Question:  "Question for " + slug,
		Options:   options,
		IsActive:  active,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func newVote(poll *domain.Poll, index int, ward *string) *domain.Vote {
	label := ""
	if index >= 0 && index < len(poll.Options) {
		label = poll.Options[index]
	}
	return &domain.Vote{
		ID:          uuid.New(),
		PollID:      poll.ID,
		Ward:        ward,
		ChoiceIndex: index,
		ChoiceLabel: label,
		CreatedAt:   time.Now(),
	}
}

func countVotes(t *testing.T, db interface {
	Get(dest interface{}, query string, args ...interface{}) error
}) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM poll_votes`))
	return n
}

func TestPollRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPollRepository(db)

	active, err := repo.FetchActivePoll(ctx)
	require.NoError(t, err)
	assert.Nil(t, active, "no active poll is not an error")

	first := newPoll("roads-first", true, "Roads", "Drainage", "Security")
	require.NoError(t, repo.Save(ctx, first))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Slug, got.Slug)
	assert.Equal(t, first.Options, got.Options, "option order is preserved")
	assert.True(t, got.IsActive)

	second := newPoll("youth-focus", true, "Skills labs", "Sports")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Save(ctx, second))

	active, err = repo.FetchActivePoll(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	got, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = repo.Save(ctx, newPoll("roads-first", false, "A", "B"))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	require.NoError(t, repo.SetActive(ctx, first.ID, true))
	active, err = repo.FetchActivePoll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	require.NoError(t, repo.SetActive(ctx, first.ID, false))
	active, err = repo.FetchActivePoll(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), true), domain.ErrPollNotFound)
	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
}

func TestPollRepository_ConcurrentActivation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPollRepository(db)

	var polls []*domain.Poll
	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		p := newPoll(slug, false, "Yes", "No")
		require.NoError(t, repo.Save(ctx, p))
		polls = append(polls, p)
	}

	var wg sync.WaitGroup
	for _, p := range polls {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			assert.NoError(t, repo.SetActive(ctx, id, true))
		}(p.ID)
	}
	wg.Wait()

	var active int
	require.NoError(t, db.Get(&active, `SELECT COUNT(*) FROM polls WHERE is_active`))
	assert.Equal(t, 1, active)
}

func TestPollOptionsAreFrozenOnceActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPollRepository(db)

	draft := newPoll("draft", false, "A", "B")
	require.NoError(t, repo.Save(ctx, draft))
	_, err := db.Exec(`UPDATE polls SET options = $2 WHERE id = $1`, draft.ID, pq.StringArray{"A", "B", "C"})
	require.NoError(t, err, "inactive polls without votes may still be edited")

	live := newPoll("live", true, "Roads", "Drainage")
	require.NoError(t, repo.Save(ctx, live))
	_, err = db.Exec(`UPDATE polls SET options = $2 WHERE id = $1`, live.ID, pq.StringArray{"Drainage", "Roads"})
	assert.Error(t, err)

	got, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roads", "Drainage"}, got.Options)
}

func TestVoteRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	polls := NewPollRepository(db)
	votes := NewVoteRepository(db)

	poll := newPoll("ward-priorities", true, "Roads", "Drainage", "Security")
	require.NoError(t, polls.Save(ctx, poll))

	counts, err := votes.FetchVoteCounts(ctx, poll.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)

	zimmerman := "Zimmerman"
	githurai := "Githurai Ward"
	require.NoError(t, votes.InsertVote(ctx, newVote(poll, 1, nil)))
	require.NoError(t, votes.InsertVote(ctx, newVote(poll, 1, &zimmerman)))
	require.NoError(t, votes.InsertVote(ctx, newVote(poll, 0, &githurai)))
	require.NoError(t, votes.InsertVote(ctx, newVote(poll, 0, &zimmerman)))

	counts, err = votes.FetchVoteCounts(ctx, poll.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{0: 2, 1: 2}, counts)

	counts, err = votes.FetchVoteCounts(ctx, poll.ID, &zimmerman)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{0: 1, 1: 1}, counts)

	rows, err := votes.FetchWardVoteCounts(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Nil(t, rows[3].Ward, "votes without a ward sort last")

	var label string
	require.NoError(t, db.Get(&label, `SELECT choice_label FROM poll_votes WHERE ward = $1 AND choice_index = 0`, githurai))
	assert.Equal(t, "Roads", label)

	before := countVotes(t, db)
	assert.ErrorIs(t, votes.InsertVote(ctx, newVote(poll, 3, nil)), domain.ErrNoActivePoll)
	assert.ErrorIs(t, votes.InsertVote(ctx, newVote(poll, -1, nil)), domain.ErrNoActivePoll)

	require.NoError(t, polls.SetActive(ctx, poll.ID, false))
	assert.ErrorIs(t, votes.InsertVote(ctx, newVote(poll, 0, nil)), domain.ErrNoActivePoll)
	assert.Equal(t, before, countVotes(t, db), "rejected votes write nothing")
}

func TestVisitRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewVisitRepository(db)

	total, err := repo.CountVisits(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, repo.InsertVisit(ctx, "/"))
	require.NoError(t, repo.InsertVisit(ctx, "/manifesto"))

	total, err = repo.CountVisits(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestApplyMigrationsIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, ApplyMigrations(context.Background(), db))
}
