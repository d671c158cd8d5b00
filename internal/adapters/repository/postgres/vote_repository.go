package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

type voteRepository struct {
	db *sqlx.DB
}

func NewVoteRepository(db *sqlx.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// InsertVote writes the vote only if its poll is still active and the choice
// index still fits the option list, all in one statement.
func (r *voteRepository) InsertVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO poll_votes (id, poll_id, ward, choice_index, choice_label, created_at)
		SELECT $1::uuid, p.id, $3::text, $4::integer, $5::text, $6::timestamptz
		FROM polls p
		WHERE p.id = $2::uuid
		  AND p.is_active
		  AND $4::integer >= 0
		  AND $4::integer < cardinality(p.options)
	`
	res, err := r.db.ExecContext(ctx, query,
		vote.ID, vote.PollID, vote.Ward, vote.ChoiceIndex, vote.ChoiceLabel, vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	if n == 0 {
		return domain.ErrNoActivePoll
	}
	return nil
}

type choiceCount struct {
	Ward        sql.NullString `db:"ward"`
	ChoiceIndex int            `db:"choice_index"`
	Votes       int64          `db:"votes"`
}

func (r *voteRepository) FetchVoteCounts(ctx context.Context, pollID uuid.UUID, ward *string) (map[int]int64, error) {
	query := `
		SELECT choice_index, COUNT(*) AS votes
		FROM poll_votes
		WHERE poll_id = $1
		  AND ($2::text IS NULL OR ward = $2::text)
		GROUP BY choice_index
		ORDER BY choice_index
	`
	var rows []choiceCount
	if err := r.db.SelectContext(ctx, &rows, query, pollID, ward); err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.ChoiceIndex] = row.Votes
	}
	return counts, nil
}

func (r *voteRepository) FetchWardVoteCounts(ctx context.Context, pollID uuid.UUID) ([]domain.WardCount, error) {
	query := `
		SELECT ward, choice_index, COUNT(*) AS votes
		FROM poll_votes
		WHERE poll_id = $1
		GROUP BY ward, choice_index
		ORDER BY ward NULLS LAST, choice_index
	`
	var rows []choiceCount
	if err := r.db.SelectContext(ctx, &rows, query, pollID); err != nil {
		return nil, fmt.Errorf("failed to count votes by ward: %w", err)
	}

	counts := make([]domain.WardCount, 0, len(rows))
	for _, row := range rows {
		wc := domain.WardCount{ChoiceIndex: row.ChoiceIndex, Votes: row.Votes}
		if row.Ward.Valid {
			ward := row.Ward.String
			wc.Ward = &ward
		}
		counts = append(counts, wc)
	}
	return counts, nil
}
