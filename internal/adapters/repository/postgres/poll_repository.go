package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

// activationLockKey serializes transactions that change which poll is active.
const activationLockKey = 0x706f6c6c

type pollRepository struct {
	db *sqlx.DB
}

func NewPollRepository(db *sqlx.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

type pollRow struct {
	ID        uuid.UUID      `db:"id"`
	Slug      string         `db:"slug"`
	Question  string         `db:"question"`
	Options   pq.StringArray `db:"options"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
}

func (row pollRow) toDomain() *domain.Poll {
	return &domain.Poll{
		ID:        row.ID,
		Slug:      row.Slug,
		Question:  row.Question,
		Options:   []string(row.Options),
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
	}
}

const pollColumns = `id, slug, question, options, is_active, created_at`

func (r *pollRepository) FetchActivePoll(ctx context.Context) (*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	var row pollRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active poll: %w", err)
	}
	return row.toDomain(), nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`

	var row pollRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return row.toDomain(), nil
}

func (r *pollRepository) List(ctx context.Context) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls ORDER BY created_at DESC`

	var rows []pollRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	polls := make([]*domain.Poll, 0, len(rows))
	for _, row := range rows {
		polls = append(polls, row.toDomain())
	}
	return polls, nil
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if poll.IsActive {
		if err := deactivateOthers(ctx, tx, poll.ID); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO polls (id, slug, question, options, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, query,
		poll.ID, poll.Slug, poll.Question, pq.StringArray(poll.Options), poll.IsActive, poll.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "polls_slug_key") {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if active {
		if err := deactivateOthers(ctx, tx, id); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `UPDATE polls SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	if n == 0 {
		return domain.ErrPollNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// deactivateOthers takes the activation lock for the rest of tx and clears the
// active flag on every poll but keep.
func deactivateOthers(ctx context.Context, tx *sqlx.Tx, keep uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, activationLockKey); err != nil {
		return fmt.Errorf("failed to take activation lock: %w", err)
	}
	_, err := tx.ExecContext(ctx, `UPDATE polls SET is_active = FALSE WHERE is_active AND id <> $1`, keep)
	if err != nil {
		return fmt.Errorf("failed to deactivate polls: %w", err)
	}
	return nil
}
