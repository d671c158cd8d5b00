package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/roysafi/poll/internal/core/ports"
)

type visitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) ports.VisitRepository {
	return &visitRepository{
		db: db,
	}
}

func (r *visitRepository) InsertVisit(ctx context.Context, path string) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO site_visits (path) VALUES ($1)`, path); err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

func (r *visitRepository) CountVisits(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM site_visits`); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return total, nil
}
