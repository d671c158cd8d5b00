package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roysafi/poll/internal/core/ports"
)

type visitService struct {
	repo ports.VisitRepository
}

func NewVisitService(repo ports.VisitRepository) ports.VisitService {
	return &visitService{
		repo: repo,
	}
}

// RecordVisit logs insert failures and still returns the current total.
func (s *visitService) RecordVisit(ctx context.Context, path string) (int64, error) {
	if path == "" {
		path = "/"
	}
	if err := s.repo.InsertVisit(ctx, path); err != nil {
		slog.Warn("failed to record visit", "path", path, "error", err)
	}

	total, err := s.repo.CountVisits(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return total, nil
}
