package ports

import "context"

type VisitRepository interface {
	InsertVisit(ctx context.Context, path string) error
	CountVisits(ctx context.Context) (int64, error)
}

type VisitService interface {
	// RecordVisit stores a page visit and returns the total number of visits.
	RecordVisit(ctx context.Context, path string) (int64, error)
}
