package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roysafi/poll/internal/adapters/repository/memory"
)

type lossyVisits struct {
	count int64
}

func (v *lossyVisits) InsertVisit(context.Context, string) error {
	return errors.New("insert failed")
}

func (v *lossyVisits) CountVisits(context.Context) (int64, error) {
	return v.count, nil
}

func TestRecordVisit(t *testing.T) {
	ctx := context.Background()
	svc := NewVisitService(memory.NewStore())

	total, err := svc.RecordVisit(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	total, err = svc.RecordVisit(ctx, "/manifesto")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRecordVisit_InsertFailureStillCounts(t *testing.T) {
	svc := NewVisitService(&lossyVisits{count: 41})
	total, err := svc.RecordVisit(context.Background(), "/jobs")
	require.NoError(t, err)
	assert.Equal(t, int64(41), total)
}
