package persistence

import (
	"context"
	"testing"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormShiftRepository_FindOverlapping(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormShiftRepository(db)
	ctx := context.Background()

	storeID, userID, manager := uuid.New(), uuid.New(), uuid.New()
	morning, err := workforce.NewShift(storeID, userID, day(2026, 3, 2, 9), day(2026, 3, 2, 13), manager)
	require.NoError(t, err)
	cancelled, err := workforce.NewShift(storeID, userID, day(2026, 3, 2, 14), day(2026, 3, 2, 18), manager)
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, repo.Save(ctx, morning))
	require.NoError(t, repo.Save(ctx, cancelled))

	tests := []struct {
		name     string
		start    int
		end      int
		exclude  *uuid.UUID
		overlaps int
	}{
		{"inside", 10, 11, nil, 1},
		{"touching end is free", 13, 15, nil, 0},
		{"cancelled shifts are ignored", 15, 17, nil, 0},
		{"spanning", 8, 20, nil, 1},
		{"excluding itself", 9, 13, &morning.ID, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindOverlapping(ctx, userID, day(2026, 3, 2, tt.start), day(2026, 3, 2, tt.end), tt.exclude)
			require.NoError(t, err)
			assert.Len(t, got, tt.overlaps)
		})
	}

	current, err := repo.FindCurrent(ctx, userID, day(2026, 3, 2, 12))
	require.NoError(t, err)
	assert.Equal(t, morning.ID, current.ID)

	_, err = repo.FindCurrent(ctx, userID, day(2026, 3, 2, 15))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAttendanceRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAttendanceRepository(db)
	ctx := context.Background()
	storeID, userID := uuid.New(), uuid.New()

	closed := func(in, out int, d int) *workforce.AttendanceRecord {
		rec, err := workforce.ClockIn(userID, storeID, nil, day(2026, 2, d, in))
		require.NoError(t, err)
		require.NoError(t, rec.Close(day(2026, 2, d, out)))
		require.NoError(t, repo.Save(ctx, rec))
		return rec
	}
	closed(9, 17, 2)  // 8h
	closed(10, 14, 3) // 4h
	// March record does not count for February
	march, err := workforce.ClockIn(userID, storeID, nil, day(2026, 3, 1, 9))
	require.NoError(t, err)
	require.NoError(t, march.Close(day(2026, 3, 1, 12)))
	require.NoError(t, repo.Save(ctx, march))

	open, err := workforce.ClockIn(userID, storeID, nil, day(2026, 2, 4, 9))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, open))

	hours, err := repo.SumHours(ctx, userID, day(2026, 2, 1, 0), day(2026, 3, 1, 0))
	require.NoError(t, err)
	assert.True(t, hours.Equal(decimal.NewFromInt(12)), hours.String())

	got, err := repo.FindOpenByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ID)

	_, err = repo.FindOpenByUser(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	n, err := repo.Count(ctx, shared.DefaultFilter().With("user_id", userID).With("status", workforce.AttendanceStatusClosed))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
