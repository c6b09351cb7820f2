package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/danurwenda/identity-service/internal/identity/repository/postgres"
)

func TestAccountStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	startOfDay := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	t.Run("scans all counters", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs(startOfDay, now).
			WillReturnRows(pgxmock.NewRows(
				[]string{"total", "active", "verified", "created_today", "active_sessions"}).
				AddRow(int64(100), int64(90), int64(75), int64(3), int64(12)))

		stats, err := r.AccountStats(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(100), stats.TotalAccounts)
		assert.Equal(t, int64(90), stats.ActiveAccounts)
		assert.Equal(t, int64(75), stats.VerifiedAccounts)
		assert.Equal(t, int64(3), stats.CreatedToday)
		assert.Equal(t, int64(12), stats.ActiveSessions)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs(startOfDay, now).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.AccountStats(ctx, now)
		assert.Error(t, err)
	})
}

func TestLoginStatsByDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()
	since := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)

	t.Run("returns one row per day", func(t *testing.T) {
		day1 := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
		day2 := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT date_trunc").
			WithArgs(since).
			WillReturnRows(pgxmock.NewRows([]string{"day", "succeeded", "failed"}).
				AddRow(day1, int64(10), int64(2)).
				AddRow(day2, int64(7), int64(0)))

		stats, err := r.LoginStatsByDay(ctx, since)
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, day1, stats[0].Day)
		assert.Equal(t, int64(10), stats[0].Succeeded)
		assert.Equal(t, int64(2), stats[0].Failed)
		assert.Equal(t, int64(7), stats[1].Succeeded)
	})

	t.Run("no attempts yields empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT date_trunc").
			WithArgs(since).
			WillReturnRows(pgxmock.NewRows([]string{"day", "succeeded", "failed"}))

		stats, err := r.LoginStatsByDay(ctx, since)
		require.NoError(t, err)
		assert.Empty(t, stats)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT date_trunc").
			WithArgs(since).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.LoginStatsByDay(ctx, since)
		assert.Error(t, err)
	})
}
