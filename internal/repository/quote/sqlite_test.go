package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocketl/internal/platform/sqlite"
	domain "stocketl/internal/quote"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func sampleQuote(symbol string, day int) domain.DailyQuote {
	return domain.DailyQuote{
		Symbol:      symbol,
		Date:        time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:        100.0,
		High:        106.0,
		Low:         99.5,
		Close:       105.0,
		Volume:      ptr(int64(48201835)),
		ChangePct:   ptr(5.00),
		ExtractedAt: time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC),
	}
}

func TestSave_And_Query(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	res, err := repo.Save(ctx, []domain.DailyQuote{
		sampleQuote("AAPL", 2),
		sampleQuote("AAPL", 3),
		sampleQuote("AAPL", 4),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 0, res.Skipped)

	got, err := repo.Query(ctx, domain.QueryFilter{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	q := got[0]
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 100.0, q.Open)
	assert.Equal(t, 106.0, q.High)
	assert.Equal(t, 99.5, q.Low)
	assert.Equal(t, 105.0, q.Close)
	require.NotNil(t, q.Volume)
	assert.Equal(t, int64(48201835), *q.Volume)
	require.NotNil(t, q.ChangePct)
	assert.InDelta(t, 5.00, *q.ChangePct, 0.01)
	assert.Equal(t, time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC), q.ExtractedAt)
}

func TestSave_SkipsDuplicateKeys(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	res, err := repo.Save(ctx, []domain.DailyQuote{sampleQuote("AAPL", 2)})
	require.NoError(t, err)
	assert.Equal(t, domain.LoadResult{Inserted: 1, Skipped: 0}, res)

	// Same key again: skipped, never overwritten.
	res, err = repo.Save(ctx, []domain.DailyQuote{sampleQuote("AAPL", 2), sampleQuote("AAPL", 5)})
	require.NoError(t, err)
	assert.Equal(t, domain.LoadResult{Inserted: 1, Skipped: 1}, res)

	got, err := repo.Query(ctx, domain.QueryFilter{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSave_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	batch := []domain.DailyQuote{sampleQuote("AAPL", 2), sampleQuote("MSFT", 2)}

	res, err := repo.Save(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	res, err = repo.Save(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadResult{Inserted: 0, Skipped: 2}, res)

	got, err := repo.Query(ctx, domain.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSave_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)

	res, err := repo.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadResult{}, res)
}

func TestSave_NullableColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	q := sampleQuote("AAPL", 2)
	q.Volume = nil
	q.ChangePct = nil

	_, err := repo.Save(ctx, []domain.DailyQuote{q})
	require.NoError(t, err)

	got, err := repo.Query(ctx, domain.QueryFilter{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Volume)
	assert.Nil(t, got[0].ChangePct)
}

func TestQuery_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	_, err := repo.Save(ctx, []domain.DailyQuote{
		sampleQuote("MSFT", 2),
		sampleQuote("AAPL", 2),
		sampleQuote("AAPL", 4),
		sampleQuote("MSFT", 3),
	})
	require.NoError(t, err)

	got, err := repo.Query(ctx, domain.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Symbol ascending, then date descending.
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, 4, got[0].Date.Day())
	assert.Equal(t, "AAPL", got[1].Symbol)
	assert.Equal(t, 2, got[1].Date.Day())
	assert.Equal(t, "MSFT", got[2].Symbol)
	assert.Equal(t, 3, got[2].Date.Day())
	assert.Equal(t, "MSFT", got[3].Symbol)
	assert.Equal(t, 2, got[3].Date.Day())
}

func TestQuery_DateRangeInclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	_, err := repo.Save(ctx, []domain.DailyQuote{
		sampleQuote("AAPL", 1),
		sampleQuote("AAPL", 2),
		sampleQuote("AAPL", 3),
		sampleQuote("AAPL", 4),
	})
	require.NoError(t, err)

	got, err := repo.Query(ctx, domain.QueryFilter{
		Symbol: "AAPL",
		From:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Date.Day())
	assert.Equal(t, 2, got[1].Date.Day())
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	_, err := repo.Save(ctx, []domain.DailyQuote{
		sampleQuote("MSFT", 5),
		sampleQuote("AAPL", 2),
		sampleQuote("AAPL", 9),
		sampleQuote("AAPL", 4),
	})
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "AAPL", stats[0].Symbol)
	assert.Equal(t, int64(3), stats[0].Records)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), stats[0].EarliestDate)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), stats[0].LatestDate)

	assert.Equal(t, "MSFT", stats[1].Symbol)
	assert.Equal(t, int64(1), stats[1].Records)
}
