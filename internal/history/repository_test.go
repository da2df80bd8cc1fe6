package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/zerodesign/internal/footprint"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(DBConfig{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewRepository(db)
}

func TestOpen_Drivers(t *testing.T) {
	t.Parallel()

	_, err := Open(DBConfig{Driver: "mysql"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = Open(DBConfig{Driver: DriverPostgres})
	require.ErrorIs(t, err, ErrMissingDSN)
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	fibers := []footprint.FiberComponent{{Type: footprint.FiberCotton, Percentage: 100}}
	first, err := repo.Record(ctx, Calculation{
		ProductName: "Tee",
		Category:    "Tops",
		TotalCO2:    5.9,
		Score:       90,
		Details:     Details{Fibers: fibers, WeightGrams: 200},
	})
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)

	_, err = repo.Record(ctx, Calculation{ProductName: "Jean", TotalCO2: 12.5})
	require.NoError(t, err)

	got, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Jean", got[0].ProductName, "newest first")
	assert.Equal(t, fibers, got[1].Details.Fibers)
	assert.InDelta(t, 200.0, got[1].Details.WeightGrams, 1e-9)

	limited, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	one, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, one.Score)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
