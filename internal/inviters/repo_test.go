package inviters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvitersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS inviter_aggregates (
  inviter_id TEXT PRIMARY KEY,
  real_joins INTEGER NOT NULL DEFAULT 0 CHECK (real_joins >= 0)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryIncrementUpserts(t *testing.T) {
	db := setupInvitersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "agg-inv1"))
	require.NoError(t, repo.Increment(ctx, "agg-inv1"))
	require.NoError(t, repo.Increment(ctx, "agg-inv1"))

	count, err := repo.Get(ctx, "agg-inv1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepositoryDecrementFloorsAtZero(t *testing.T) {
	db := setupInvitersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "agg-inv2"))
	require.NoError(t, repo.Decrement(ctx, "agg-inv2"))
	// more decrements than increments
	require.NoError(t, repo.Decrement(ctx, "agg-inv2"))
	require.NoError(t, repo.Decrement(ctx, "agg-inv2"))

	count, err := repo.Get(ctx, "agg-inv2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// decrementing a missing aggregate creates nothing
	require.NoError(t, repo.Decrement(ctx, "agg-never-seen"))
	count, err = repo.Get(ctx, "agg-never-seen")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRepositoryGetMissingIsZero(t *testing.T) {
	db := setupInvitersTestDB(t)
	repo := NewRepository(db)

	count, err := repo.Get(context.Background(), "agg-ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRepositoryTopOrdering(t *testing.T) {
	db := setupInvitersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	increments := map[string]int{
		"top-carla": 5,
		"top-bruno": 8,
		"top-ana":   5,
		"top-davi":  1,
		"top-zero":  0,
	}
	for inviter, n := range increments {
		for i := 0; i < n; i++ {
			require.NoError(t, repo.Increment(ctx, inviter))
		}
	}

	rows, err := repo.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// count descending, ties broken by inviter id ascending
	assert.Equal(t, "top-bruno", rows[0].InviterID)
	assert.Equal(t, "top-ana", rows[1].InviterID)
	assert.Equal(t, "top-carla", rows[2].InviterID)
}
