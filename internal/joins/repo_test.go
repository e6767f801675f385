package joins

import (
	"context"
	"testing"
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJoinsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS join_records (
  member_id TEXT PRIMARY KEY,
  inviter_id TEXT,
  invite_code TEXT,
  joined_at DATETIME NOT NULL,
  counted_real INTEGER NOT NULL DEFAULT 0,
  reversed INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func strPtr(s string) *string { return &s }

func TestRepositoryInsertIdempotent(t *testing.T) {
	db := setupJoinsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	joined := time.Now().UTC()
	first := &models.JoinRecord{
		MemberID:    "ins-m1",
		InviterID:   strPtr("ins-inv1"),
		InviteCode:  strPtr("abc123"),
		JoinedAt:    joined,
		CountedReal: true,
	}

	applied, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	assert.True(t, applied)

	// same member again, different attribution: no mutation
	duplicate := &models.JoinRecord{
		MemberID:    "ins-m1",
		InviterID:   strPtr("ins-inv2"),
		JoinedAt:    joined.Add(time.Minute),
		CountedReal: false,
	}
	applied, err = repo.Insert(ctx, duplicate)
	require.NoError(t, err)
	assert.False(t, applied)

	stored, err := repo.Get(ctx, "ins-m1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.InviterID)
	assert.Equal(t, "ins-inv1", *stored.InviterID)
	assert.True(t, stored.CountedReal)
}

func TestRepositoryMarkReversedWindow(t *testing.T) {
	db := setupJoinsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()

	// joined 59 minutes ago, inside a 1h window
	_, err := repo.Insert(ctx, &models.JoinRecord{
		MemberID:    "rev-inside",
		InviterID:   strPtr("rev-inv"),
		JoinedAt:    now.Add(-59 * time.Minute),
		CountedReal: true,
	})
	require.NoError(t, err)

	reversed, err := repo.MarkReversed(ctx, "rev-inside", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, reversed)

	// second departure for the same member is a no-op
	reversed, err = repo.MarkReversed(ctx, "rev-inside", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, reversed)

	// joined 61 minutes ago, outside the window
	_, err = repo.Insert(ctx, &models.JoinRecord{
		MemberID:    "rev-outside",
		InviterID:   strPtr("rev-inv"),
		JoinedAt:    now.Add(-61 * time.Minute),
		CountedReal: true,
	})
	require.NoError(t, err)

	reversed, err = repo.MarkReversed(ctx, "rev-outside", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, reversed)

	// not counted real: never reversible
	_, err = repo.Insert(ctx, &models.JoinRecord{
		MemberID:    "rev-fake",
		JoinedAt:    now.Add(-5 * time.Minute),
		CountedReal: false,
	})
	require.NoError(t, err)

	reversed, err = repo.MarkReversed(ctx, "rev-fake", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, reversed)
}

func TestRepositoryGetMissing(t *testing.T) {
	db := setupJoinsTestDB(t)
	repo := NewRepository(db)

	record, err := repo.Get(context.Background(), "never-joined")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRepositoryCountReal(t *testing.T) {
	db := setupJoinsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := []models.JoinRecord{
		{MemberID: "cnt-a", InviterID: strPtr("cnt-inv"), JoinedAt: now, CountedReal: true},
		{MemberID: "cnt-b", InviterID: strPtr("cnt-inv"), JoinedAt: now, CountedReal: true, Reversed: true},
		{MemberID: "cnt-c", InviterID: strPtr("cnt-inv"), JoinedAt: now, CountedReal: false},
		{MemberID: "cnt-d", InviterID: strPtr("cnt-other"), JoinedAt: now, CountedReal: true},
	}
	for i := range rows {
		_, err := repo.Insert(ctx, &rows[i])
		require.NoError(t, err)
	}

	count, err := repo.CountReal(ctx, "cnt-inv")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
