//go:build db
// +build db

package joins

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ghostlabs/ghostrank-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("GHOSTRANK_DB_DSN")
	if dsn == "" {
		t.Skip("GHOSTRANK_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryJoinFlowPostgres(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	memberID := fmt.Sprintf("gr_test_member_%s", uuid.NewString())
	inviterID := fmt.Sprintf("gr_test_inviter_%s", uuid.NewString())
	code := "pgtest"
	joinedAt := time.Now().UTC().Add(-30 * time.Minute)

	created, err := repo.Insert(ctx, &models.JoinRecord{
		MemberID:    memberID,
		InviterID:   &inviterID,
		InviteCode:  &code,
		JoinedAt:    joinedAt,
		CountedReal: true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !created {
		t.Fatal("expected first insert to create the row")
	}

	created, err = repo.Insert(ctx, &models.JoinRecord{
		MemberID: memberID,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if created {
		t.Fatal("duplicate arrival must not create a second row")
	}

	count, err := repo.CountReal(ctx, inviterID)
	if err != nil {
		t.Fatalf("count real: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	reversed, err := repo.MarkReversed(ctx, memberID, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("mark reversed: %v", err)
	}
	if !reversed {
		t.Fatal("expected reversal inside the window")
	}

	reversed, err = repo.MarkReversed(ctx, memberID, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("second mark reversed: %v", err)
	}
	if reversed {
		t.Fatal("second departure must be a no-op")
	}
}
