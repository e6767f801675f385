package joins

import (
	"context"
	"errors"
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for join records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// Insert writes the record unless one already exists for its member.
	// Returns true when the row was created.
	Insert(ctx context.Context, record *models.JoinRecord) (bool, error)
	// MarkReversed flips reversed on the member's record if it was counted
	// real, not yet reversed, and joined after the cutoff. Returns true when
	// the row changed.
	MarkReversed(ctx context.Context, memberID string, joinedAfter time.Time) (bool, error)
	Get(ctx context.Context, memberID string) (*models.JoinRecord, error)
	CountReal(ctx context.Context, inviterID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a join-record repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, record *models.JoinRecord) (bool, error) {
	// ON CONFLICT DO NOTHING keeps duplicate arrivals at-most-once without a
	// read-then-write race.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}},
			DoNothing: true,
		}).
		Create(record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) MarkReversed(ctx context.Context, memberID string, joinedAfter time.Time) (bool, error) {
	// single conditional UPDATE so the eligibility check and the flip are
	// atomic; a racing duplicate departure matches zero rows
	res := r.db.WithContext(ctx).
		Model(&models.JoinRecord{}).
		Where("member_id = ? AND counted_real = ? AND reversed = ? AND joined_at > ?",
			memberID, true, false, joinedAfter).
		UpdateColumn("reversed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Get(ctx context.Context, memberID string) (*models.JoinRecord, error) {
	var record models.JoinRecord
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) CountReal(ctx context.Context, inviterID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JoinRecord{}).
		Where("inviter_id = ? AND counted_real = ? AND reversed = ?", inviterID, true, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
