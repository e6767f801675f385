package inviters

import (
	"context"
	"errors"

	"github.com/ghostlabs/ghostrank-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages the per-inviter real-join aggregates. Increment and
// Decrement are single atomic statements; callers never read-modify-write.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Increment(ctx context.Context, inviterID string) error
	Decrement(ctx context.Context, inviterID string) error
	Get(ctx context.Context, inviterID string) (int, error)
	Top(ctx context.Context, limit int) ([]models.InviterAggregate, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an aggregate repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Increment(ctx context.Context, inviterID string) error {
	// upsert with in-database arithmetic so concurrent credits never lose
	// updates
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "inviter_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"real_joins": gorm.Expr("inviter_aggregates.real_joins + 1"),
			}),
		}).
		Create(&models.InviterAggregate{InviterID: inviterID, RealJoins: 1}).Error
}

func (r *repository) Decrement(ctx context.Context, inviterID string) error {
	// floored at zero inside the statement; decrementing a missing row is a
	// no-op
	return r.db.WithContext(ctx).
		Model(&models.InviterAggregate{}).
		Where("inviter_id = ?", inviterID).
		UpdateColumn("real_joins",
			gorm.Expr("CASE WHEN real_joins > 0 THEN real_joins - 1 ELSE 0 END")).Error
}

func (r *repository) Get(ctx context.Context, inviterID string) (int, error) {
	var agg models.InviterAggregate
	err := r.db.WithContext(ctx).
		Where("inviter_id = ?", inviterID).
		First(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return agg.RealJoins, nil
}

func (r *repository) Top(ctx context.Context, limit int) ([]models.InviterAggregate, error) {
	var rows []models.InviterAggregate
	err := r.db.WithContext(ctx).
		Where("real_joins > 0").
		Order("real_joins DESC, inviter_id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
