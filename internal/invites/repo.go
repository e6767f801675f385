package invites

import (
	"context"
	"errors"

	"github.com/ghostlabs/ghostrank-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the one-invite-per-user mapping.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// Upsert replaces any prior mapping for the invite's owner.
	Upsert(ctx context.Context, invite *models.PersonalInvite) error
	GetByUser(ctx context.Context, userID string) (*models.PersonalInvite, error)
	GetByCode(ctx context.Context, code string) (*models.PersonalInvite, error)
	ListAll(ctx context.Context) ([]models.PersonalInvite, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a personal-invite repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Upsert(ctx context.Context, invite *models.PersonalInvite) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"invite_code", "invite_url", "created_at",
			}),
		}).
		Create(invite).Error
}

func (r *repository) GetByUser(ctx context.Context, userID string) (*models.PersonalInvite, error) {
	var invite models.PersonalInvite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*models.PersonalInvite, error) {
	var invite models.PersonalInvite
	err := r.db.WithContext(ctx).
		Where("invite_code = ?", code).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.PersonalInvite, error) {
	var invites []models.PersonalInvite
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}
