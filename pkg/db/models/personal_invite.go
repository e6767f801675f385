package models

import "time"

// PersonalInvite maps a user to their single tracked invite link. Regenerating
// overwrites the row; the system never tracks two codes for one user.
type PersonalInvite struct {
	UserID     string    `gorm:"column:user_id;primaryKey"`
	InviteCode string    `gorm:"column:invite_code;not null;uniqueIndex"`
	InviteURL  string    `gorm:"column:invite_url;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}
