package models

import "time"

// JoinRecord is the ledger row for one member's arrival. Created at most once
// per member and never deleted. CountedReal is decided at creation and never
// recomputed; Reversed flips to true at most once.
type JoinRecord struct {
	MemberID    string    `gorm:"column:member_id;primaryKey"`
	InviterID   *string   `gorm:"column:inviter_id"`
	InviteCode  *string   `gorm:"column:invite_code"`
	JoinedAt    time.Time `gorm:"column:joined_at;not null"`
	CountedReal bool      `gorm:"column:counted_real;not null;default:false"`
	Reversed    bool      `gorm:"column:reversed;not null;default:false"`
}
