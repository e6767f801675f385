package models

// InviterAggregate is the running real-join total per inviter. Maintained
// with atomic +1/-1 storage operations, floored at zero, never recomputed by
// scanning the ledger.
type InviterAggregate struct {
	InviterID string `gorm:"column:inviter_id;primaryKey"`
	RealJoins int    `gorm:"column:real_joins;not null;default:0"`
}
