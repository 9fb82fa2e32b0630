package models

import "time"

// MilestoneClaim records a team milestone a sponsor has already been rewarded
// for. The unique (sponsor, milestone) pair makes repeated evaluation of the
// promotion engine a no-op.
type MilestoneClaim struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SponsorID    uint      `gorm:"column:sponsor_id;not null;uniqueIndex:idx_sponsor_milestone" json:"sponsor_id"`
	MilestoneKey string    `gorm:"size:50;not null;uniqueIndex:idx_sponsor_milestone" json:"milestone_key"`
	VoucherID    uint      `gorm:"not null" json:"voucher_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (MilestoneClaim) TableName() string {
	return "milestone_claims"
}
