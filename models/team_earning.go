package models

import "time"

// TeamEarning is the per-period idempotency record of the team distributor:
// one override credit per sponsor per distribution period.
type TeamEarning struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SponsorID  uint      `gorm:"column:sponsor_id;not null;uniqueIndex:idx_sponsor_period" json:"sponsor_id"`
	PeriodDate string    `gorm:"column:period_date;type:varchar(10);not null;uniqueIndex:idx_sponsor_period" json:"period_date"`
	BaseAmount float64   `gorm:"column:base_amount;type:decimal(15,2);not null" json:"base_amount"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

func (TeamEarning) TableName() string {
	return "team_earnings"
}
