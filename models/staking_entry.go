package models

import "time"

// Staking entry lifecycle. Transitions are one-directional:
// active -> unstaking -> completed, or active -> cancelled.
const (
	EntryStatusActive    = "active"
	EntryStatusUnstaking = "unstaking"
	EntryStatusCompleted = "completed"
	EntryStatusCancelled = "cancelled"
)

type StakingEntry struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	PackageID   *uint   `gorm:"index" json:"package_id"` // nil for custom grants
	PackageName string  `gorm:"size:100;not null" json:"package_name"`
	Amount      float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	DailyROI    float64 `gorm:"column:daily_roi;type:decimal(6,3);not null" json:"daily_roi"` // percent per day, snapshot
	Cap         float64 `gorm:"type:decimal(6,3);not null" json:"cap"`
	MaxEarning  float64 `gorm:"column:max_earning;type:decimal(15,2);not null" json:"max_earning"`
	TotalEarned float64 `gorm:"column:total_earned;type:decimal(15,2);not null;default:0.00" json:"total_earned"`

	// VoucherID links entries created by redeeming a package voucher; the
	// voucher's roi_end_date then bounds the earning window.
	VoucherID *uint `gorm:"index" json:"voucher_id,omitempty"`

	// LastCreditedAt is the per-entry idempotency marker: at most one ROI
	// credit per civil day (UTC+5) regardless of how often the sweep runs.
	LastCreditedAt   *time.Time `gorm:"column:last_credited_at" json:"last_credited_at,omitempty"`
	LastCreditAmount float64    `gorm:"column:last_credit_amount;type:decimal(15,2);not null;default:0.00" json:"last_credit_amount"`

	OrderID   string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status    string     `gorm:"type:enum('active','unstaking','completed','cancelled');default:'active';index" json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (StakingEntry) TableName() string {
	return "staking_entries"
}

// OnStake reports whether the entry still belongs to the accruing set.
func (e *StakingEntry) OnStake() bool {
	return e.Status == EntryStatusActive || e.Status == EntryStatusUnstaking
}
