package models

import "time"

const (
	VoucherTypePackage  = "package"
	VoucherTypeWithdraw = "withdraw"

	VoucherStatusActive  = "active"
	VoucherStatusUsed    = "used"
	VoucherStatusExpired = "expired"
)

// Voucher is a promotional grant: either a package-equivalent stake with its
// own ROI validity window, or a direct wallet credit.
type Voucher struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Code   string `gorm:"size:12;uniqueIndex;not null" json:"code"`
	Type   string `gorm:"type:enum('package','withdraw');not null" json:"type"`
	Status string `gorm:"type:enum('active','used','expired');default:'active';index" json:"status"`

	Value       float64 `gorm:"type:decimal(15,2);not null" json:"value"`
	PackageID   *uint   `json:"package_id,omitempty"`
	PackageName string  `gorm:"size:100" json:"package_name,omitempty"`

	// ROIValidityDays bounds the earning window of the stake this voucher
	// creates, independent of the package's own cap schedule.
	ROIValidityDays int  `gorm:"column:roi_validity_days;not null;default:0" json:"roi_validity_days"`
	AffectsMaxCap   bool `gorm:"column:affects_max_cap;not null;default:true" json:"affects_max_cap"`

	// Set exactly once on redemption, immutable afterwards.
	AppliedToStakeID *uint      `gorm:"column:applied_to_stake_id" json:"applied_to_stake_id,omitempty"`
	UsedAt           *time.Time `json:"used_at,omitempty"`
	ROIEndDate       *time.Time `gorm:"column:roi_end_date" json:"roi_end_date,omitempty"`

	Source    string    `gorm:"size:50;not null" json:"source"` // purchase_reward | milestone key
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Voucher) TableName() string {
	return "vouchers"
}
