package promo

import (
	"time"

	"stakevault/models"
)

// Reward is what a promotion pays out: either a package-equivalent voucher
// (its own stake with an independent ROI validity window) or a direct wallet
// credit.
type Reward struct {
	Type          string // models.VoucherTypePackage or models.VoucherTypeWithdraw
	Value         float64
	PackageID     *uint
	PackageName   string
	ROIDays       int
	AffectsMaxCap bool
}

func pkgRef(id uint) *uint { return &id }

// purchaseRewards maps a purchased package id to its promotional grant.
// Absent ids simply yield no reward.
var purchaseRewards = map[uint]Reward{
	1: {Type: models.VoucherTypePackage, Value: 10, PackageID: pkgRef(0), PackageName: "Trial", ROIDays: 7, AffectsMaxCap: false},
	2: {Type: models.VoucherTypePackage, Value: 25, PackageID: pkgRef(0), PackageName: "Trial", ROIDays: 10, AffectsMaxCap: false},
	3: {Type: models.VoucherTypePackage, Value: 50, PackageID: pkgRef(0), PackageName: "Trial", ROIDays: 14, AffectsMaxCap: false},
	4: {Type: models.VoucherTypePackage, Value: 100, PackageID: pkgRef(1), PackageName: "Bronze", ROIDays: 14, AffectsMaxCap: false},
	5: {Type: models.VoucherTypePackage, Value: 250, PackageID: pkgRef(2), PackageName: "Silver", ROIDays: 21, AffectsMaxCap: true},
	6: {Type: models.VoucherTypePackage, Value: 500, PackageID: pkgRef(3), PackageName: "Gold", ROIDays: 21, AffectsMaxCap: true},
	7: {Type: models.VoucherTypePackage, Value: 1000, PackageID: pkgRef(4), PackageName: "Platinum", ROIDays: 30, AffectsMaxCap: true},
	8: {Type: models.VoucherTypePackage, Value: 2500, PackageID: pkgRef(5), PackageName: "Diamond", ROIDays: 30, AffectsMaxCap: true},
}

// PurchaseRewardFor returns the grant for a purchased package, or nil when the
// package carries no promotion.
func PurchaseRewardFor(packageID uint) *Reward {
	r, ok := purchaseRewards[packageID]
	if !ok {
		return nil
	}
	reward := r
	return &reward
}

// PromoWindowDays is how long after registration a user can still receive new
// grants. Vouchers already granted keep their own validity clock.
const PromoWindowDays = 14

// RedeemByDays is how long an unredeemed voucher stays redeemable before the
// expiry sweep retires it.
const RedeemByDays = 30

// InPromoWindow reports whether now falls inside [registeredAt, +14d).
func InPromoWindow(registeredAt, now time.Time) bool {
	if now.Before(registeredAt) {
		return false
	}
	return now.Sub(registeredAt) < PromoWindowDays*24*time.Hour
}
