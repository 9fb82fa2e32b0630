package catalog

import "math"

// Package is one staking tier. The table is fixed at build time: tier terms
// are snapshotted onto entries at creation, so editing this table never
// retroactively changes an existing stake.
type Package struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	DailyROI float64 `json:"daily_roi"` // percent per day
	Cap      float64 `json:"cap"`       // max payout multiplier vs principal
}

var tiers = []Package{
	{ID: 0, Name: "Trial", Amount: 10, DailyROI: 0.5, Cap: 1.2},
	{ID: 1, Name: "Bronze", Amount: 100, DailyROI: 1.0, Cap: 1.8},
	{ID: 2, Name: "Silver", Amount: 250, DailyROI: 1.1, Cap: 1.8},
	{ID: 3, Name: "Gold", Amount: 500, DailyROI: 1.2, Cap: 2.0},
	{ID: 4, Name: "Platinum", Amount: 1000, DailyROI: 1.3, Cap: 2.0},
	{ID: 5, Name: "Diamond", Amount: 2500, DailyROI: 1.4, Cap: 2.2},
	{ID: 6, Name: "Emerald", Amount: 5000, DailyROI: 1.5, Cap: 2.2},
	{ID: 7, Name: "Prestige", Amount: 10000, DailyROI: 1.6, Cap: 2.5},
	{ID: 8, Name: "Legend", Amount: 25000, DailyROI: 1.8, Cap: 2.5},
}

// EntryTierID is the first non-trial tier (Bronze), the default qualifying
// tier for referral activation.
const EntryTierID uint = 1

// SilverTierID is the focus tier used by team milestone counting.
const SilverTierID uint = 2

// IsWhole reports whether amount is a whole number of currency units.
func IsWhole(amount float64) bool {
	return amount == math.Trunc(amount)
}

// FindPackageForAmount returns the tier whose deposit amount exactly matches
// the given whole-number amount, or nil. No range matching.
func FindPackageForAmount(amount float64) *Package {
	if !IsWhole(amount) {
		return nil
	}
	for _, p := range tiers {
		if p.Amount == amount {
			pkg := p
			return &pkg
		}
	}
	return nil
}

// FindPackageByID returns the tier with the given id, or nil.
func FindPackageByID(id uint) *Package {
	for _, p := range tiers {
		if p.ID == id {
			pkg := p
			return &pkg
		}
	}
	return nil
}

// Packages returns the ordered tier list as a copy.
func Packages() []Package {
	out := make([]Package, len(tiers))
	copy(out, tiers)
	return out
}

// DailyEarning is one day's ROI credit for a principal at the given rate.
func DailyEarning(amount, roi float64) float64 {
	return amount * roi / 100
}

// MaxEarning is the lifetime payout ceiling for a principal at the given cap.
func MaxEarning(amount, cap float64) float64 {
	return amount * cap
}
