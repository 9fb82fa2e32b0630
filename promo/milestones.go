package promo

import (
	"time"

	"stakevault/catalog"
	"stakevault/models"
)

// Milestone is one team-building goal. The predicate fields are optional; a
// config missing its required sub-fields is treated as not-yet-satisfied
// rather than an error, so a bad entry can never abort purchase processing.
type Milestone struct {
	Key string

	// MinInvites + RequiresAll: at least MinInvites invitees, each satisfying
	// the per-invitee condition (≥1 activation, or the exact package below).
	MinInvites  int
	RequiresAll bool

	// RequiresPackage narrows the per-invitee condition to "holds exactly
	// this tier" (at least one on-stake entry, all of them this tier).
	RequiresPackage *uint

	// MinSilverCount + SampleSize: at least MinSilverCount of the first
	// SampleSize invitees hold the focus tier (Silver) or above.
	MinSilverCount int
	SampleSize     int

	Reward Reward
}

// InviteeSummary is the promotion engine's view of one invitee, assembled
// from the referral edge and the invitee's staking entries.
type InviteeSummary struct {
	UserID      uint
	JoinedAt    time.Time
	Activations int    // qualifying entries (entry tier or above, not cancelled)
	PackageIDs  []uint // package ids of on-stake entries
}

var milestones = []Milestone{
	{
		Key:        "team_builder_3",
		MinInvites: 3, RequiresAll: true,
		Reward: Reward{Type: models.VoucherTypeWithdraw, Value: 15},
	},
	{
		Key:        "bronze_squad_5",
		MinInvites: 5, RequiresAll: true, RequiresPackage: pkgRef(catalog.EntryTierID),
		Reward: Reward{Type: models.VoucherTypePackage, Value: 100, PackageID: pkgRef(catalog.EntryTierID), PackageName: "Bronze", ROIDays: 10, AffectsMaxCap: false},
	},
	{
		Key:            "silver_focus_5of10",
		MinSilverCount: 5, SampleSize: 10,
		Reward: Reward{Type: models.VoucherTypePackage, Value: 250, PackageID: pkgRef(catalog.SilverTierID), PackageName: "Silver", ROIDays: 14, AffectsMaxCap: true},
	},
}

// Milestones returns the configured milestone set as a copy.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestones))
	copy(out, milestones)
	return out
}

func (m Milestone) wellFormed() bool {
	if m.Key == "" || m.Reward.Value <= 0 || m.Reward.Type == "" {
		return false
	}
	if m.MinSilverCount > 0 {
		return m.SampleSize >= m.MinSilverCount
	}
	if m.RequiresPackage != nil && !m.RequiresAll {
		return false
	}
	return m.MinInvites > 0 && m.RequiresAll
}

// holdsExactly reports whether the invitee is on-stake and every on-stake
// entry is the given tier.
func holdsExactly(inv InviteeSummary, pkg uint) bool {
	if len(inv.PackageIDs) == 0 {
		return false
	}
	for _, id := range inv.PackageIDs {
		if id != pkg {
			return false
		}
	}
	return true
}

// atOrAbove reports whether the invitee holds any tier at or above pkg.
func atOrAbove(inv InviteeSummary, pkg uint) bool {
	for _, id := range inv.PackageIDs {
		if id >= pkg {
			return true
		}
	}
	return false
}

// Satisfied evaluates the milestone predicate over the sponsor's invitee set.
// Invitees must be ordered by join time (the sample rule counts the first N).
func (m Milestone) Satisfied(invitees []InviteeSummary) bool {
	if !m.wellFormed() {
		return false
	}

	if m.MinSilverCount > 0 {
		sample := invitees
		if len(sample) > m.SampleSize {
			sample = sample[:m.SampleSize]
		}
		count := 0
		for _, inv := range sample {
			if atOrAbove(inv, catalog.SilverTierID) {
				count++
			}
		}
		return count >= m.MinSilverCount
	}

	count := 0
	for _, inv := range invitees {
		if m.RequiresPackage != nil {
			if holdsExactly(inv, *m.RequiresPackage) {
				count++
			}
			continue
		}
		if inv.Activations >= 1 {
			count++
		}
	}
	return count >= m.MinInvites
}
