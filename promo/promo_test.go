package promo

import (
	"testing"
	"time"

	"stakevault/catalog"
	"stakevault/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invitee(id uint, activations int, pkgs ...uint) InviteeSummary {
	return InviteeSummary{UserID: id, Activations: activations, PackageIDs: pkgs}
}

func TestMilestoneTeamBuilder(t *testing.T) {
	m := Milestone{
		Key: "team_builder_3", MinInvites: 3, RequiresAll: true,
		Reward: Reward{Type: models.VoucherTypeWithdraw, Value: 15},
	}

	assert.False(t, m.Satisfied(nil))
	assert.False(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1), invitee(2, 1),
	}))
	// Invitees with zero activations do not count.
	assert.False(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1), invitee(2, 1), invitee(3, 0),
	}))
	assert.True(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1), invitee(2, 2), invitee(3, 1),
	}))
	// Extra non-qualifying invitees never hurt.
	assert.True(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1), invitee(2, 1), invitee(3, 0), invitee(4, 1),
	}))
}

func TestMilestoneExactPackage(t *testing.T) {
	bronze := catalog.EntryTierID
	m := Milestone{
		Key: "bronze_squad_5", MinInvites: 2, RequiresAll: true, RequiresPackage: &bronze,
		Reward: Reward{Type: models.VoucherTypePackage, Value: 100, PackageName: "Bronze"},
	}

	// Holding Bronze plus a higher tier is not "exactly Bronze".
	assert.False(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1, 1), invitee(2, 1, 1, 2),
	}))
	// No on-stake entries at all does not qualify either.
	assert.False(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1, 1), invitee(2, 1),
	}))
	assert.True(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1, 1), invitee(2, 1, 1, 1),
	}))
}

func TestMilestoneSilverFocus(t *testing.T) {
	m := Milestone{
		Key: "silver_focus_5of10", MinSilverCount: 2, SampleSize: 3,
		Reward: Reward{Type: models.VoucherTypePackage, Value: 250, PackageName: "Silver"},
	}

	// Only the first SampleSize invitees count.
	assert.False(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1, 2), invitee(2, 1, 1), invitee(3, 1, 1), invitee(4, 1, 3),
	}))
	assert.True(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1, 2), invitee(2, 1, 1), invitee(3, 1, 5), invitee(4, 0),
	}))
	// "At or above" the focus tier: gold counts, bronze does not.
	assert.True(t, m.Satisfied([]InviteeSummary{
		invitee(1, 1, 3), invitee(2, 1, 2),
	}))
}

func TestMalformedMilestonesNeverGrant(t *testing.T) {
	satisfied := []InviteeSummary{
		invitee(1, 1, 1), invitee(2, 1, 1), invitee(3, 1, 1),
	}
	bronze := catalog.EntryTierID

	malformed := []Milestone{
		{}, // empty config
		{Key: "no_reward", MinInvites: 1, RequiresAll: true},
		{Key: "no_min", RequiresAll: true, Reward: Reward{Type: models.VoucherTypeWithdraw, Value: 5}},
		{Key: "pkg_without_all", MinInvites: 1, RequiresPackage: &bronze, Reward: Reward{Type: models.VoucherTypeWithdraw, Value: 5}},
		{Key: "silver_without_sample", MinSilverCount: 3, Reward: Reward{Type: models.VoucherTypeWithdraw, Value: 5}},
		{Key: "sample_below_count", MinSilverCount: 5, SampleSize: 3, Reward: Reward{Type: models.VoucherTypeWithdraw, Value: 5}},
	}
	for _, m := range malformed {
		assert.False(t, m.Satisfied(satisfied), "milestone %q must not grant", m.Key)
	}
}

func TestConfiguredMilestonesAreWellFormed(t *testing.T) {
	for _, m := range Milestones() {
		assert.True(t, m.wellFormed(), "milestone %q misconfigured", m.Key)
	}
}

func TestInPromoWindow(t *testing.T) {
	registered := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, InPromoWindow(registered, registered))
	assert.True(t, InPromoWindow(registered, registered.AddDate(0, 0, 13)))
	// Half-open interval: day 14 is outside.
	assert.False(t, InPromoWindow(registered, registered.AddDate(0, 0, 14)))
	assert.False(t, InPromoWindow(registered, registered.Add(-time.Hour)))
}

func TestPurchaseRewardLookup(t *testing.T) {
	r := PurchaseRewardFor(1)
	require.NotNil(t, r)
	assert.Equal(t, models.VoucherTypePackage, r.Type)
	assert.Equal(t, 10.0, r.Value)
	assert.Equal(t, 7, r.ROIDays)
	assert.False(t, r.AffectsMaxCap)

	// Absent entries yield no reward, not an error.
	assert.Nil(t, PurchaseRewardFor(0))
	assert.Nil(t, PurchaseRewardFor(42))
}
