package staking

import (
	"testing"
	"time"

	"stakevault/models"
	"stakevault/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryFixture(mod func(e *models.StakingEntry)) models.StakingEntry {
	e := models.StakingEntry{
		ID:         42,
		UserID:     7,
		Amount:     100,
		DailyROI:   1.0,
		Cap:        1.8,
		MaxEarning: 180,
		Status:     models.EntryStatusActive,
	}
	if mod != nil {
		mod(&e)
	}
	return e
}

func TestPlanCreditNormalDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	plan := planCredit(entryFixture(nil), nil, now)

	require.False(t, plan.Skip)
	assert.Equal(t, 1.0, plan.Credit)
	assert.False(t, plan.Complete)
	assert.True(t, plan.CountsTowardCap)
}

func TestPlanCreditSkipsSamePeriod(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-3 * time.Hour)
	entry := entryFixture(func(e *models.StakingEntry) { e.LastCreditedAt = &earlier })

	plan := planCredit(entry, nil, now)
	assert.True(t, plan.Skip)
}

func TestPlanCreditNewPeriodAfterBusinessMidnight(t *testing.T) {
	// 18:30 UTC and 19:30 UTC straddle midnight in the UTC+5 business zone.
	before := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	after := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	require.False(t, utils.SamePeriod(before, after))

	entry := entryFixture(func(e *models.StakingEntry) { e.LastCreditedAt = &before })
	plan := planCredit(entry, nil, after)

	assert.False(t, plan.Skip)
	assert.Equal(t, 1.0, plan.Credit)
}

func TestPlanCreditSkipsTerminalStatuses(t *testing.T) {
	now := time.Now()
	for _, status := range []string{models.EntryStatusCompleted, models.EntryStatusCancelled} {
		entry := entryFixture(func(e *models.StakingEntry) { e.Status = status })
		assert.True(t, planCredit(entry, nil, now).Skip, status)
	}
}

func TestPlanCreditClampsFinalDayToCap(t *testing.T) {
	now := time.Now()
	entry := entryFixture(func(e *models.StakingEntry) { e.TotalEarned = 179.5 })

	plan := planCredit(entry, nil, now)
	require.False(t, plan.Skip)
	assert.Equal(t, 0.5, plan.Credit)
	assert.True(t, plan.Complete)
	assert.False(t, plan.RefundPrincipal)
}

func TestPlanCreditAtCapCompletesWithoutCredit(t *testing.T) {
	now := time.Now()
	entry := entryFixture(func(e *models.StakingEntry) { e.TotalEarned = 180 })

	plan := planCredit(entry, nil, now)
	require.False(t, plan.Skip)
	assert.Zero(t, plan.Credit)
	assert.True(t, plan.Complete)
	assert.Equal(t, now, plan.EndDate)
}

func TestPlanCreditExactCapDayCompletes(t *testing.T) {
	now := time.Now()
	entry := entryFixture(func(e *models.StakingEntry) { e.TotalEarned = 179 })

	plan := planCredit(entry, nil, now)
	assert.Equal(t, 1.0, plan.Credit)
	assert.True(t, plan.Complete)
}

func TestPlanCreditUnstakingEarnsFinalDayAndRefunds(t *testing.T) {
	now := time.Now()
	entry := entryFixture(func(e *models.StakingEntry) { e.Status = models.EntryStatusUnstaking })

	plan := planCredit(entry, nil, now)
	require.False(t, plan.Skip)
	assert.Equal(t, 1.0, plan.Credit)
	assert.True(t, plan.Complete)
	assert.True(t, plan.RefundPrincipal)
}

func TestPlanCreditVoucherBoundaryPassed(t *testing.T) {
	now := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)
	boundary := now.Add(-6 * time.Hour)
	entryID := uint(42)
	voucher := &models.Voucher{
		ID:               9,
		Status:           models.VoucherStatusUsed,
		AppliedToStakeID: &entryID,
		ROIEndDate:       &boundary,
		AffectsMaxCap:    false,
	}
	entry := entryFixture(func(e *models.StakingEntry) { e.VoucherID = &voucher.ID })

	plan := planCredit(entry, voucher, now)
	require.False(t, plan.Skip)
	assert.Zero(t, plan.Credit)
	assert.True(t, plan.Complete)
	// The entry closes at the voucher boundary, not at sweep time.
	assert.Equal(t, boundary, plan.EndDate)
}

func TestPlanCreditVoucherBoundaryExactInstant(t *testing.T) {
	now := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)
	entryID := uint(42)
	voucher := &models.Voucher{
		ID:               9,
		AppliedToStakeID: &entryID,
		ROIEndDate:       &now,
	}
	entry := entryFixture(func(e *models.StakingEntry) { e.VoucherID = &voucher.ID })

	plan := planCredit(entry, voucher, now)
	assert.True(t, plan.Complete)
	assert.Zero(t, plan.Credit)
}

func TestPlanCreditVoucherStillInsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)
	boundary := now.Add(48 * time.Hour)
	entryID := uint(42)
	voucher := &models.Voucher{
		ID:               9,
		AppliedToStakeID: &entryID,
		ROIEndDate:       &boundary,
		AffectsMaxCap:    false,
	}
	entry := entryFixture(func(e *models.StakingEntry) { e.VoucherID = &voucher.ID })

	plan := planCredit(entry, voucher, now)
	require.False(t, plan.Skip)
	assert.Equal(t, 1.0, plan.Credit)
	// Trial-style vouchers pay out but never move users.total_earned.
	assert.False(t, plan.CountsTowardCap)
}

func TestPlanCreditVoucherForOtherEntryIgnored(t *testing.T) {
	now := time.Now()
	otherID := uint(99)
	past := now.Add(-time.Hour)
	voucher := &models.Voucher{
		ID:               9,
		AppliedToStakeID: &otherID,
		ROIEndDate:       &past,
		AffectsMaxCap:    false,
	}

	plan := planCredit(entryFixture(nil), voucher, now)
	assert.Equal(t, 1.0, plan.Credit)
	assert.False(t, plan.Complete)
	assert.True(t, plan.CountsTowardCap)
}

func TestPlanCreditRoundsDailyEarning(t *testing.T) {
	now := time.Now()
	entry := entryFixture(func(e *models.StakingEntry) {
		e.Amount = 250
		e.DailyROI = 1.1
		e.MaxEarning = 450
	})

	plan := planCredit(entry, nil, now)
	assert.Equal(t, 2.75, plan.Credit)
}
