package leaderboard

import (
	"testing"
	"time"

	"stakevault/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	// March 2026 in the business zone: the 1st is a Sunday.
	return time.Date(2026, 3, day, hour, 0, 0, 0, utils.BusinessZone)
}

func TestWindowStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "midweek", now: at(4, 12), want: at(1, 18)},
		{name: "sunday before reset", now: at(8, 17), want: at(1, 18)},
		{name: "sunday at reset", now: at(8, 18), want: at(8, 18)},
		{name: "sunday after reset", now: at(8, 19), want: at(8, 18)},
		{name: "saturday", now: at(7, 23), want: at(1, 18)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, WindowStart(tt.now).Equal(tt.want), "got %v", WindowStart(tt.now))
		})
	}
}

func TestWindowStartFixedZone(t *testing.T) {
	// 13:30 UTC on Sunday March 8 is 18:30 in UTC+5, past the reset.
	now := time.Date(2026, 3, 8, 13, 30, 0, 0, time.UTC)
	assert.True(t, WindowStart(now).Equal(at(8, 18)))
}

func TestReduceCountsEachInviteeOnce(t *testing.T) {
	rows := []Activation{
		{SponsorID: 1, InviteeID: 10, ActivatedAt: at(2, 9)},
		{SponsorID: 1, InviteeID: 10, ActivatedAt: at(3, 9)}, // second entry, same invitee
		{SponsorID: 1, InviteeID: 11, ActivatedAt: at(2, 15)},
	}
	standings := Reduce(rows)
	require.Len(t, standings, 1)
	assert.Equal(t, 2, standings[0].ActivatedInvites)
	assert.True(t, standings[0].FirstActivationAt.Equal(at(2, 9)))
}

func TestReduceOrdering(t *testing.T) {
	rows := []Activation{
		// sponsor 3: two activations, first at day 2 09:00
		{SponsorID: 3, InviteeID: 30, ActivatedAt: at(2, 9)},
		{SponsorID: 3, InviteeID: 31, ActivatedAt: at(4, 9)},
		// sponsor 1: two activations, first at day 2 08:00 (earlier, ranks above 3)
		{SponsorID: 1, InviteeID: 10, ActivatedAt: at(2, 8)},
		{SponsorID: 1, InviteeID: 11, ActivatedAt: at(5, 8)},
		// sponsor 5: two activations, same first as sponsor 3 (id breaks the tie)
		{SponsorID: 5, InviteeID: 50, ActivatedAt: at(2, 9)},
		{SponsorID: 5, InviteeID: 51, ActivatedAt: at(6, 9)},
		// sponsor 2: one activation
		{SponsorID: 2, InviteeID: 20, ActivatedAt: at(2, 7)},
	}
	standings := Reduce(rows)
	require.Len(t, standings, 4)

	ids := make([]uint, len(standings))
	for i, s := range standings {
		ids[i] = s.SponsorID
	}
	assert.Equal(t, []uint{1, 3, 5, 2}, ids)
}

func TestRankOf(t *testing.T) {
	standings := []Standing{
		{SponsorID: 1, ActivatedInvites: 3},
		{SponsorID: 7, ActivatedInvites: 2},
		{SponsorID: 4, ActivatedInvites: 1},
	}

	rank, count := RankOf(standings, 7)
	require.NotNil(t, rank)
	assert.Equal(t, 2, *rank)
	assert.Equal(t, 2, count)
}

func TestRankOfNoActivations(t *testing.T) {
	standings := []Standing{{SponsorID: 1, ActivatedInvites: 3}}

	rank, count := RankOf(standings, 99)
	assert.Nil(t, rank)
	assert.Zero(t, count)
}
