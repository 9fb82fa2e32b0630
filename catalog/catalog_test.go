package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPackageForAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		wantName string
		wantNil  bool
	}{
		{name: "bronze exact match", amount: 100, wantName: "Bronze"},
		{name: "trial exact match", amount: 10, wantName: "Trial"},
		{name: "legend exact match", amount: 25000, wantName: "Legend"},
		{name: "no tier at 150", amount: 150, wantNil: true},
		{name: "no range matching below bronze", amount: 99, wantNil: true},
		{name: "non-whole amount", amount: 100.5, wantNil: true},
		{name: "zero", amount: 0, wantNil: true},
		{name: "negative", amount: -100, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindPackageForAmount(tt.amount)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.amount, got.Amount)
		})
	}
}

func TestFindPackageByID(t *testing.T) {
	p := FindPackageByID(EntryTierID)
	require.NotNil(t, p)
	assert.Equal(t, "Bronze", p.Name)
	assert.Equal(t, 100.0, p.Amount)

	assert.Nil(t, FindPackageByID(99))
}

func TestEarningMath(t *testing.T) {
	// 100 staked at 1.0%/day capped at 1.8x.
	assert.InDelta(t, 1.0, DailyEarning(100, 1.0), 1e-9)
	assert.InDelta(t, 180.0, MaxEarning(100, 1.8), 1e-9)
	assert.InDelta(t, 0.05, DailyEarning(10, 0.5), 1e-9)
}

func TestPackagesIsACopy(t *testing.T) {
	ps := Packages()
	require.NotEmpty(t, ps)
	ps[0].Amount = 9999
	assert.Equal(t, 10.0, Packages()[0].Amount)
}
