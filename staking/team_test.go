package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrideRatesFromEnvDefaults(t *testing.T) {
	t.Setenv("TEAM_OVERRIDE_L1", "")
	t.Setenv("TEAM_OVERRIDE_L2", "")
	t.Setenv("TEAM_OVERRIDE_L3", "")

	rates := OverrideRatesFromEnv()
	assert.Equal(t, [TeamLevels]float64{10, 3, 1}, rates)
}

func TestOverrideRatesFromEnvOverrides(t *testing.T) {
	t.Setenv("TEAM_OVERRIDE_L1", "12.5")
	t.Setenv("TEAM_OVERRIDE_L2", "not-a-number")
	t.Setenv("TEAM_OVERRIDE_L3", "-2")

	rates := OverrideRatesFromEnv()
	assert.Equal(t, 12.5, rates[0])
	// Malformed and negative values keep the defaults.
	assert.Equal(t, 3.0, rates[1])
	assert.Equal(t, 1.0, rates[2])
}
