package staking

import (
	"testing"

	"stakevault/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStakeAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantErr error
		wantPkg string
	}{
		{name: "bronze tier", amount: 100, wantPkg: "Bronze"},
		{name: "legend tier", amount: 25000, wantPkg: "Legend"},
		{name: "zero", amount: 0, wantErr: ErrAmountNotPositive},
		{name: "negative", amount: -50, wantErr: ErrAmountNotPositive},
		{name: "fractional", amount: 100.5, wantErr: ErrAmountNotWhole},
		{name: "between tiers", amount: 150, wantErr: ErrNoMatchingPackage},
		{name: "above top tier", amount: 30000, wantErr: ErrNoMatchingPackage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := ValidateStakeAmount(tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pkg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, pkg)
			assert.Equal(t, tt.wantPkg, pkg.Name)
		})
	}
}

func TestValidateStakeAmountSnapshotsTerms(t *testing.T) {
	pkg, err := ValidateStakeAmount(500)
	require.NoError(t, err)
	assert.Equal(t, 1.2, pkg.DailyROI)
	assert.Equal(t, 2.0, pkg.Cap)
	assert.Equal(t, 1000.0, catalog.MaxEarning(500, pkg.Cap))
}
