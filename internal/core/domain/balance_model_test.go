package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RioDefi/riochain/internal/core/domain"
)

func TestAccountDataTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		data          domain.AccountData
		expectedTotal uint64
	}{
		{
			name:          "empty",
			data:          domain.AccountData{},
			expectedTotal: 0,
		},
		{
			name:          "free_and_reserved",
			data:          domain.AccountData{Free: 100, Reserved: 40},
			expectedTotal: 140,
		},
		{
			name: "saturates_on_overflow",
			data: domain.AccountData{
				Free:     math.MaxUint64,
				Reserved: 1,
			},
			expectedTotal: math.MaxUint64,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.expectedTotal, tt.data.Total())
		})
	}
}

func TestFrozenFor(t *testing.T) {
	t.Parallel()

	require.Zero(t, domain.FrozenFor(nil))

	locks := []domain.BalanceLock{
		{ID: "staking", Amount: 100},
		{ID: "voting", Amount: 250},
		{ID: "vesting", Amount: 30},
	}
	// overlapping locks freeze the max, not the sum
	require.Equal(t, uint64(250), domain.FrozenFor(locks))
}
