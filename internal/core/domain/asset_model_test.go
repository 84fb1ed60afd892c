package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RioDefi/riochain/internal/core/domain"
)

func TestValidateAssetInfo(t *testing.T) {
	t.Parallel()

	info := domain.AssetInfo{
		Chain:    domain.ChainBitcoin,
		Symbol:   "RBTC",
		Name:     "RBTC token",
		Decimals: 8,
		Desc:     "Bitcoin pegged token",
	}
	require.NoError(t, info.Validate())
}

func TestFailingValidateAssetInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		info          domain.AssetInfo
		expectedError error
	}{
		{
			name: "symbol_too_long",
			info: domain.AssetInfo{
				Symbol:   strings.Repeat("A", domain.MaxSymbolLen+1),
				Name:     "token",
				Decimals: 8,
			},
			expectedError: domain.ErrInvalidAssetInfo,
		},
		{
			name: "name_too_long",
			info: domain.AssetInfo{
				Symbol:   "RBTC",
				Name:     strings.Repeat("A", domain.MaxNameLen+1),
				Decimals: 8,
			},
			expectedError: domain.ErrInvalidAssetInfo,
		},
		{
			name: "desc_too_long",
			info: domain.AssetInfo{
				Symbol:   "RBTC",
				Name:     "token",
				Decimals: 8,
				Desc:     strings.Repeat("A", domain.MaxDescLen+1),
			},
			expectedError: domain.ErrInvalidAssetInfo,
		},
		{
			name: "zero_decimals",
			info: domain.AssetInfo{
				Symbol:   "RBTC",
				Name:     "token",
				Decimals: 0,
			},
			expectedError: domain.ErrInvalidAssetInfo,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.info.Validate()
			require.EqualError(t, err, tt.expectedError.Error())
		})
	}
}

func TestRestrictions(t *testing.T) {
	t.Parallel()

	restrictions := domain.RestrictionsNone
	require.False(t, restrictions.Contains(domain.RestrictionTransferable))

	restrictions = restrictions.
		Add(domain.RestrictionTransferable).
		Add(domain.RestrictionSlashable)

	require.True(t, restrictions.Contains(domain.RestrictionTransferable))
	require.True(t, restrictions.Contains(domain.RestrictionSlashable))
	require.False(t, restrictions.Contains(domain.RestrictionDepositable))
	require.False(t, restrictions.Contains(domain.RestrictionWithdrawable))
	require.False(t, restrictions.Contains(domain.RestrictionReservable))
	require.False(t, restrictions.Contains(domain.RestrictionUnreservable))
}
