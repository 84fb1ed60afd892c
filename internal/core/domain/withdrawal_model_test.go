package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RioDefi/riochain/internal/core/domain"
)

func TestValidateWithdrawal(t *testing.T) {
	t.Parallel()

	withdrawal := domain.Withdrawal{
		ID:        1,
		Currency:  2,
		Applicant: "alice",
		Value:     1000,
		Address:   "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		Memo:      "first withdrawal",
	}
	require.NoError(t, withdrawal.Validate())
}

func TestFailingValidateWithdrawal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		withdrawal    domain.Withdrawal
		expectedError error
	}{
		{
			name: "address_too_long",
			withdrawal: domain.Withdrawal{
				Address: strings.Repeat("a", domain.MaxAddressLen+1),
			},
			expectedError: domain.ErrInvalidWithdraw,
		},
		{
			name: "memo_too_long",
			withdrawal: domain.Withdrawal{
				Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
				Memo:    strings.Repeat("a", domain.MaxMemoLen+1),
			},
			expectedError: domain.ErrInvalidWithdraw,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.withdrawal.Validate()
			require.EqualError(t, err, tt.expectedError.Error())
		})
	}
}

func TestWithdrawStateIsTerminal(t *testing.T) {
	t.Parallel()

	terminal := []domain.WithdrawStateKind{
		domain.WithdrawStateCancelled,
		domain.WithdrawStateRejected,
		domain.WithdrawStateSuccess,
	}
	for _, kind := range terminal {
		require.True(t, domain.WithdrawState{Kind: kind}.IsTerminal(), kind.String())
	}

	active := []domain.WithdrawStateKind{
		domain.WithdrawStatePending,
		domain.WithdrawStateApproved,
		domain.WithdrawStateReBroadcasted,
	}
	for _, kind := range active {
		require.False(t, domain.WithdrawState{Kind: kind}.IsTerminal(), kind.String())
	}
}

func TestAuths(t *testing.T) {
	t.Parallel()

	auths := domain.AuthsNone
	require.False(t, auths.Contains(domain.AuthRegister))

	auths = auths.Add(domain.AuthDeposit).Add(domain.AuthWithdraw)
	require.True(t, auths.Contains(domain.AuthDeposit))
	require.True(t, auths.Contains(domain.AuthWithdraw))
	require.False(t, auths.Contains(domain.AuthRegister))
	require.False(t, auths.Contains(domain.AuthSudo))
}
