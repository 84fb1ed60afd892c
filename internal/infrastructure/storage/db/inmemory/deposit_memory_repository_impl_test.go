package inmemory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/infrastructure/storage/db/inmemory"
)

func TestAddDepositIsReplayProtected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewDepositRepositoryImpl()

	deposit := domain.Deposit{
		Currency: 2,
		TxHash:   "0xaa",
		Account:  "alice",
		Amount:   100,
	}
	require.NoError(t, repo.AddDeposit(ctx, deposit))

	err := repo.AddDeposit(ctx, deposit)
	require.EqualError(t, err, domain.ErrTransactionRepeated.Error())

	// the same hash under another currency is a different key
	other := deposit
	other.Currency = 3
	require.NoError(t, repo.AddDeposit(ctx, other))

	got, err := repo.GetDeposit(ctx, 2, "0xaa")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, deposit, *got)

	got, err = repo.GetDeposit(ctx, 2, "0xbb")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestWithdrawalRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewWithdrawalRepositoryImpl()

	record := domain.WithdrawalRecord{
		Withdrawal: domain.Withdrawal{
			ID:        0,
			Currency:  2,
			Applicant: "alice",
			Value:     100,
			Address:   "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		},
		Fee:   10,
		State: domain.WithdrawState{Kind: domain.WithdrawStatePending},
	}
	require.NoError(t, repo.AddWithdrawal(ctx, record))

	approved := domain.WithdrawState{Kind: domain.WithdrawStateApproved}
	require.NoError(t, repo.UpdateWithdrawalState(ctx, 0, approved))

	got, err := repo.GetWithdrawal(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, approved, got.State)

	err = repo.UpdateWithdrawalState(ctx, 1, approved)
	require.EqualError(t, err, domain.ErrWithdrawalRecordNotExisted.Error())

	require.NoError(t, repo.RemoveWithdrawal(ctx, 0))

	got, err = repo.GetWithdrawal(ctx, 0)
	require.NoError(t, err)
	require.Nil(t, got)

	err = repo.RemoveWithdrawal(ctx, 0)
	require.EqualError(t, err, domain.ErrWithdrawalRecordNotExisted.Error())
}

func TestListWithdrawalsOrderedById(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewWithdrawalRepositoryImpl()

	for _, id := range []uint64{3, 1, 2} {
		require.NoError(t, repo.AddWithdrawal(ctx, domain.WithdrawalRecord{
			Withdrawal: domain.Withdrawal{ID: id},
			State:      domain.WithdrawState{Kind: domain.WithdrawStatePending},
		}))
	}

	records, err := repo.ListWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, record := range records {
		require.Equal(t, uint64(i+1), record.Withdrawal.ID)
	}
}
