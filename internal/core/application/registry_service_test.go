package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RioDefi/riochain/internal/core/application"
	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/infrastructure/storage/db/inmemory"
)

func TestCreateAsset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	registrySvc := application.NewRegistryService(repoManager, nil)

	info := domain.AssetInfo{
		Chain:    domain.ChainEthereum,
		Symbol:   "RETH",
		Name:     "RETH token",
		Decimals: 18,
	}
	require.NoError(t, registrySvc.CreateAsset(ctx, 3, info))

	got, err := registrySvc.GetAsset(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, info, *got)

	// a new asset is online and unrestricted
	for _, restriction := range []domain.Restriction{
		domain.RestrictionTransferable,
		domain.RestrictionDepositable,
		domain.RestrictionWithdrawable,
	} {
		require.NoError(t, registrySvc.CanDo(ctx, 3, restriction))
	}

	err = registrySvc.CreateAsset(ctx, 3, info)
	require.EqualError(t, err, domain.ErrExistedAsset.Error())

	err = registrySvc.CreateAsset(ctx, 4, domain.AssetInfo{
		Symbol:   "BAD",
		Name:     "no decimals",
		Decimals: 0,
	})
	require.EqualError(t, err, domain.ErrInvalidAssetInfo.Error())
}

func TestUpdateAssetInfo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	registrySvc := newTestRegistry(t, repoManager)

	updated := domain.AssetInfo{
		Chain:    domain.ChainBitcoin,
		Symbol:   "RBTC",
		Name:     "RBTC token v2",
		Decimals: 8,
		Desc:     "renamed",
	}
	require.NoError(t, registrySvc.UpdateAssetInfo(ctx, btcCurrency, updated))

	got, err := registrySvc.GetAsset(ctx, btcCurrency)
	require.NoError(t, err)
	require.Equal(t, updated, *got)

	err = registrySvc.UpdateAssetInfo(ctx, 42, updated)
	require.EqualError(t, err, domain.ErrNotExistedAsset.Error())
}

func TestOfflineAndOnlineAsset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	registrySvc := newTestRegistry(t, repoManager)

	require.NoError(t, registrySvc.OfflineAsset(ctx, btcCurrency))

	_, err := registrySvc.GetAsset(ctx, btcCurrency)
	require.EqualError(t, err, domain.ErrInvalidAsset.Error())

	require.NoError(t, registrySvc.OnlineAsset(ctx, btcCurrency))

	got, err := registrySvc.GetAsset(ctx, btcCurrency)
	require.NoError(t, err)
	require.NotNil(t, got)

	err = registrySvc.OfflineAsset(ctx, 42)
	require.EqualError(t, err, domain.ErrNotExistedAsset.Error())
}

func TestUpdateRestriction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	registrySvc := newTestRegistry(t, repoManager)

	restrictions := domain.RestrictionsNone.
		Add(domain.RestrictionTransferable).
		Add(domain.RestrictionSlashable)
	require.NoError(t, registrySvc.UpdateRestriction(ctx, rioCurrency, restrictions))

	err := registrySvc.CanDo(ctx, rioCurrency, domain.RestrictionTransferable)
	require.EqualError(t, err, domain.ErrRestrictedAction.Error())
	require.NoError(t, registrySvc.CanDo(ctx, rioCurrency, domain.RestrictionDepositable))

	// the mask is replaced as a whole, not merged
	require.NoError(t, registrySvc.UpdateRestriction(
		ctx, rioCurrency,
		domain.RestrictionsNone.Add(domain.RestrictionDepositable),
	))
	require.NoError(t, registrySvc.CanDo(ctx, rioCurrency, domain.RestrictionTransferable))
	err = registrySvc.CanDo(ctx, rioCurrency, domain.RestrictionDepositable)
	require.EqualError(t, err, domain.ErrRestrictedAction.Error())
}

func TestTotalAssetInfos(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	registrySvc := newTestRegistry(t, repoManager)
	ledgerSvc := application.NewLedgerService(repoManager, nil)

	require.NoError(t, ledgerSvc.Deposit(ctx, rioCurrency, alice, 5000))
	require.NoError(t, registrySvc.OfflineAsset(ctx, btcCurrency))

	infos, err := registrySvc.TotalAssetInfos(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	require.Equal(t, uint64(5000), infos[rioCurrency].Balance)
	require.True(t, infos[rioCurrency].IsOnline)

	// offline assets still show up in the registry view
	require.Zero(t, infos[btcCurrency].Balance)
	require.False(t, infos[btcCurrency].IsOnline)
}
