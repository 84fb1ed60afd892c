package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RioDefi/riochain/internal/core/application"
	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/infrastructure/storage/db/inmemory"
)

func TestApplyGenesis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()

	config := application.GenesisConfig{
		Assets: []application.GenesisAsset{
			{
				Currency: rioCurrency,
				Info: domain.AssetInfo{
					Chain:    domain.ChainRio,
					Symbol:   "RFUEL",
					Name:     "Rio Fuel Token",
					Decimals: 12,
				},
				Endowed: []application.GenesisBalance{
					{Account: alice, Balance: 1000},
					{Account: bob, Balance: 500},
				},
			},
			{
				Currency: btcCurrency,
				Info: domain.AssetInfo{
					Chain:    domain.ChainBitcoin,
					Symbol:   "RBTC",
					Name:     "RBTC token",
					Decimals: 8,
				},
				Restrictions: domain.RestrictionsNone.Add(domain.RestrictionSlashable),
			},
		},
		SupportedCurrencies: []application.GenesisSupportedCurrency{
			{Currency: btcCurrency, WithdrawalFee: 10},
		},
		Admins: []application.GenesisAdmin{
			{Account: admin, Auths: allAuths},
		},
		MaxDepositIndex: 100,
	}

	require.NoError(t, application.ApplyGenesis(ctx, repoManager, config))

	ledgerSvc := application.NewLedgerService(repoManager, nil)
	registrySvc := application.NewRegistryService(repoManager, nil)
	gatewaySvc := application.NewGatewayService(repoManager, nil)

	free, err := ledgerSvc.FreeBalance(ctx, rioCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), free)

	// issuance matches the sum of the endowments
	issuance, err := ledgerSvc.TotalIssuance(ctx, rioCurrency)
	require.NoError(t, err)
	require.Equal(t, uint64(1500), issuance)

	err = registrySvc.CanDo(ctx, btcCurrency, domain.RestrictionSlashable)
	require.EqualError(t, err, domain.ErrRestrictedAction.Error())

	// genesis admins can operate the gateway right away
	require.NoError(t, gatewaySvc.Deposit(
		ctx, admin, alice, btcCurrency, "0xaa", 100,
	))

	index, err := gatewaySvc.ApplyDepositIndex(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(0), index)

	// a second application is refused
	err = application.ApplyGenesis(ctx, repoManager, config)
	require.EqualError(t, err, application.ErrGenesisAlreadyApplied.Error())
}
