package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

// GenesisBalance endows an account with an initial free balance.
type GenesisBalance struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

// GenesisAsset registers a currency at genesis with optional endowments.
type GenesisAsset struct {
	Currency     domain.CurrencyId   `json:"currency"`
	Info         domain.AssetInfo    `json:"info"`
	Restrictions domain.Restrictions `json:"restrictions"`
	Endowed      []GenesisBalance    `json:"endowed"`
}

// GenesisSupportedCurrency enables a currency on the gateway with its
// withdrawal fee.
type GenesisSupportedCurrency struct {
	Currency      domain.CurrencyId `json:"currency"`
	WithdrawalFee uint64            `json:"withdrawalFee"`
}

// GenesisDepositAddrInfo configures deposit address derivation for a
// currency.
type GenesisDepositAddrInfo struct {
	Currency domain.CurrencyId      `json:"currency"`
	Info     domain.DepositAddrInfo `json:"info"`
}

// GenesisAdmin grants gateway capabilities to an account.
type GenesisAdmin struct {
	Account string       `json:"account"`
	Auths   domain.Auths `json:"auths"`
}

// GenesisConfig is the bootstrap configuration supplied once at startup.
type GenesisConfig struct {
	Assets              []GenesisAsset             `json:"assets"`
	SupportedCurrencies []GenesisSupportedCurrency `json:"supportedCurrencies"`
	DepositAddrInfos    []GenesisDepositAddrInfo   `json:"depositAddrInfos"`
	Admins              []GenesisAdmin             `json:"admins"`
	MaxDepositIndex     uint64                     `json:"maxDepositIndex"`
}

// ApplyGenesis seeds an empty store with the genesis configuration as a
// single transaction. It fails with ErrGenesisAlreadyApplied when any
// asset is already registered, so restarting the daemon is harmless.
func ApplyGenesis(
	ctx context.Context, repoManager ports.RepoManager, config GenesisConfig,
) error {
	_, err := repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			assetRepo := repoManager.AssetRepository()
			balanceRepo := repoManager.BalanceRepository()
			gatewayRepo := repoManager.GatewayRepository()

			existing, err := assetRepo.ListAssets(ctx)
			if err != nil {
				return nil, err
			}
			if len(existing) > 0 {
				return nil, ErrGenesisAlreadyApplied
			}

			for _, genesisAsset := range config.Assets {
				if _, err := createAsset(
					ctx, assetRepo, genesisAsset.Currency, genesisAsset.Info,
				); err != nil {
					return nil, err
				}
				if err := assetRepo.UpdateAsset(
					ctx, genesisAsset.Currency,
					func(asset *domain.Asset) (*domain.Asset, error) {
						asset.Restrictions = genesisAsset.Restrictions
						return asset, nil
					},
				); err != nil {
					return nil, err
				}

				var total uint64
				for _, endowed := range genesisAsset.Endowed {
					balance := endowed.Balance
					if err := balanceRepo.UpdateAccount(
						ctx, endowed.Account, genesisAsset.Currency,
						func(data *domain.AccountData) (*domain.AccountData, error) {
							data.Free = balance
							return data, nil
						},
					); err != nil {
						return nil, err
					}
					total += balance
				}
				if err := balanceRepo.UpdateTotalIssuance(
					ctx, genesisAsset.Currency,
					func(uint64) (uint64, error) { return total, nil },
				); err != nil {
					return nil, err
				}
			}

			for _, supported := range config.SupportedCurrencies {
				if err := gatewayRepo.AddSupportedCurrency(ctx, domain.SupportedCurrency{
					Currency:      supported.Currency,
					WithdrawalFee: supported.WithdrawalFee,
				}); err != nil {
					return nil, err
				}
			}
			for _, addrInfo := range config.DepositAddrInfos {
				if err := gatewayRepo.SetDepositAddrInfo(
					ctx, addrInfo.Currency, addrInfo.Info,
				); err != nil {
					return nil, err
				}
			}
			for _, admin := range config.Admins {
				if err := gatewayRepo.SetAuths(
					ctx, admin.Account, admin.Auths,
				); err != nil {
					return nil, err
				}
			}
			if err := gatewayRepo.SetMaxDepositIndex(
				ctx, config.MaxDepositIndex,
			); err != nil {
				return nil, err
			}

			return nil, nil
		},
	)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"assets":     len(config.Assets),
		"supported":  len(config.SupportedCurrencies),
		"admins":     len(config.Admins),
		"maxDeposit": config.MaxDepositIndex,
	}).Info("genesis config applied")
	return nil
}
