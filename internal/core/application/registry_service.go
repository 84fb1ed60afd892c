package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

// RegistryService manages the asset registry: currency metadata, the
// online flag and the per currency restriction bitmask. All mutations are
// admin operations, the host is expected to have authenticated the
// caller as root before they reach this service.
type RegistryService interface {
	CreateAsset(
		ctx context.Context, currency domain.CurrencyId, info domain.AssetInfo,
	) error
	UpdateAssetInfo(
		ctx context.Context, currency domain.CurrencyId, info domain.AssetInfo,
	) error
	// UpdateRestriction replaces the whole restriction bitmask.
	UpdateRestriction(
		ctx context.Context, currency domain.CurrencyId,
		restrictions domain.Restrictions,
	) error
	OfflineAsset(ctx context.Context, currency domain.CurrencyId) error
	OnlineAsset(ctx context.Context, currency domain.CurrencyId) error

	// GetAsset returns the info of a registered, online currency.
	GetAsset(
		ctx context.Context, currency domain.CurrencyId,
	) (*domain.AssetInfo, error)
	// CanDo fails with ErrRestrictedAction if the restriction is set.
	CanDo(
		ctx context.Context, currency domain.CurrencyId,
		restriction domain.Restriction,
	) error
	// TotalAssetInfos returns the full registry view of every known asset.
	TotalAssetInfos(
		ctx context.Context,
	) (map[domain.CurrencyId]domain.TotalAssetInfo, error)
}

type registryService struct {
	repoManager ports.RepoManager
	publisher   ports.EventPublisher
	ledger      *ledger
}

// NewRegistryService is the factory for a RegistryService.
func NewRegistryService(
	repoManager ports.RepoManager, publisher ports.EventPublisher,
) RegistryService {
	return &registryService{
		repoManager: repoManager,
		publisher:   publisher,
		ledger: newLedger(
			repoManager.AssetRepository(),
			repoManager.BalanceRepository(),
		),
	}
}

func (s *registryService) CreateAsset(
	ctx context.Context, currency domain.CurrencyId, info domain.AssetInfo,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return createAsset(ctx, s.repoManager.AssetRepository(), currency, info)
	})
}

// createAsset validates the metadata and registers the currency online.
// It is shared with the genesis bootstrap.
func createAsset(
	ctx context.Context, repo domain.AssetRepository,
	currency domain.CurrencyId, info domain.AssetInfo,
) ([]domain.Event, error) {
	existing, err := repo.GetAsset(ctx, currency)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrExistedAsset
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"currency": currency,
		"symbol":   info.Symbol,
	}).Info("creating asset")

	if err := repo.InsertAsset(ctx, domain.Asset{
		Currency:     currency,
		Info:         info,
		Online:       true,
		Restrictions: domain.RestrictionsNone,
	}); err != nil {
		return nil, err
	}

	return []domain.Event{domain.NewEvent(domain.EventAssetCreated, map[string]interface{}{
		"currency": currency,
		"symbol":   info.Symbol,
	})}, nil
}

func (s *registryService) UpdateAssetInfo(
	ctx context.Context, currency domain.CurrencyId, info domain.AssetInfo,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := info.Validate(); err != nil {
			return nil, err
		}
		if err := s.repoManager.AssetRepository().UpdateAsset(
			ctx, currency,
			func(asset *domain.Asset) (*domain.Asset, error) {
				asset.Info = info
				return asset, nil
			},
		); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventAssetInfoUpdated, map[string]interface{}{
			"currency": currency,
		})}, nil
	})
}

func (s *registryService) UpdateRestriction(
	ctx context.Context, currency domain.CurrencyId,
	restrictions domain.Restrictions,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.repoManager.AssetRepository().UpdateAsset(
			ctx, currency,
			func(asset *domain.Asset) (*domain.Asset, error) {
				asset.Restrictions = restrictions
				return asset, nil
			},
		); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventAssetRestrictionUpdated, map[string]interface{}{
			"currency":     currency,
			"restrictions": restrictions,
		})}, nil
	})
}

func (s *registryService) OfflineAsset(
	ctx context.Context, currency domain.CurrencyId,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.repoManager.AssetRepository().UpdateAsset(
			ctx, currency,
			func(asset *domain.Asset) (*domain.Asset, error) {
				asset.Online = false
				return asset, nil
			},
		); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventAssetOffline, map[string]interface{}{
			"currency": currency,
		})}, nil
	})
}

func (s *registryService) OnlineAsset(
	ctx context.Context, currency domain.CurrencyId,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.repoManager.AssetRepository().UpdateAsset(
			ctx, currency,
			func(asset *domain.Asset) (*domain.Asset, error) {
				asset.Online = true
				return asset, nil
			},
		); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventAssetOnline, map[string]interface{}{
			"currency": currency,
		})}, nil
	})
}

func (s *registryService) GetAsset(
	ctx context.Context, currency domain.CurrencyId,
) (*domain.AssetInfo, error) {
	return s.ledger.getOnlineAsset(ctx, currency)
}

func (s *registryService) CanDo(
	ctx context.Context, currency domain.CurrencyId,
	restriction domain.Restriction,
) error {
	return s.ledger.canDo(ctx, currency, restriction)
}

func (s *registryService) TotalAssetInfos(
	ctx context.Context,
) (map[domain.CurrencyId]domain.TotalAssetInfo, error) {
	assets, err := s.repoManager.AssetRepository().ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	infos := make(map[domain.CurrencyId]domain.TotalAssetInfo, len(assets))
	for _, asset := range assets {
		issuance, err := s.repoManager.BalanceRepository().GetTotalIssuance(
			ctx, asset.Currency,
		)
		if err != nil {
			return nil, err
		}
		infos[asset.Currency] = domain.TotalAssetInfo{
			Info:         asset.Info,
			Balance:      issuance,
			IsOnline:     asset.Online,
			Restrictions: asset.Restrictions,
		}
	}
	return infos, nil
}

func (s *registryService) runWrite(
	ctx context.Context,
	handler func(ctx context.Context) ([]domain.Event, error),
) error {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return handler(ctx)
		},
	)
	if err != nil {
		return err
	}
	publishEvents(s.publisher, res)
	return nil
}
