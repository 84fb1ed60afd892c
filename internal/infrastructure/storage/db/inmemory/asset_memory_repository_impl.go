package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// AssetRepositoryImpl represents an in memory asset registry.
type AssetRepositoryImpl struct {
	assets map[domain.CurrencyId]domain.Asset

	lock *sync.RWMutex
}

// NewAssetRepositoryImpl returns a new empty AssetRepositoryImpl.
func NewAssetRepositoryImpl() *AssetRepositoryImpl {
	return &AssetRepositoryImpl{
		assets: map[domain.CurrencyId]domain.Asset{},
		lock:   &sync.RWMutex{},
	}
}

func (r AssetRepositoryImpl) GetAsset(
	_ context.Context, currency domain.CurrencyId,
) (*domain.Asset, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	asset, ok := r.assets[currency]
	if !ok {
		return nil, nil
	}
	return &asset, nil
}

func (r AssetRepositoryImpl) InsertAsset(
	_ context.Context, asset domain.Asset,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.assets[asset.Currency]; ok {
		return domain.ErrExistedAsset
	}
	r.assets[asset.Currency] = asset
	return nil
}

func (r AssetRepositoryImpl) UpdateAsset(
	_ context.Context, currency domain.CurrencyId,
	updateFn func(asset *domain.Asset) (*domain.Asset, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	currentAsset, ok := r.assets[currency]
	if !ok {
		return domain.ErrNotExistedAsset
	}

	updatedAsset, err := updateFn(&currentAsset)
	if err != nil {
		return err
	}

	r.assets[currency] = *updatedAsset
	return nil
}

func (r AssetRepositoryImpl) ListAssets(
	_ context.Context,
) ([]domain.Asset, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	assets := make([]domain.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Currency < assets[j].Currency
	})
	return assets, nil
}
