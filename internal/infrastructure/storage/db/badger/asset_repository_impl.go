package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/RioDefi/riochain/internal/core/domain"
)

type assetRepositoryImpl struct {
	store *badgerhold.Store
}

func newAssetRepositoryImpl(store *badgerhold.Store) domain.AssetRepository {
	return assetRepositoryImpl{store}
}

func (a assetRepositoryImpl) GetAsset(
	ctx context.Context, currency domain.CurrencyId,
) (*domain.Asset, error) {
	var asset domain.Asset
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = a.store.TxGet(tx, currency, &asset)
	} else {
		err = a.store.Get(currency, &asset)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (a assetRepositoryImpl) InsertAsset(
	ctx context.Context, asset domain.Asset,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return a.store.TxInsert(tx, asset.Currency, &asset)
	}
	return a.store.Insert(asset.Currency, &asset)
}

func (a assetRepositoryImpl) UpdateAsset(
	ctx context.Context, currency domain.CurrencyId,
	updateFn func(asset *domain.Asset) (*domain.Asset, error),
) error {
	asset, err := a.GetAsset(ctx, currency)
	if err != nil {
		return err
	}
	if asset == nil {
		return domain.ErrNotExistedAsset
	}

	updated, err := updateFn(asset)
	if err != nil {
		return err
	}

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return a.store.TxUpdate(tx, currency, updated)
	}
	return a.store.Update(currency, updated)
}

func (a assetRepositoryImpl) ListAssets(
	ctx context.Context,
) ([]domain.Asset, error) {
	query := (&badgerhold.Query{}).SortBy("Currency")

	var assets []domain.Asset
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = a.store.TxFind(tx, &assets, query)
	} else {
		err = a.store.Find(&assets, query)
	}
	if err != nil {
		return nil, err
	}
	return assets, nil
}
