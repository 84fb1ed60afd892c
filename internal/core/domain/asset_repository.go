package domain

import "context"

// AssetRepository stores the registry entries of all known currencies.
// Entries are never deleted, only taken offline.
type AssetRepository interface {
	// GetAsset returns the registry entry of a currency, nil if unknown.
	GetAsset(ctx context.Context, currency CurrencyId) (*Asset, error)
	// InsertAsset adds a new registry entry.
	InsertAsset(ctx context.Context, asset Asset) error
	// UpdateAsset applies updateFn to the stored entry as one atomic
	// read-modify-write. It fails with ErrNotExistedAsset if the currency
	// is not registered.
	UpdateAsset(
		ctx context.Context, currency CurrencyId,
		updateFn func(asset *Asset) (*Asset, error),
	) error
	// ListAssets returns every registry entry ordered by currency id.
	ListAssets(ctx context.Context) ([]Asset, error)
}
