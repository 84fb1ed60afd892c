package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/RioDefi/riochain/internal/core/domain"
)

const counterMaxDepositIndex = "maxDepositIndex"

type authRecord struct {
	Account string
	Auths   domain.Auths
}

type addrInfoRecord struct {
	Currency domain.CurrencyId
	Info     domain.DepositAddrInfo
}

type gatewayRepositoryImpl struct {
	store *badgerhold.Store
}

func newGatewayRepositoryImpl(store *badgerhold.Store) domain.GatewayRepository {
	return gatewayRepositoryImpl{store}
}

func (g gatewayRepositoryImpl) GetAuths(
	ctx context.Context, account string,
) (domain.Auths, error) {
	var record authRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = g.store.TxGet(tx, account, &record)
	} else {
		err = g.store.Get(account, &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.AuthsNone, nil
		}
		return domain.AuthsNone, err
	}
	return record.Auths, nil
}

func (g gatewayRepositoryImpl) SetAuths(
	ctx context.Context, account string, auths domain.Auths,
) error {
	record := authRecord{Account: account, Auths: auths}
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return g.store.TxUpsert(tx, account, &record)
	}
	return g.store.Upsert(account, &record)
}

func (g gatewayRepositoryImpl) GetSupportedCurrency(
	ctx context.Context, currency domain.CurrencyId,
) (*domain.SupportedCurrency, error) {
	var supported domain.SupportedCurrency
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = g.store.TxGet(tx, currency, &supported)
	} else {
		err = g.store.Get(currency, &supported)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &supported, nil
}

func (g gatewayRepositoryImpl) AddSupportedCurrency(
	ctx context.Context, supported domain.SupportedCurrency,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return g.store.TxUpsert(tx, supported.Currency, &supported)
	}
	return g.store.Upsert(supported.Currency, &supported)
}

func (g gatewayRepositoryImpl) RemoveSupportedCurrency(
	ctx context.Context, currency domain.CurrencyId,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = g.store.TxDelete(tx, currency, domain.SupportedCurrency{})
	} else {
		err = g.store.Delete(currency, domain.SupportedCurrency{})
	}
	if err != nil && err != badgerhold.ErrNotFound {
		return err
	}
	return nil
}

func (g gatewayRepositoryImpl) UpdateWithdrawalFee(
	ctx context.Context, currency domain.CurrencyId, fee uint64,
) error {
	supported, err := g.GetSupportedCurrency(ctx, currency)
	if err != nil {
		return err
	}
	if supported == nil {
		return domain.ErrAssetNotSupported
	}
	supported.WithdrawalFee = fee
	return g.AddSupportedCurrency(ctx, *supported)
}

func (g gatewayRepositoryImpl) GetDepositAddrInfo(
	ctx context.Context, currency domain.CurrencyId,
) (*domain.DepositAddrInfo, error) {
	var record addrInfoRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = g.store.TxGet(tx, currency, &record)
	} else {
		err = g.store.Get(currency, &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record.Info, nil
}

func (g gatewayRepositoryImpl) SetDepositAddrInfo(
	ctx context.Context, currency domain.CurrencyId, info domain.DepositAddrInfo,
) error {
	record := addrInfoRecord{Currency: currency, Info: info}
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return g.store.TxUpsert(tx, currency, &record)
	}
	return g.store.Upsert(currency, &record)
}

func (g gatewayRepositoryImpl) GetMaxDepositIndex(
	ctx context.Context,
) (uint64, error) {
	return getCounter(ctx, g.store, counterMaxDepositIndex)
}

func (g gatewayRepositoryImpl) SetMaxDepositIndex(
	ctx context.Context, max uint64,
) error {
	return setCounter(ctx, g.store, counterMaxDepositIndex, max)
}
