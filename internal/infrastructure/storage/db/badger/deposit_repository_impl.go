package dbbadger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/RioDefi/riochain/internal/core/domain"
)

type depositIndexRecord struct {
	Account string
	Index   uint64
}

type counterRecord struct {
	Name  string
	Value uint64
}

const counterNextDepositIndex = "nextDepositIndex"

func depositKey(currency domain.CurrencyId, txHash domain.TxHash) string {
	return fmt.Sprintf("%d:%s", currency, txHash)
}

type depositRepositoryImpl struct {
	store *badgerhold.Store
}

func newDepositRepositoryImpl(store *badgerhold.Store) domain.DepositRepository {
	return depositRepositoryImpl{store}
}

func (d depositRepositoryImpl) GetDeposit(
	ctx context.Context, currency domain.CurrencyId, txHash domain.TxHash,
) (*domain.Deposit, error) {
	var deposit domain.Deposit
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = d.store.TxGet(tx, depositKey(currency, txHash), &deposit)
	} else {
		err = d.store.Get(depositKey(currency, txHash), &deposit)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &deposit, nil
}

func (d depositRepositoryImpl) AddDeposit(
	ctx context.Context, deposit domain.Deposit,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = d.store.TxInsert(tx, depositKey(deposit.Currency, deposit.TxHash), &deposit)
	} else {
		err = d.store.Insert(depositKey(deposit.Currency, deposit.TxHash), &deposit)
	}
	if err == badgerhold.ErrKeyExists {
		return domain.ErrTransactionRepeated
	}
	return err
}

func (d depositRepositoryImpl) GetDepositIndex(
	ctx context.Context, account string,
) (*uint64, error) {
	var record depositIndexRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = d.store.TxGet(tx, account, &record)
	} else {
		err = d.store.Get(account, &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record.Index, nil
}

func (d depositRepositoryImpl) SetDepositIndex(
	ctx context.Context, account string, index uint64,
) error {
	record := depositIndexRecord{Account: account, Index: index}
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return d.store.TxInsert(tx, account, &record)
	}
	return d.store.Insert(account, &record)
}

func (d depositRepositoryImpl) GetNextDepositIndex(
	ctx context.Context,
) (uint64, error) {
	return getCounter(ctx, d.store, counterNextDepositIndex)
}

func (d depositRepositoryImpl) SetNextDepositIndex(
	ctx context.Context, index uint64,
) error {
	return setCounter(ctx, d.store, counterNextDepositIndex, index)
}

func getCounter(
	ctx context.Context, store *badgerhold.Store, name string,
) (uint64, error) {
	var record counterRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = store.TxGet(tx, name, &record)
	} else {
		err = store.Get(name, &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return record.Value, nil
}

func setCounter(
	ctx context.Context, store *badgerhold.Store, name string, value uint64,
) error {
	record := counterRecord{Name: name, Value: value}
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return store.TxUpsert(tx, name, &record)
	}
	return store.Upsert(name, &record)
}
