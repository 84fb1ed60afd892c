package dbbadger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/RioDefi/riochain/internal/core/domain"
)

type accountRecord struct {
	Account  string
	Currency domain.CurrencyId
	Data     domain.AccountData
}

type issuanceRecord struct {
	Currency domain.CurrencyId
	Total    uint64
}

type locksRecord struct {
	Account  string
	Currency domain.CurrencyId
	Locks    []domain.BalanceLock
}

type accountRefRecord struct {
	Account string
	Refs    int
}

func accountKey(account string, currency domain.CurrencyId) string {
	return fmt.Sprintf("%s:%d", account, currency)
}

type balanceRepositoryImpl struct {
	store *badgerhold.Store
}

func newBalanceRepositoryImpl(store *badgerhold.Store) domain.BalanceRepository {
	return balanceRepositoryImpl{store}
}

func (b balanceRepositoryImpl) GetAccount(
	ctx context.Context, account string, currency domain.CurrencyId,
) (domain.AccountData, error) {
	var record accountRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = b.store.TxGet(tx, accountKey(account, currency), &record)
	} else {
		err = b.store.Get(accountKey(account, currency), &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.AccountData{}, nil
		}
		return domain.AccountData{}, err
	}
	return record.Data, nil
}

func (b balanceRepositoryImpl) UpdateAccount(
	ctx context.Context, account string, currency domain.CurrencyId,
	updateFn func(data *domain.AccountData) (*domain.AccountData, error),
) error {
	data, err := b.GetAccount(ctx, account, currency)
	if err != nil {
		return err
	}
	updated, err := updateFn(&data)
	if err != nil {
		return err
	}

	record := accountRecord{
		Account:  account,
		Currency: currency,
		Data:     *updated,
	}
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return b.store.TxUpsert(tx, accountKey(account, currency), &record)
	}
	return b.store.Upsert(accountKey(account, currency), &record)
}

func (b balanceRepositoryImpl) ListAccountsForCurrency(
	ctx context.Context, currency domain.CurrencyId,
) ([]domain.AccountBalance, error) {
	query := badgerhold.Where("Currency").Eq(currency).SortBy("Account")

	var records []accountRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = b.store.TxFind(tx, &records, query)
	} else {
		err = b.store.Find(&records, query)
	}
	if err != nil {
		return nil, err
	}

	balances := make([]domain.AccountBalance, 0, len(records))
	for _, record := range records {
		balances = append(balances, domain.AccountBalance{
			Account:  record.Account,
			Currency: record.Currency,
			Data:     record.Data,
		})
	}
	return balances, nil
}

func (b balanceRepositoryImpl) GetTotalIssuance(
	ctx context.Context, currency domain.CurrencyId,
) (uint64, error) {
	var record issuanceRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = b.store.TxGet(tx, currency, &record)
	} else {
		err = b.store.Get(currency, &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return record.Total, nil
}

func (b balanceRepositoryImpl) UpdateTotalIssuance(
	ctx context.Context, currency domain.CurrencyId,
	updateFn func(total uint64) (uint64, error),
) error {
	total, err := b.GetTotalIssuance(ctx, currency)
	if err != nil {
		return err
	}
	updated, err := updateFn(total)
	if err != nil {
		return err
	}

	record := issuanceRecord{Currency: currency, Total: updated}
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return b.store.TxUpsert(tx, currency, &record)
	}
	return b.store.Upsert(currency, &record)
}

func (b balanceRepositoryImpl) GetLocks(
	ctx context.Context, account string, currency domain.CurrencyId,
) ([]domain.BalanceLock, error) {
	var record locksRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = b.store.TxGet(tx, accountKey(account, currency), &record)
	} else {
		err = b.store.Get(accountKey(account, currency), &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return record.Locks, nil
}

func (b balanceRepositoryImpl) SetLocks(
	ctx context.Context, account string, currency domain.CurrencyId,
	locks []domain.BalanceLock,
) error {
	key := accountKey(account, currency)

	if len(locks) == 0 {
		var err error
		if ctx.Value("tx") != nil {
			tx := ctx.Value("tx").(*badger.Txn)
			err = b.store.TxDelete(tx, key, locksRecord{})
		} else {
			err = b.store.Delete(key, locksRecord{})
		}
		if err != nil && err != badgerhold.ErrNotFound {
			return err
		}
		return nil
	}

	record := locksRecord{Account: account, Currency: currency, Locks: locks}
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return b.store.TxUpsert(tx, key, &record)
	}
	return b.store.Upsert(key, &record)
}

func (b balanceRepositoryImpl) IncrementAccountRef(
	ctx context.Context, account string,
) error {
	return b.updateAccountRef(ctx, account, 1)
}

func (b balanceRepositoryImpl) DecrementAccountRef(
	ctx context.Context, account string,
) error {
	return b.updateAccountRef(ctx, account, -1)
}

func (b balanceRepositoryImpl) updateAccountRef(
	ctx context.Context, account string, delta int,
) error {
	var record accountRefRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = b.store.TxGet(tx, account, &record)
	} else {
		err = b.store.Get(account, &record)
	}
	if err != nil && err != badgerhold.ErrNotFound {
		return err
	}

	record.Account = account
	record.Refs += delta
	if record.Refs < 0 {
		record.Refs = 0
	}

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return b.store.TxUpsert(tx, account, &record)
	}
	return b.store.Upsert(account, &record)
}
