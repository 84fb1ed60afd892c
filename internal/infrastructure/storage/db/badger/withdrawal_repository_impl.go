package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/RioDefi/riochain/internal/core/domain"
)

const counterNextWithdrawalID = "nextWithdrawalId"

type withdrawalRepositoryImpl struct {
	store *badgerhold.Store
}

func newWithdrawalRepositoryImpl(store *badgerhold.Store) domain.WithdrawalRepository {
	return withdrawalRepositoryImpl{store}
}

func (w withdrawalRepositoryImpl) GetWithdrawal(
	ctx context.Context, id uint64,
) (*domain.WithdrawalRecord, error) {
	var record domain.WithdrawalRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = w.store.TxGet(tx, id, &record)
	} else {
		err = w.store.Get(id, &record)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (w withdrawalRepositoryImpl) AddWithdrawal(
	ctx context.Context, record domain.WithdrawalRecord,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return w.store.TxInsert(tx, record.Withdrawal.ID, &record)
	}
	return w.store.Insert(record.Withdrawal.ID, &record)
}

func (w withdrawalRepositoryImpl) UpdateWithdrawalState(
	ctx context.Context, id uint64, state domain.WithdrawState,
) error {
	record, err := w.GetWithdrawal(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrWithdrawalRecordNotExisted
	}
	record.State = state

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return w.store.TxUpdate(tx, id, record)
	}
	return w.store.Update(id, record)
}

func (w withdrawalRepositoryImpl) RemoveWithdrawal(
	ctx context.Context, id uint64,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = w.store.TxDelete(tx, id, domain.WithdrawalRecord{})
	} else {
		err = w.store.Delete(id, domain.WithdrawalRecord{})
	}
	if err == badgerhold.ErrNotFound {
		return domain.ErrWithdrawalRecordNotExisted
	}
	return err
}

func (w withdrawalRepositoryImpl) ListWithdrawals(
	ctx context.Context,
) ([]domain.WithdrawalRecord, error) {
	query := (&badgerhold.Query{}).SortBy("Withdrawal.ID")

	var records []domain.WithdrawalRecord
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = w.store.TxFind(tx, &records, query)
	} else {
		err = w.store.Find(&records, query)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (w withdrawalRepositoryImpl) GetNextWithdrawalID(
	ctx context.Context,
) (uint64, error) {
	return getCounter(ctx, w.store, counterNextWithdrawalID)
}

func (w withdrawalRepositoryImpl) SetNextWithdrawalID(
	ctx context.Context, id uint64,
) error {
	return setCounter(ctx, w.store, counterNextWithdrawalID, id)
}
