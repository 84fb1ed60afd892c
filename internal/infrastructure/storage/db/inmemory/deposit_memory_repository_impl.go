package inmemory

import (
	"context"
	"sync"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// DepositRepositoryImpl represents an in memory deposit history.
type DepositRepositoryImpl struct {
	deposits         map[domain.DepositKey]domain.Deposit
	indices          map[string]uint64
	nextDepositIndex uint64

	lock *sync.RWMutex
}

// NewDepositRepositoryImpl returns a new empty DepositRepositoryImpl.
func NewDepositRepositoryImpl() *DepositRepositoryImpl {
	return &DepositRepositoryImpl{
		deposits: map[domain.DepositKey]domain.Deposit{},
		indices:  map[string]uint64{},
		lock:     &sync.RWMutex{},
	}
}

func (r *DepositRepositoryImpl) GetDeposit(
	_ context.Context, currency domain.CurrencyId, txHash domain.TxHash,
) (*domain.Deposit, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	deposit, ok := r.deposits[domain.DepositKey{Currency: currency, TxHash: txHash}]
	if !ok {
		return nil, nil
	}
	return &deposit, nil
}

func (r *DepositRepositoryImpl) AddDeposit(
	_ context.Context, deposit domain.Deposit,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := deposit.Key()
	if _, ok := r.deposits[key]; ok {
		return domain.ErrTransactionRepeated
	}
	r.deposits[key] = deposit
	return nil
}

func (r *DepositRepositoryImpl) GetDepositIndex(
	_ context.Context, account string,
) (*uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	index, ok := r.indices[account]
	if !ok {
		return nil, nil
	}
	return &index, nil
}

func (r *DepositRepositoryImpl) SetDepositIndex(
	_ context.Context, account string, index uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.indices[account] = index
	return nil
}

func (r *DepositRepositoryImpl) GetNextDepositIndex(
	_ context.Context,
) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.nextDepositIndex, nil
}

func (r *DepositRepositoryImpl) SetNextDepositIndex(
	_ context.Context, index uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.nextDepositIndex = index
	return nil
}
