package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// WithdrawalRepositoryImpl represents an in memory store of active
// withdrawal records.
type WithdrawalRepositoryImpl struct {
	withdrawals      map[uint64]domain.WithdrawalRecord
	nextWithdrawalID uint64

	lock *sync.RWMutex
}

// NewWithdrawalRepositoryImpl returns a new empty WithdrawalRepositoryImpl.
func NewWithdrawalRepositoryImpl() *WithdrawalRepositoryImpl {
	return &WithdrawalRepositoryImpl{
		withdrawals: map[uint64]domain.WithdrawalRecord{},
		lock:        &sync.RWMutex{},
	}
}

func (r *WithdrawalRepositoryImpl) GetWithdrawal(
	_ context.Context, id uint64,
) (*domain.WithdrawalRecord, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	record, ok := r.withdrawals[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *WithdrawalRepositoryImpl) AddWithdrawal(
	_ context.Context, record domain.WithdrawalRecord,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.withdrawals[record.Withdrawal.ID] = record
	return nil
}

func (r *WithdrawalRepositoryImpl) UpdateWithdrawalState(
	_ context.Context, id uint64, state domain.WithdrawState,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	record, ok := r.withdrawals[id]
	if !ok {
		return domain.ErrWithdrawalRecordNotExisted
	}
	record.State = state
	r.withdrawals[id] = record
	return nil
}

func (r *WithdrawalRepositoryImpl) RemoveWithdrawal(
	_ context.Context, id uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.withdrawals[id]; !ok {
		return domain.ErrWithdrawalRecordNotExisted
	}
	delete(r.withdrawals, id)
	return nil
}

func (r *WithdrawalRepositoryImpl) ListWithdrawals(
	_ context.Context,
) ([]domain.WithdrawalRecord, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	records := make([]domain.WithdrawalRecord, 0, len(r.withdrawals))
	for _, record := range r.withdrawals {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Withdrawal.ID < records[j].Withdrawal.ID
	})
	return records, nil
}

func (r *WithdrawalRepositoryImpl) GetNextWithdrawalID(
	_ context.Context,
) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.nextWithdrawalID, nil
}

func (r *WithdrawalRepositoryImpl) SetNextWithdrawalID(
	_ context.Context, id uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.nextWithdrawalID = id
	return nil
}
