package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// BalanceRepositoryImpl represents an in memory balance store.
type BalanceRepositoryImpl struct {
	accounts  map[string]domain.AccountData
	issuances map[domain.CurrencyId]uint64
	locks     map[string][]domain.BalanceLock
	refs      map[string]int

	lock *sync.RWMutex
}

// NewBalanceRepositoryImpl returns a new empty BalanceRepositoryImpl.
func NewBalanceRepositoryImpl() *BalanceRepositoryImpl {
	return &BalanceRepositoryImpl{
		accounts:  map[string]domain.AccountData{},
		issuances: map[domain.CurrencyId]uint64{},
		locks:     map[string][]domain.BalanceLock{},
		refs:      map[string]int{},
		lock:      &sync.RWMutex{},
	}
}

func (r BalanceRepositoryImpl) GetAccount(
	_ context.Context, account string, currency domain.CurrencyId,
) (domain.AccountData, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.accounts[accountKey(account, currency)], nil
}

func (r BalanceRepositoryImpl) UpdateAccount(
	_ context.Context, account string, currency domain.CurrencyId,
	updateFn func(data *domain.AccountData) (*domain.AccountData, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	currentData := r.accounts[accountKey(account, currency)]
	updatedData, err := updateFn(&currentData)
	if err != nil {
		return err
	}

	r.accounts[accountKey(account, currency)] = *updatedData
	return nil
}

func (r BalanceRepositoryImpl) ListAccountsForCurrency(
	_ context.Context, currency domain.CurrencyId,
) ([]domain.AccountBalance, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	suffix := fmt.Sprintf(":%d", currency)
	balances := make([]domain.AccountBalance, 0)
	for key, data := range r.accounts {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		account := strings.TrimSuffix(key, suffix)
		balances = append(balances, domain.AccountBalance{
			Account:  account,
			Currency: currency,
			Data:     data,
		})
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Account < balances[j].Account
	})
	return balances, nil
}

func (r BalanceRepositoryImpl) GetTotalIssuance(
	_ context.Context, currency domain.CurrencyId,
) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.issuances[currency], nil
}

func (r BalanceRepositoryImpl) UpdateTotalIssuance(
	_ context.Context, currency domain.CurrencyId,
	updateFn func(total uint64) (uint64, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	updatedTotal, err := updateFn(r.issuances[currency])
	if err != nil {
		return err
	}

	r.issuances[currency] = updatedTotal
	return nil
}

func (r BalanceRepositoryImpl) GetLocks(
	_ context.Context, account string, currency domain.CurrencyId,
) ([]domain.BalanceLock, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	locks := r.locks[accountKey(account, currency)]
	if len(locks) <= 0 {
		return nil, nil
	}
	locksCopy := make([]domain.BalanceLock, len(locks))
	copy(locksCopy, locks)
	return locksCopy, nil
}

func (r BalanceRepositoryImpl) SetLocks(
	_ context.Context, account string, currency domain.CurrencyId,
	locks []domain.BalanceLock,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := accountKey(account, currency)
	if len(locks) <= 0 {
		delete(r.locks, key)
		return nil
	}
	locksCopy := make([]domain.BalanceLock, len(locks))
	copy(locksCopy, locks)
	r.locks[key] = locksCopy
	return nil
}

func (r BalanceRepositoryImpl) IncrementAccountRef(
	_ context.Context, account string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.refs[account]++
	return nil
}

func (r BalanceRepositoryImpl) DecrementAccountRef(
	_ context.Context, account string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.refs[account] > 0 {
		r.refs[account]--
	}
	return nil
}

func accountKey(account string, currency domain.CurrencyId) string {
	return fmt.Sprintf("%s:%d", account, currency)
}
