package application

import (
	"context"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// setLock creates or replaces the lock with the given identifier. No-op
// if amount is zero.
func (l *ledger) setLock(
	ctx context.Context, lockID string, currency domain.CurrencyId,
	who string, amount uint64,
) ([]domain.Event, error) {
	if amount == 0 {
		return nil, nil
	}
	locks, err := l.balanceRepository.GetLocks(ctx, who, currency)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range locks {
		if locks[i].ID == lockID {
			locks[i].Amount = amount
			replaced = true
			break
		}
	}
	if !replaced {
		locks = append(locks, domain.BalanceLock{ID: lockID, Amount: amount})
	}
	if err := l.updateLocks(ctx, currency, who, locks); err != nil {
		return nil, err
	}
	return []domain.Event{domain.NewEvent(domain.EventLockSet, map[string]interface{}{
		"lockId":   lockID,
		"currency": currency,
		"who":      who,
		"amount":   amount,
	})}, nil
}

// extendLock is like setLock but an existing lock with the same
// identifier is only raised, never lowered. No-op if amount is zero.
func (l *ledger) extendLock(
	ctx context.Context, lockID string, currency domain.CurrencyId,
	who string, amount uint64,
) ([]domain.Event, error) {
	if amount == 0 {
		return nil, nil
	}
	locks, err := l.balanceRepository.GetLocks(ctx, who, currency)
	if err != nil {
		return nil, err
	}
	extended := false
	for i := range locks {
		if locks[i].ID == lockID {
			if amount > locks[i].Amount {
				locks[i].Amount = amount
			}
			extended = true
			break
		}
	}
	if !extended {
		locks = append(locks, domain.BalanceLock{ID: lockID, Amount: amount})
	}
	if err := l.updateLocks(ctx, currency, who, locks); err != nil {
		return nil, err
	}
	return []domain.Event{domain.NewEvent(domain.EventLockSet, map[string]interface{}{
		"lockId":   lockID,
		"currency": currency,
		"who":      who,
		"amount":   amount,
	})}, nil
}

// removeLock drops the lock with the given identifier, if any.
func (l *ledger) removeLock(
	ctx context.Context, lockID string, currency domain.CurrencyId, who string,
) ([]domain.Event, error) {
	locks, err := l.balanceRepository.GetLocks(ctx, who, currency)
	if err != nil {
		return nil, err
	}
	kept := locks[:0]
	for _, lock := range locks {
		if lock.ID != lockID {
			kept = append(kept, lock)
		}
	}
	if err := l.updateLocks(ctx, currency, who, kept); err != nil {
		return nil, err
	}
	return []domain.Event{domain.NewEvent(domain.EventLockRemoved, map[string]interface{}{
		"lockId":   lockID,
		"currency": currency,
		"who":      who,
	})}, nil
}

// updateLocks persists the lock set, recomputes the frozen floor as the
// max over active lock amounts, and keeps the account reference count in
// sync on first-lock and last-lock transitions.
func (l *ledger) updateLocks(
	ctx context.Context, currency domain.CurrencyId, who string,
	locks []domain.BalanceLock,
) error {
	existing, err := l.balanceRepository.GetLocks(ctx, who, currency)
	if err != nil {
		return err
	}
	existed := len(existing) > 0

	if err := l.balanceRepository.UpdateAccount(
		ctx, who, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Frozen = domain.FrozenFor(locks)
			return data, nil
		},
	); err != nil {
		return err
	}
	if err := l.balanceRepository.SetLocks(ctx, who, currency, locks); err != nil {
		return err
	}

	if len(locks) == 0 && existed {
		return l.balanceRepository.DecrementAccountRef(ctx, who)
	}
	if len(locks) > 0 && !existed {
		return l.balanceRepository.IncrementAccountRef(ctx, who)
	}
	return nil
}
