package domain

import "math"

// AccountData is the balance of an account for a single currency. The
// zero value is a valid empty balance.
type AccountData struct {
	// Free is the spendable, unencumbered part of the balance.
	Free uint64
	// Reserved is held for a pending purpose. Still owned by the account
	// but not freely spendable. Gets slashed last of all.
	Reserved uint64
	// Frozen is the floor Free may not drop below while a lock is active.
	Frozen uint64
}

// Total returns free plus reserved, saturating on overflow.
func (a AccountData) Total() uint64 {
	if a.Free > math.MaxUint64-a.Reserved {
		return math.MaxUint64
	}
	return a.Free + a.Reserved
}

// BalanceLock is a named hold on an account balance. Locks with the same
// identifier replace each other; locks with different identifiers overlap
// and the frozen floor is the max of their amounts, not the sum.
type BalanceLock struct {
	ID     string
	Amount uint64
}

// FrozenFor computes the frozen floor implied by a set of locks.
func FrozenFor(locks []BalanceLock) uint64 {
	var frozen uint64
	for _, lock := range locks {
		if lock.Amount > frozen {
			frozen = lock.Amount
		}
	}
	return frozen
}

// AccountBalance pairs an AccountData with its owning (account, currency)
// key, used when scanning balances of a whole currency.
type AccountBalance struct {
	Account  string
	Currency CurrencyId
	Data     AccountData
}

// BalanceStatus selects the destination partition of a reserved balance
// repatriation.
type BalanceStatus int

const (
	// BalanceStatusFree moves funds into the beneficiary's free balance.
	BalanceStatusFree BalanceStatus = iota
	// BalanceStatusReserved moves funds into the beneficiary's reserved balance.
	BalanceStatusReserved
)
