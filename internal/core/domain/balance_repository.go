package domain

import "context"

// BalanceRepository stores per (account, currency) balances, per currency
// total issuance, balance locks and per account reference counts. An
// absent account reads as the zero AccountData.
type BalanceRepository interface {
	GetAccount(
		ctx context.Context, account string, currency CurrencyId,
	) (AccountData, error)
	// UpdateAccount applies updateFn to the stored balance as one atomic
	// read-modify-write, creating the record on first write.
	UpdateAccount(
		ctx context.Context, account string, currency CurrencyId,
		updateFn func(data *AccountData) (*AccountData, error),
	) error
	// ListAccountsForCurrency returns all balance records of a currency.
	ListAccountsForCurrency(
		ctx context.Context, currency CurrencyId,
	) ([]AccountBalance, error)

	GetTotalIssuance(ctx context.Context, currency CurrencyId) (uint64, error)
	UpdateTotalIssuance(
		ctx context.Context, currency CurrencyId,
		updateFn func(total uint64) (uint64, error),
	) error

	GetLocks(
		ctx context.Context, account string, currency CurrencyId,
	) ([]BalanceLock, error)
	// SetLocks replaces the lock set of an (account, currency). An empty
	// set removes the record.
	SetLocks(
		ctx context.Context, account string, currency CurrencyId,
		locks []BalanceLock,
	) error

	// IncrementAccountRef and DecrementAccountRef track how many lock sets
	// reference an account.
	IncrementAccountRef(ctx context.Context, account string) error
	DecrementAccountRef(ctx context.Context, account string) error
}
