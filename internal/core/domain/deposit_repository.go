package domain

import "context"

// DepositRepository stores the replay-protected deposit history and the
// per account deposit address indices.
type DepositRepository interface {
	// GetDeposit returns the deposit recorded for (currency, tx hash),
	// nil if none was ever credited.
	GetDeposit(
		ctx context.Context, currency CurrencyId, txHash TxHash,
	) (*Deposit, error)
	// AddDeposit records a credited deposit. It fails with
	// ErrTransactionRepeated if the key already exists.
	AddDeposit(ctx context.Context, deposit Deposit) error

	// GetDepositIndex returns the index assigned to an account, nil if the
	// account never applied.
	GetDepositIndex(ctx context.Context, account string) (*uint64, error)
	SetDepositIndex(ctx context.Context, account string, index uint64) error

	GetNextDepositIndex(ctx context.Context) (uint64, error)
	SetNextDepositIndex(ctx context.Context, index uint64) error
}
