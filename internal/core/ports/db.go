package ports

import (
	"context"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// RepoManager gives access to every repository backed by the same store
// and lets callers run all of their writes in a single transaction.
type RepoManager interface {
	AssetRepository() domain.AssetRepository
	BalanceRepository() domain.BalanceRepository
	DepositRepository() domain.DepositRepository
	WithdrawalRepository() domain.WithdrawalRepository
	GatewayRepository() domain.GatewayRepository

	// RunTransaction executes handler within a single store transaction.
	// The transaction is committed only if handler returns a nil error,
	// discarded otherwise. Repositories pick the transaction up from the
	// handler's context.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}

// Transaction defines the methods to commit or discard a store transaction.
type Transaction interface {
	Commit() error
	Discard()
}
