package domain

import "context"

// WithdrawalRepository stores active withdrawal requests with their
// consumed fee and state, plus the monotonic id allocator. Terminal
// records are purged, not archived.
type WithdrawalRepository interface {
	// GetWithdrawal returns the active record for an id, nil if purged or
	// never created.
	GetWithdrawal(ctx context.Context, id uint64) (*WithdrawalRecord, error)
	AddWithdrawal(ctx context.Context, record WithdrawalRecord) error
	// UpdateWithdrawalState overwrites the state of an active record.
	UpdateWithdrawalState(
		ctx context.Context, id uint64, state WithdrawState,
	) error
	// RemoveWithdrawal purges the record, its fee and its state.
	RemoveWithdrawal(ctx context.Context, id uint64) error
	// ListWithdrawals returns all active records ordered by id.
	ListWithdrawals(ctx context.Context) ([]WithdrawalRecord, error)

	GetNextWithdrawalID(ctx context.Context) (uint64, error)
	SetNextWithdrawalID(ctx context.Context, id uint64) error
}
