package application

import (
	"context"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

// LedgerService exposes the multi-currency balance primitives. Every
// state-changing operation runs as a single store transaction and is
// all-or-nothing: on error no side effect is persisted and no event is
// published.
type LedgerService interface {
	FreeBalance(
		ctx context.Context, currency domain.CurrencyId, who string,
	) (uint64, error)
	ReservedBalance(
		ctx context.Context, currency domain.CurrencyId, who string,
	) (uint64, error)
	TotalBalance(
		ctx context.Context, currency domain.CurrencyId, who string,
	) (uint64, error)
	TotalIssuance(
		ctx context.Context, currency domain.CurrencyId,
	) (uint64, error)
	Locks(
		ctx context.Context, currency domain.CurrencyId, who string,
	) ([]domain.BalanceLock, error)
	EnsureCanWithdraw(
		ctx context.Context, currency domain.CurrencyId, who string,
		amount uint64,
	) error
	CanSlash(
		ctx context.Context, currency domain.CurrencyId, who string,
		value uint64,
	) bool
	CanReserve(
		ctx context.Context, currency domain.CurrencyId, who string,
		value uint64,
	) bool

	Transfer(
		ctx context.Context, currency domain.CurrencyId, from, to string,
		amount uint64,
	) error
	TransferAll(
		ctx context.Context, currency domain.CurrencyId, from, to string,
	) error
	Deposit(
		ctx context.Context, currency domain.CurrencyId, who string,
		amount uint64,
	) error
	Withdraw(
		ctx context.Context, currency domain.CurrencyId, who string,
		amount uint64,
	) error
	UpdateBalance(
		ctx context.Context, currency domain.CurrencyId, who string,
		byAmount int64,
	) error
	Reserve(
		ctx context.Context, currency domain.CurrencyId, who string,
		value uint64,
	) error
	Unreserve(
		ctx context.Context, currency domain.CurrencyId, who string,
		value uint64,
	) (uint64, error)
	Slash(
		ctx context.Context, currency domain.CurrencyId, who string,
		amount uint64,
	) (uint64, error)
	SlashReserved(
		ctx context.Context, currency domain.CurrencyId, who string,
		value uint64,
	) (uint64, error)
	RepatriateReserved(
		ctx context.Context, currency domain.CurrencyId,
		slashed, beneficiary string, value uint64,
		status domain.BalanceStatus,
	) (uint64, error)

	SetLock(
		ctx context.Context, lockID string, currency domain.CurrencyId,
		who string, amount uint64,
	) error
	ExtendLock(
		ctx context.Context, lockID string, currency domain.CurrencyId,
		who string, amount uint64,
	) error
	RemoveLock(
		ctx context.Context, lockID string, currency domain.CurrencyId,
		who string,
	) error
}

type ledgerService struct {
	repoManager ports.RepoManager
	publisher   ports.EventPublisher
	ledger      *ledger
}

// NewLedgerService is the factory for a LedgerService.
func NewLedgerService(
	repoManager ports.RepoManager, publisher ports.EventPublisher,
) LedgerService {
	return &ledgerService{
		repoManager: repoManager,
		publisher:   publisher,
		ledger: newLedger(
			repoManager.AssetRepository(),
			repoManager.BalanceRepository(),
		),
	}
}

func (s *ledgerService) FreeBalance(
	ctx context.Context, currency domain.CurrencyId, who string,
) (uint64, error) {
	account, err := s.repoManager.BalanceRepository().GetAccount(ctx, who, currency)
	if err != nil {
		return 0, err
	}
	return account.Free, nil
}

func (s *ledgerService) ReservedBalance(
	ctx context.Context, currency domain.CurrencyId, who string,
) (uint64, error) {
	account, err := s.repoManager.BalanceRepository().GetAccount(ctx, who, currency)
	if err != nil {
		return 0, err
	}
	return account.Reserved, nil
}

func (s *ledgerService) TotalBalance(
	ctx context.Context, currency domain.CurrencyId, who string,
) (uint64, error) {
	account, err := s.repoManager.BalanceRepository().GetAccount(ctx, who, currency)
	if err != nil {
		return 0, err
	}
	return account.Total(), nil
}

func (s *ledgerService) TotalIssuance(
	ctx context.Context, currency domain.CurrencyId,
) (uint64, error) {
	return s.repoManager.BalanceRepository().GetTotalIssuance(ctx, currency)
}

func (s *ledgerService) Locks(
	ctx context.Context, currency domain.CurrencyId, who string,
) ([]domain.BalanceLock, error) {
	return s.repoManager.BalanceRepository().GetLocks(ctx, who, currency)
}

func (s *ledgerService) EnsureCanWithdraw(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) error {
	return s.ledger.ensureCanWithdraw(ctx, currency, who, amount)
}

func (s *ledgerService) CanSlash(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) bool {
	return s.ledger.canSlash(ctx, currency, who, value)
}

func (s *ledgerService) CanReserve(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) bool {
	return s.ledger.canReserve(ctx, currency, who, value)
}

func (s *ledgerService) Transfer(
	ctx context.Context, currency domain.CurrencyId, from, to string,
	amount uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.transfer(ctx, currency, from, to, amount)
	})
}

func (s *ledgerService) TransferAll(
	ctx context.Context, currency domain.CurrencyId, from, to string,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		account, err := s.ledger.balanceRepository.GetAccount(ctx, from, currency)
		if err != nil {
			return nil, err
		}
		return s.ledger.transfer(ctx, currency, from, to, account.Free)
	})
}

func (s *ledgerService) Deposit(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.deposit(ctx, currency, who, amount)
	})
}

func (s *ledgerService) Withdraw(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.withdraw(ctx, currency, who, amount)
	})
}

func (s *ledgerService) UpdateBalance(
	ctx context.Context, currency domain.CurrencyId, who string, byAmount int64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.updateBalance(ctx, currency, who, byAmount)
	})
}

func (s *ledgerService) Reserve(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.reserve(ctx, currency, who, value)
	})
}

func (s *ledgerService) Unreserve(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) (uint64, error) {
	return s.runWriteWithRemainder(ctx, func(
		ctx context.Context,
	) (uint64, []domain.Event, error) {
		return s.ledger.unreserve(ctx, currency, who, value)
	})
}

func (s *ledgerService) Slash(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) (uint64, error) {
	return s.runWriteWithRemainder(ctx, func(
		ctx context.Context,
	) (uint64, []domain.Event, error) {
		return s.ledger.slash(ctx, currency, who, amount)
	})
}

func (s *ledgerService) SlashReserved(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) (uint64, error) {
	return s.runWriteWithRemainder(ctx, func(
		ctx context.Context,
	) (uint64, []domain.Event, error) {
		return s.ledger.slashReserved(ctx, currency, who, value)
	})
}

func (s *ledgerService) RepatriateReserved(
	ctx context.Context, currency domain.CurrencyId,
	slashed, beneficiary string, value uint64, status domain.BalanceStatus,
) (uint64, error) {
	return s.runWriteWithRemainder(ctx, func(
		ctx context.Context,
	) (uint64, []domain.Event, error) {
		return s.ledger.repatriateReserved(
			ctx, currency, slashed, beneficiary, value, status,
		)
	})
}

func (s *ledgerService) SetLock(
	ctx context.Context, lockID string, currency domain.CurrencyId,
	who string, amount uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.setLock(ctx, lockID, currency, who, amount)
	})
}

func (s *ledgerService) ExtendLock(
	ctx context.Context, lockID string, currency domain.CurrencyId,
	who string, amount uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.extendLock(ctx, lockID, currency, who, amount)
	})
}

func (s *ledgerService) RemoveLock(
	ctx context.Context, lockID string, currency domain.CurrencyId, who string,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.ledger.removeLock(ctx, lockID, currency, who)
	})
}

func (s *ledgerService) runWrite(
	ctx context.Context,
	handler func(ctx context.Context) ([]domain.Event, error),
) error {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return handler(ctx)
		},
	)
	if err != nil {
		return err
	}
	publishEvents(s.publisher, res)
	return nil
}

type remainderResult struct {
	remainder uint64
	events    []domain.Event
}

func (s *ledgerService) runWriteWithRemainder(
	ctx context.Context,
	handler func(ctx context.Context) (uint64, []domain.Event, error),
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			remainder, events, err := handler(ctx)
			if err != nil {
				return nil, err
			}
			return remainderResult{remainder, events}, nil
		},
	)
	if err != nil {
		return 0, err
	}
	result := res.(remainderResult)
	publishEvents(s.publisher, result.events)
	return result.remainder, nil
}

func publishEvents(publisher ports.EventPublisher, res interface{}) {
	if publisher == nil {
		return
	}
	events, ok := res.([]domain.Event)
	if !ok || len(events) == 0 {
		return
	}
	publisher.Publish(events...)
}
