package application

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

// GatewayService mediates deposits and withdrawals of assets originating
// on external chains. It never mutates balances directly, all value
// movement goes through the ledger primitives within the same store
// transaction, so a gateway operation commits either entirely or not at
// all.
type GatewayService interface {
	// SetAuth replaces the capability set of an account. Host-gated root
	// operation.
	SetAuth(ctx context.Context, account string, auths domain.Auths) error
	AddSupportedAsset(
		ctx context.Context, operator string, currency domain.CurrencyId,
		withdrawalFee uint64,
	) error
	RemoveSupportedAsset(
		ctx context.Context, operator string, currency domain.CurrencyId,
	) error
	SetWithdrawalFee(
		ctx context.Context, operator string, currency domain.CurrencyId,
		withdrawalFee uint64,
	) error
	// SetDepositAddrInfo stores the deposit address derivation parameters
	// of a currency. Host-gated root operation.
	SetDepositAddrInfo(
		ctx context.Context, currency domain.CurrencyId,
		info domain.DepositAddrInfo,
	) error
	// SetMaxDepositIndex raises the deposit index upper bound. Host-gated
	// root operation; the new bound must be strictly larger.
	SetMaxDepositIndex(ctx context.Context, max uint64) error

	// ApplyDepositIndex assigns the next sequential deposit index to the
	// account and returns it.
	ApplyDepositIndex(ctx context.Context, who string) (uint64, error)
	// DepositIndexOf returns the index assigned to an account, nil if the
	// account never applied.
	DepositIndexOf(ctx context.Context, who string) (*uint64, error)

	// Deposit credits an observed external chain deposit to the ledger,
	// guarded against replay by the (currency, tx hash) key.
	Deposit(
		ctx context.Context, operator, depositor string,
		currency domain.CurrencyId, txHash domain.TxHash, value uint64,
	) error

	// RequestWithdraw reserves value plus the configured fee and enqueues
	// a Pending withdrawal, returning its id.
	RequestWithdraw(
		ctx context.Context, who string, currency domain.CurrencyId,
		value uint64, address, memo string,
	) (uint64, error)
	CancelWithdraw(ctx context.Context, operator string, id uint64) error
	RejectWithdraw(ctx context.Context, operator string, id uint64) error
	ApproveWithdraw(ctx context.Context, operator string, id uint64) error
	FinishWithdraw(
		ctx context.Context, operator string, id uint64, txHash domain.TxHash,
	) error
	// Rebroadcast notifies that the withdrawal transaction was broadcast
	// again. Informational only, persisted state is untouched.
	Rebroadcast(
		ctx context.Context, operator string, id uint64, txHash domain.TxHash,
	) error
	// UnsafeSetWithdrawState overwrites (or, with a nil state, purges) the
	// active record of a withdrawal without touching reserved balances.
	// Operational escape hatch: it can desynchronize balance from state.
	UnsafeSetWithdrawState(
		ctx context.Context, operator string, id uint64,
		state *domain.WithdrawState,
	) error

	WithdrawList(ctx context.Context) (map[uint64]WithdrawItem, error)
	PendingWithdrawList(ctx context.Context) (map[uint64]WithdrawItem, error)
}

type gatewayService struct {
	repoManager ports.RepoManager
	publisher   ports.EventPublisher
	ledger      *ledger
}

// NewGatewayService is the factory for a GatewayService.
func NewGatewayService(
	repoManager ports.RepoManager, publisher ports.EventPublisher,
) GatewayService {
	return &gatewayService{
		repoManager: repoManager,
		publisher:   publisher,
		ledger: newLedger(
			repoManager.AssetRepository(),
			repoManager.BalanceRepository(),
		),
	}
}

func (s *gatewayService) SetAuth(
	ctx context.Context, account string, auths domain.Auths,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.repoManager.GatewayRepository().SetAuths(
			ctx, account, auths,
		); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventAuthChanged, map[string]interface{}{
			"account": account,
			"auths":   auths,
		})}, nil
	})
}

func (s *gatewayService) AddSupportedAsset(
	ctx context.Context, operator string, currency domain.CurrencyId,
	withdrawalFee uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthRegister); err != nil {
			return nil, err
		}
		repo := s.repoManager.GatewayRepository()
		supported, err := repo.GetSupportedCurrency(ctx, currency)
		if err != nil {
			return nil, err
		}
		if supported != nil {
			return nil, domain.ErrAssetExisted
		}
		if err := repo.AddSupportedCurrency(ctx, domain.SupportedCurrency{
			Currency:      currency,
			WithdrawalFee: withdrawalFee,
		}); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventSupportedAssetAdded, map[string]interface{}{
			"operator": operator,
			"currency": currency,
			"fee":      withdrawalFee,
		})}, nil
	})
}

func (s *gatewayService) RemoveSupportedAsset(
	ctx context.Context, operator string, currency domain.CurrencyId,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthRegister); err != nil {
			return nil, err
		}
		if err := s.repoManager.GatewayRepository().RemoveSupportedCurrency(
			ctx, currency,
		); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventSupportedAssetRemoved, map[string]interface{}{
			"operator": operator,
			"currency": currency,
		})}, nil
	})
}

func (s *gatewayService) SetWithdrawalFee(
	ctx context.Context, operator string, currency domain.CurrencyId,
	withdrawalFee uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthRegister); err != nil {
			return nil, err
		}
		repo := s.repoManager.GatewayRepository()
		supported, err := repo.GetSupportedCurrency(ctx, currency)
		if err != nil {
			return nil, err
		}
		if supported == nil {
			return nil, domain.ErrAssetNotSupported
		}
		if err := repo.UpdateWithdrawalFee(ctx, currency, withdrawalFee); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventWithdrawalFeeSet, map[string]interface{}{
			"operator": operator,
			"currency": currency,
			"fee":      withdrawalFee,
		})}, nil
	})
}

func (s *gatewayService) SetDepositAddrInfo(
	ctx context.Context, currency domain.CurrencyId, info domain.DepositAddrInfo,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.repoManager.GatewayRepository().SetDepositAddrInfo(
			ctx, currency, info,
		); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventDepositAddrInfoSet, map[string]interface{}{
			"currency": currency,
			"kind":     info.Kind,
		})}, nil
	})
}

func (s *gatewayService) SetMaxDepositIndex(
	ctx context.Context, max uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		repo := s.repoManager.GatewayRepository()
		current, err := repo.GetMaxDepositIndex(ctx)
		if err != nil {
			return nil, err
		}
		if max <= current {
			return nil, ErrMaxDepositIndexTooLow
		}
		if err := repo.SetMaxDepositIndex(ctx, max); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventMaxDepositIndexSet, map[string]interface{}{
			"max": max,
		})}, nil
	})
}

func (s *gatewayService) ApplyDepositIndex(
	ctx context.Context, who string,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			repo := s.repoManager.DepositRepository()
			existing, err := repo.GetDepositIndex(ctx, who)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrAlreadyAppliedIndex
			}

			index, err := repo.GetNextDepositIndex(ctx)
			if err != nil {
				return nil, err
			}
			max, err := s.repoManager.GatewayRepository().GetMaxDepositIndex(ctx)
			if err != nil {
				return nil, err
			}
			if index+1 > max {
				return nil, domain.ErrCanNotAssignIndex
			}

			if err := repo.SetDepositIndex(ctx, who, index); err != nil {
				return nil, err
			}
			if err := repo.SetNextDepositIndex(ctx, index+1); err != nil {
				return nil, err
			}
			return indexResult{
				index: index,
				events: []domain.Event{domain.NewEvent(domain.EventNewDepositIndex, map[string]interface{}{
					"who":   who,
					"index": index,
				})},
			}, nil
		},
	)
	if err != nil {
		return 0, err
	}
	result := res.(indexResult)
	publishEvents(s.publisher, result.events)
	return result.index, nil
}

func (s *gatewayService) DepositIndexOf(
	ctx context.Context, who string,
) (*uint64, error) {
	return s.repoManager.DepositRepository().GetDepositIndex(ctx, who)
}

func (s *gatewayService) Deposit(
	ctx context.Context, operator, depositor string,
	currency domain.CurrencyId, txHash domain.TxHash, value uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthDeposit); err != nil {
			return nil, err
		}
		if err := s.ensureSupported(ctx, currency); err != nil {
			return nil, err
		}
		existing, err := s.repoManager.DepositRepository().GetDeposit(
			ctx, currency, txHash,
		)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrTransactionRepeated
		}

		events, err := s.ledger.deposit(ctx, currency, depositor, value)
		if err != nil {
			return nil, err
		}
		if err := s.repoManager.DepositRepository().AddDeposit(ctx, domain.Deposit{
			Currency: currency,
			TxHash:   txHash,
			Account:  depositor,
			Amount:   value,
		}); err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"currency":  currency,
			"depositor": depositor,
			"txHash":    txHash,
			"value":     value,
		}).Info("external deposit credited")

		events = append(events, domain.NewEvent(domain.EventDepositRecorded, map[string]interface{}{
			"currency":  currency,
			"depositor": depositor,
			"txHash":    txHash,
			"value":     value,
		}))
		return events, nil
	})
}

func (s *gatewayService) RequestWithdraw(
	ctx context.Context, who string, currency domain.CurrencyId,
	value uint64, address, memo string,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.ensureSupported(ctx, currency); err != nil {
				return nil, err
			}

			supported, err := s.repoManager.GatewayRepository().GetSupportedCurrency(
				ctx, currency,
			)
			if err != nil {
				return nil, err
			}
			fee := supported.WithdrawalFee

			withdrawalRepo := s.repoManager.WithdrawalRepository()
			id, err := withdrawalRepo.GetNextWithdrawalID(ctx)
			if err != nil {
				return nil, err
			}
			withdrawal := domain.Withdrawal{
				ID:        id,
				Currency:  currency,
				Applicant: who,
				Value:     value,
				Address:   address,
				Memo:      memo,
			}
			if err := withdrawal.Validate(); err != nil {
				return nil, err
			}
			if value > math.MaxUint64-fee {
				return nil, domain.ErrInvalidWithdraw
			}

			events, err := s.ledger.reserve(ctx, currency, who, value+fee)
			if err != nil {
				return nil, err
			}

			if err := withdrawalRepo.AddWithdrawal(ctx, domain.WithdrawalRecord{
				Withdrawal: withdrawal,
				Fee:        fee,
				State:      domain.WithdrawState{Kind: domain.WithdrawStatePending},
			}); err != nil {
				return nil, err
			}
			if err := withdrawalRepo.SetNextWithdrawalID(ctx, nextID(id)); err != nil {
				return nil, err
			}

			log.WithFields(log.Fields{
				"who":        who,
				"currency":   currency,
				"value":      value,
				"withdrawId": id,
			}).Info("withdraw requested")

			events = append(events, domain.NewEvent(domain.EventWithdrawRequested, map[string]interface{}{
				"withdrawId": id,
				"who":        who,
				"currency":   currency,
				"value":      value,
				"fee":        fee,
			}))
			return indexResult{index: id, events: events}, nil
		},
	)
	if err != nil {
		return 0, err
	}
	result := res.(indexResult)
	publishEvents(s.publisher, result.events)
	return result.index, nil
}

func (s *gatewayService) CancelWithdraw(
	ctx context.Context, operator string, id uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		return s.handleWithdraw(ctx, id, operator, withdrawPhaseFirst, func(
			ctx context.Context, record *domain.WithdrawalRecord,
		) (domain.WithdrawState, []domain.Event, error) {
			if record.Withdrawal.Applicant != operator {
				log.WithFields(log.Fields{
					"applicant": record.Withdrawal.Applicant,
					"operator":  operator,
				}).Error("cancel refused, caller is not the applicant")
				return domain.WithdrawState{}, nil, domain.ErrCanNotCancelOtherWithdrawals
			}
			events, err := s.refund(ctx, record)
			if err != nil {
				return domain.WithdrawState{}, nil, err
			}
			return domain.WithdrawState{Kind: domain.WithdrawStateCancelled}, events, nil
		})
	})
}

func (s *gatewayService) RejectWithdraw(
	ctx context.Context, operator string, id uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthWithdraw); err != nil {
			return nil, err
		}
		return s.handleWithdraw(ctx, id, operator, withdrawPhaseFirst, func(
			ctx context.Context, record *domain.WithdrawalRecord,
		) (domain.WithdrawState, []domain.Event, error) {
			events, err := s.refund(ctx, record)
			if err != nil {
				return domain.WithdrawState{}, nil, err
			}
			return domain.WithdrawState{Kind: domain.WithdrawStateRejected}, events, nil
		})
	})
}

func (s *gatewayService) ApproveWithdraw(
	ctx context.Context, operator string, id uint64,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthWithdraw); err != nil {
			return nil, err
		}
		return s.handleWithdraw(ctx, id, operator, withdrawPhaseFirst, func(
			ctx context.Context, record *domain.WithdrawalRecord,
		) (domain.WithdrawState, []domain.Event, error) {
			return domain.WithdrawState{Kind: domain.WithdrawStateApproved}, nil, nil
		})
	})
}

func (s *gatewayService) FinishWithdraw(
	ctx context.Context, operator string, id uint64, txHash domain.TxHash,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthWithdraw); err != nil {
			return nil, err
		}
		return s.handleWithdraw(ctx, id, operator, withdrawPhaseSecond, func(
			ctx context.Context, record *domain.WithdrawalRecord,
		) (domain.WithdrawState, []domain.Event, error) {
			events, err := s.burn(ctx, record)
			if err != nil {
				return domain.WithdrawState{}, nil, err
			}
			log.WithFields(log.Fields{
				"withdrawId": id,
				"operator":   operator,
				"txHash":     txHash,
			}).Info("withdraw finished")
			return domain.WithdrawState{
				Kind:   domain.WithdrawStateSuccess,
				TxHash: txHash,
			}, events, nil
		})
	})
}

func (s *gatewayService) Rebroadcast(
	ctx context.Context, operator string, id uint64, txHash domain.TxHash,
) error {
	auths, err := s.repoManager.GatewayRepository().GetAuths(ctx, operator)
	if err != nil {
		return err
	}
	if !auths.Contains(domain.AuthWithdraw) {
		return domain.ErrUnAuthorized
	}

	log.WithFields(log.Fields{
		"operator":   operator,
		"withdrawId": id,
		"txHash":     txHash,
	}).Warn("withdraw transaction rebroadcasted")

	publishEvents(s.publisher, []domain.Event{
		domain.NewEvent(domain.EventWithdrawRebroadcasted, map[string]interface{}{
			"withdrawId": id,
			"operator":   operator,
			"txHash":     txHash,
		}),
	})
	return nil
}

func (s *gatewayService) UnsafeSetWithdrawState(
	ctx context.Context, operator string, id uint64, state *domain.WithdrawState,
) error {
	return s.runWrite(ctx, func(ctx context.Context) ([]domain.Event, error) {
		if err := s.ensureAuth(ctx, operator, domain.AuthSudo); err != nil {
			return nil, err
		}
		repo := s.repoManager.WithdrawalRepository()
		if state != nil {
			if err := repo.UpdateWithdrawalState(ctx, id, *state); err != nil {
				return nil, err
			}
			return []domain.Event{domain.NewEvent(domain.EventUnsafeWithdrawStateSet, map[string]interface{}{
				"withdrawId": id,
				"state":      state.Kind.String(),
			})}, nil
		}
		if err := repo.RemoveWithdrawal(ctx, id); err != nil {
			return nil, err
		}
		return []domain.Event{domain.NewEvent(domain.EventUnsafeWithdrawRemoved, map[string]interface{}{
			"withdrawId": id,
		})}, nil
	})
}

type withdrawPhase int

const (
	// withdrawPhaseFirst covers transitions out of Pending.
	withdrawPhaseFirst withdrawPhase = iota
	// withdrawPhaseSecond covers transitions out of Approved.
	withdrawPhaseSecond
)

// handleWithdraw drives a withdrawal through one state transition. The
// handle callback decides the next state and may move funds; afterwards
// terminal states purge the record while Approved is persisted.
func (s *gatewayService) handleWithdraw(
	ctx context.Context, id uint64, operator string, phase withdrawPhase,
	handle func(
		ctx context.Context, record *domain.WithdrawalRecord,
	) (domain.WithdrawState, []domain.Event, error),
) ([]domain.Event, error) {
	repo := s.repoManager.WithdrawalRepository()
	record, err := repo.GetWithdrawal(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrWithdrawalRecordNotExisted
	}
	oldState := record.State

	switch phase {
	case withdrawPhaseFirst:
		if oldState.Kind != domain.WithdrawStatePending {
			return nil, domain.ErrInvalidWithdrawalState
		}
	case withdrawPhaseSecond:
		if oldState.Kind != domain.WithdrawStateApproved {
			return nil, domain.ErrInvalidWithdrawalState
		}
	}

	newState, events, err := handle(ctx, record)
	if err != nil {
		return nil, err
	}

	switch {
	case newState.IsTerminal():
		if err := repo.RemoveWithdrawal(ctx, id); err != nil {
			return nil, err
		}
	case newState.Kind == domain.WithdrawStateApproved:
		if err := repo.UpdateWithdrawalState(ctx, id, newState); err != nil {
			return nil, err
		}
	default:
		// The handlers above only ever produce terminal states or
		// Approved; anything else is a broken invariant.
		panic(fmt.Sprintf("unexpected withdraw state %s", newState.Kind))
	}

	events = append(events, domain.NewEvent(domain.EventWithdrawStateChanged, map[string]interface{}{
		"withdrawId": id,
		"operator":   operator,
		"oldState":   oldState.Kind.String(),
		"newState":   newState.Kind.String(),
	}))
	return events, nil
}

// refund releases the reserved value plus fee back to the applicant.
func (s *gatewayService) refund(
	ctx context.Context, record *domain.WithdrawalRecord,
) ([]domain.Event, error) {
	_, events, err := s.ledger.unreserve(
		ctx, record.Withdrawal.Currency, record.Withdrawal.Applicant,
		record.Withdrawal.Value+record.Fee,
	)
	return events, err
}

// burn destroys the reserved value plus fee, shrinking the issuance.
func (s *gatewayService) burn(
	ctx context.Context, record *domain.WithdrawalRecord,
) ([]domain.Event, error) {
	_, events, err := s.ledger.slashReserved(
		ctx, record.Withdrawal.Currency, record.Withdrawal.Applicant,
		record.Withdrawal.Value+record.Fee,
	)
	return events, err
}

func (s *gatewayService) ensureAuth(
	ctx context.Context, operator string, auth domain.Auth,
) error {
	auths, err := s.repoManager.GatewayRepository().GetAuths(ctx, operator)
	if err != nil {
		return err
	}
	if !auths.Contains(auth) {
		return domain.ErrUnAuthorized
	}
	return nil
}

func (s *gatewayService) ensureSupported(
	ctx context.Context, currency domain.CurrencyId,
) error {
	supported, err := s.repoManager.GatewayRepository().GetSupportedCurrency(
		ctx, currency,
	)
	if err != nil {
		return err
	}
	if supported == nil {
		return domain.ErrAssetNotSupported
	}
	return nil
}

func (s *gatewayService) runWrite(
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

type indexResult struct {
	index  uint64
	events []domain.Event
}

// nextID wraps the id allocator on overflow.
func nextID(current uint64) uint64 {
	next := current + 1
	if next < current {
		return 0
	}
	return next
}
