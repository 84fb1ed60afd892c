package application

import (
	"context"
	"math"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// ledger implements the balance primitives on top of the asset and
// balance repositories. Every method expects to run inside an already
// open store transaction and returns the ordered events it produced;
// callers publish them only after the transaction commits.
type ledger struct {
	assetRepository   domain.AssetRepository
	balanceRepository domain.BalanceRepository
}

func newLedger(
	assetRepository domain.AssetRepository,
	balanceRepository domain.BalanceRepository,
) *ledger {
	return &ledger{
		assetRepository:   assetRepository,
		balanceRepository: balanceRepository,
	}
}

// getOnlineAsset returns the asset info of a registered, online currency.
func (l *ledger) getOnlineAsset(
	ctx context.Context, currency domain.CurrencyId,
) (*domain.AssetInfo, error) {
	asset, err := l.assetRepository.GetAsset(ctx, currency)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.ErrNotExistedAsset
	}
	if !asset.Online {
		return nil, domain.ErrInvalidAsset
	}
	return &asset.Info, nil
}

// canDo fails with ErrRestrictedAction if the restriction bit is set for
// the currency.
func (l *ledger) canDo(
	ctx context.Context, currency domain.CurrencyId,
	restriction domain.Restriction,
) error {
	asset, err := l.assetRepository.GetAsset(ctx, currency)
	if err != nil {
		return err
	}
	if asset != nil && asset.Restrictions.Contains(restriction) {
		return domain.ErrRestrictedAction
	}
	return nil
}

// ensureCanWithdraw checks that the free balance covers amount without
// dropping below the frozen floor. No-op success for a zero amount.
func (l *ledger) ensureCanWithdraw(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) error {
	if amount == 0 {
		return nil
	}
	account, err := l.balanceRepository.GetAccount(ctx, who, currency)
	if err != nil {
		return err
	}
	if account.Free < amount {
		return domain.ErrBalanceTooLow
	}
	if account.Free-amount < account.Frozen {
		return domain.ErrLiquidityRestrictions
	}
	return nil
}

// transfer moves free balance between two accounts. No-op if amount is
// zero or from equals to.
func (l *ledger) transfer(
	ctx context.Context, currency domain.CurrencyId,
	from, to string, amount uint64,
) ([]domain.Event, error) {
	if _, err := l.getOnlineAsset(ctx, currency); err != nil {
		return nil, err
	}
	if err := l.canDo(ctx, currency, domain.RestrictionTransferable); err != nil {
		return nil, err
	}
	if amount == 0 || from == to {
		return nil, nil
	}
	if err := l.ensureCanWithdraw(ctx, currency, from, amount); err != nil {
		return nil, err
	}

	if err := l.balanceRepository.UpdateAccount(
		ctx, from, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Free -= amount
			return data, nil
		},
	); err != nil {
		return nil, err
	}
	if err := l.balanceRepository.UpdateAccount(
		ctx, to, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Free += amount
			return data, nil
		},
	); err != nil {
		return nil, err
	}

	return []domain.Event{domain.NewEvent(domain.EventTransferred, map[string]interface{}{
		"currency": currency,
		"from":     from,
		"to":       to,
		"amount":   amount,
	})}, nil
}

// deposit credits who and increases the total issuance. No-op if amount
// is zero.
func (l *ledger) deposit(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) ([]domain.Event, error) {
	if _, err := l.getOnlineAsset(ctx, currency); err != nil {
		return nil, err
	}
	if err := l.canDo(ctx, currency, domain.RestrictionDepositable); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, nil
	}

	if err := l.balanceRepository.UpdateTotalIssuance(
		ctx, currency, func(total uint64) (uint64, error) {
			if total > math.MaxUint64-amount {
				return 0, domain.ErrTotalIssuanceOverflow
			}
			return total + amount, nil
		},
	); err != nil {
		return nil, err
	}
	if err := l.balanceRepository.UpdateAccount(
		ctx, who, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Free += amount
			return data, nil
		},
	); err != nil {
		return nil, err
	}

	return []domain.Event{domain.NewEvent(domain.EventDeposited, map[string]interface{}{
		"currency": currency,
		"who":      who,
		"amount":   amount,
	})}, nil
}

// withdraw burns amount from who's free balance and the total issuance.
// No-op if amount is zero.
func (l *ledger) withdraw(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) ([]domain.Event, error) {
	if _, err := l.getOnlineAsset(ctx, currency); err != nil {
		return nil, err
	}
	if err := l.canDo(ctx, currency, domain.RestrictionWithdrawable); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, nil
	}
	if err := l.ensureCanWithdraw(ctx, currency, who, amount); err != nil {
		return nil, err
	}

	if err := l.balanceRepository.UpdateTotalIssuance(
		ctx, currency, func(total uint64) (uint64, error) {
			return satSub(total, amount), nil
		},
	); err != nil {
		return nil, err
	}
	if err := l.balanceRepository.UpdateAccount(
		ctx, who, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Free -= amount
			return data, nil
		},
	); err != nil {
		return nil, err
	}

	return []domain.Event{domain.NewEvent(domain.EventWithdrawn, map[string]interface{}{
		"currency": currency,
		"who":      who,
		"amount":   amount,
	})}, nil
}

// canSlash reports whether the free balance alone covers value.
func (l *ledger) canSlash(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) bool {
	if _, err := l.getOnlineAsset(ctx, currency); err != nil {
		return false
	}
	if err := l.canDo(ctx, currency, domain.RestrictionSlashable); err != nil {
		return false
	}
	if value == 0 {
		return true
	}
	account, err := l.balanceRepository.GetAccount(ctx, who, currency)
	if err != nil {
		return false
	}
	return account.Free >= value
}

// slash removes up to amount from who, free balance first then reserved,
// and decreases the total issuance by the amount actually removed. It
// never fails; the unslashed remainder is returned.
func (l *ledger) slash(
	ctx context.Context, currency domain.CurrencyId, who string, amount uint64,
) (uint64, []domain.Event, error) {
	if amount == 0 {
		return 0, nil, nil
	}

	account, err := l.balanceRepository.GetAccount(ctx, who, currency)
	if err != nil {
		return 0, nil, err
	}
	freeSlashed := minUint64(account.Free, amount)
	remaining := amount - freeSlashed
	reservedSlashed := minUint64(account.Reserved, remaining)
	remaining -= reservedSlashed

	if err := l.balanceRepository.UpdateAccount(
		ctx, who, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Free -= freeSlashed
			data.Reserved -= reservedSlashed
			return data, nil
		},
	); err != nil {
		return 0, nil, err
	}
	if err := l.balanceRepository.UpdateTotalIssuance(
		ctx, currency, func(total uint64) (uint64, error) {
			return satSub(total, amount-remaining), nil
		},
	); err != nil {
		return 0, nil, err
	}

	events := []domain.Event{domain.NewEvent(domain.EventSlashed, map[string]interface{}{
		"currency":  currency,
		"who":       who,
		"requested": amount,
		"slashed":   amount - remaining,
	})}
	return remaining, events, nil
}

// canReserve reports whether value can be moved from free to reserved.
func (l *ledger) canReserve(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) bool {
	if _, err := l.getOnlineAsset(ctx, currency); err != nil {
		return false
	}
	if err := l.canDo(ctx, currency, domain.RestrictionReservable); err != nil {
		return false
	}
	if value == 0 {
		return true
	}
	return l.ensureCanWithdraw(ctx, currency, who, value) == nil
}

// reserve moves value from who's free balance to their reserved balance.
// No-op if value is zero.
func (l *ledger) reserve(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) ([]domain.Event, error) {
	if _, err := l.getOnlineAsset(ctx, currency); err != nil {
		return nil, err
	}
	if err := l.canDo(ctx, currency, domain.RestrictionReservable); err != nil {
		return nil, err
	}
	if value == 0 {
		return nil, nil
	}
	if err := l.ensureCanWithdraw(ctx, currency, who, value); err != nil {
		return nil, err
	}

	if err := l.balanceRepository.UpdateAccount(
		ctx, who, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Free -= value
			data.Reserved += value
			return data, nil
		},
	); err != nil {
		return nil, err
	}

	return []domain.Event{domain.NewEvent(domain.EventReserved, map[string]interface{}{
		"currency": currency,
		"who":      who,
		"value":    value,
	})}, nil
}

// unreserve moves up to value from reserved back to free and returns the
// unsatisfied remainder. It never fails: with an unknown or offline asset,
// or an Unreservable restriction, nothing moves and the whole value is
// returned as remainder.
func (l *ledger) unreserve(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) (uint64, []domain.Event, error) {
	if _, err := l.getOnlineAsset(ctx, currency); err != nil {
		return value, nil, nil
	}
	if err := l.canDo(ctx, currency, domain.RestrictionUnreservable); err != nil {
		return value, nil, nil
	}
	if value == 0 {
		return 0, nil, nil
	}

	account, err := l.balanceRepository.GetAccount(ctx, who, currency)
	if err != nil {
		return 0, nil, err
	}
	actual := minUint64(account.Reserved, value)
	if err := l.balanceRepository.UpdateAccount(
		ctx, who, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Reserved -= actual
			data.Free += actual
			return data, nil
		},
	); err != nil {
		return 0, nil, err
	}

	events := []domain.Event{domain.NewEvent(domain.EventUnreserved, map[string]interface{}{
		"currency": currency,
		"who":      who,
		"value":    actual,
	})}
	return value - actual, events, nil
}

// slashReserved removes up to value from who's reserved balance and
// decreases the total issuance accordingly, returning the unsatisfied
// remainder. No-op if value is zero.
func (l *ledger) slashReserved(
	ctx context.Context, currency domain.CurrencyId, who string, value uint64,
) (uint64, []domain.Event, error) {
	if value == 0 {
		return 0, nil, nil
	}

	account, err := l.balanceRepository.GetAccount(ctx, who, currency)
	if err != nil {
		return 0, nil, err
	}
	actual := minUint64(account.Reserved, value)
	if err := l.balanceRepository.UpdateAccount(
		ctx, who, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Reserved -= actual
			return data, nil
		},
	); err != nil {
		return 0, nil, err
	}
	if err := l.balanceRepository.UpdateTotalIssuance(
		ctx, currency, func(total uint64) (uint64, error) {
			return satSub(total, actual), nil
		},
	); err != nil {
		return 0, nil, err
	}

	events := []domain.Event{domain.NewEvent(domain.EventSlashed, map[string]interface{}{
		"currency":  currency,
		"who":       who,
		"requested": value,
		"slashed":   actual,
		"reserved":  true,
	})}
	return value - actual, events, nil
}

// repatriateReserved moves up to value from slashed's reserved balance to
// the beneficiary, into free or reserved according to status, returning
// the amount that could not be moved. Self-repatriation to free is an
// unreserve; self-repatriation to reserved moves nothing, the funds are
// already where they belong, and only the uncovered part is reported.
func (l *ledger) repatriateReserved(
	ctx context.Context, currency domain.CurrencyId,
	slashed, beneficiary string, value uint64, status domain.BalanceStatus,
) (uint64, []domain.Event, error) {
	if value == 0 {
		return 0, nil, nil
	}

	if slashed == beneficiary {
		switch status {
		case domain.BalanceStatusFree:
			return l.unreserve(ctx, currency, slashed, value)
		default:
			account, err := l.balanceRepository.GetAccount(ctx, slashed, currency)
			if err != nil {
				return 0, nil, err
			}
			return satSub(value, account.Reserved), nil, nil
		}
	}

	from, err := l.balanceRepository.GetAccount(ctx, slashed, currency)
	if err != nil {
		return 0, nil, err
	}
	actual := minUint64(from.Reserved, value)

	if err := l.balanceRepository.UpdateAccount(
		ctx, beneficiary, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			if status == domain.BalanceStatusFree {
				data.Free += actual
			} else {
				data.Reserved += actual
			}
			return data, nil
		},
	); err != nil {
		return 0, nil, err
	}
	if err := l.balanceRepository.UpdateAccount(
		ctx, slashed, currency,
		func(data *domain.AccountData) (*domain.AccountData, error) {
			data.Reserved -= actual
			return data, nil
		},
	); err != nil {
		return 0, nil, err
	}

	events := []domain.Event{domain.NewEvent(domain.EventRepatriated, map[string]interface{}{
		"currency":    currency,
		"slashed":     slashed,
		"beneficiary": beneficiary,
		"value":       actual,
		"status":      status,
	})}
	return value - actual, events, nil
}

// updateBalance adjusts who's balance by a signed amount, depositing when
// positive and withdrawing when negative. No-op if zero.
func (l *ledger) updateBalance(
	ctx context.Context, currency domain.CurrencyId, who string, byAmount int64,
) ([]domain.Event, error) {
	if byAmount == 0 {
		return nil, nil
	}
	if byAmount > 0 {
		return l.deposit(ctx, currency, who, uint64(byAmount))
	}
	if byAmount == math.MinInt64 {
		return nil, domain.ErrAmountIntoBalanceFailed
	}
	return l.withdraw(ctx, currency, who, uint64(-byAmount))
}

func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
