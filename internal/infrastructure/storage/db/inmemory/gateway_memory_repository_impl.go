package inmemory

import (
	"context"
	"sync"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// GatewayRepositoryImpl represents an in memory gateway configuration
// store.
type GatewayRepositoryImpl struct {
	auths           map[string]domain.Auths
	supported       map[domain.CurrencyId]domain.SupportedCurrency
	addrInfos       map[domain.CurrencyId]domain.DepositAddrInfo
	maxDepositIndex uint64

	lock *sync.RWMutex
}

// NewGatewayRepositoryImpl returns a new empty GatewayRepositoryImpl.
func NewGatewayRepositoryImpl() *GatewayRepositoryImpl {
	return &GatewayRepositoryImpl{
		auths:     map[string]domain.Auths{},
		supported: map[domain.CurrencyId]domain.SupportedCurrency{},
		addrInfos: map[domain.CurrencyId]domain.DepositAddrInfo{},
		lock:      &sync.RWMutex{},
	}
}

func (r *GatewayRepositoryImpl) GetAuths(
	_ context.Context, account string,
) (domain.Auths, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.auths[account], nil
}

func (r *GatewayRepositoryImpl) SetAuths(
	_ context.Context, account string, auths domain.Auths,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.auths[account] = auths
	return nil
}

func (r *GatewayRepositoryImpl) GetSupportedCurrency(
	_ context.Context, currency domain.CurrencyId,
) (*domain.SupportedCurrency, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	supported, ok := r.supported[currency]
	if !ok {
		return nil, nil
	}
	return &supported, nil
}

func (r *GatewayRepositoryImpl) AddSupportedCurrency(
	_ context.Context, supported domain.SupportedCurrency,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.supported[supported.Currency] = supported
	return nil
}

func (r *GatewayRepositoryImpl) RemoveSupportedCurrency(
	_ context.Context, currency domain.CurrencyId,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.supported, currency)
	return nil
}

func (r *GatewayRepositoryImpl) UpdateWithdrawalFee(
	_ context.Context, currency domain.CurrencyId, fee uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	supported, ok := r.supported[currency]
	if !ok {
		return domain.ErrAssetNotSupported
	}
	supported.WithdrawalFee = fee
	r.supported[currency] = supported
	return nil
}

func (r *GatewayRepositoryImpl) GetDepositAddrInfo(
	_ context.Context, currency domain.CurrencyId,
) (*domain.DepositAddrInfo, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	info, ok := r.addrInfos[currency]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (r *GatewayRepositoryImpl) SetDepositAddrInfo(
	_ context.Context, currency domain.CurrencyId, info domain.DepositAddrInfo,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.addrInfos[currency] = info
	return nil
}

func (r *GatewayRepositoryImpl) GetMaxDepositIndex(
	_ context.Context,
) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.maxDepositIndex, nil
}

func (r *GatewayRepositoryImpl) SetMaxDepositIndex(
	_ context.Context, max uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.maxDepositIndex = max
	return nil
}
