package inmemory

import (
	"context"
	"sync"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

// RepoManager is the in memory counterpart of the badger backed store,
// meant for tests. Writes are serialized by a single mutex, which makes
// every handler run atomically with respect to the others. There is no
// rollback: a handler must not leave partial writes behind on error.
type RepoManager struct {
	assetRepository      domain.AssetRepository
	balanceRepository    domain.BalanceRepository
	depositRepository    domain.DepositRepository
	withdrawalRepository domain.WithdrawalRepository
	gatewayRepository    domain.GatewayRepository

	lock *sync.Mutex
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		assetRepository:      NewAssetRepositoryImpl(),
		balanceRepository:    NewBalanceRepositoryImpl(),
		depositRepository:    NewDepositRepositoryImpl(),
		withdrawalRepository: NewWithdrawalRepositoryImpl(),
		gatewayRepository:    NewGatewayRepositoryImpl(),
		lock:                 &sync.Mutex{},
	}
}

func (d *RepoManager) AssetRepository() domain.AssetRepository {
	return d.assetRepository
}

func (d *RepoManager) BalanceRepository() domain.BalanceRepository {
	return d.balanceRepository
}

func (d *RepoManager) DepositRepository() domain.DepositRepository {
	return d.depositRepository
}

func (d *RepoManager) WithdrawalRepository() domain.WithdrawalRepository {
	return d.withdrawalRepository
}

func (d *RepoManager) GatewayRepository() domain.GatewayRepository {
	return d.gatewayRepository
}

func (d *RepoManager) RunTransaction(
	ctx context.Context,
	_ bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	return handler(ctx)
}

func (d *RepoManager) Close() {}
