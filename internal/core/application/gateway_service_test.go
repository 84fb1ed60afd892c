package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RioDefi/riochain/internal/core/application"
	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
	"github.com/RioDefi/riochain/internal/infrastructure/storage/db/inmemory"
)

const (
	admin = "admin"

	btcWithdrawalFee = uint64(10)
	destAddress      = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
)

var allAuths = domain.AuthsNone.
	Add(domain.AuthRegister).
	Add(domain.AuthDeposit).
	Add(domain.AuthWithdraw).
	Add(domain.AuthSudo)

func newTestGateway(
	t *testing.T,
) (application.GatewayService, application.LedgerService, ports.RepoManager) {
	t.Helper()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	newTestRegistry(t, repoManager)
	gatewaySvc := application.NewGatewayService(repoManager, nil)
	ledgerSvc := application.NewLedgerService(repoManager, nil)

	require.NoError(t, gatewaySvc.SetAuth(ctx, admin, allAuths))
	require.NoError(t, gatewaySvc.AddSupportedAsset(
		ctx, admin, btcCurrency, btcWithdrawalFee,
	))
	return gatewaySvc, ledgerSvc, repoManager
}

func TestSupportedAssets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, _, _ := newTestGateway(t)

	err := gatewaySvc.AddSupportedAsset(ctx, bob, rioCurrency, 0)
	require.EqualError(t, err, domain.ErrUnAuthorized.Error())

	err = gatewaySvc.AddSupportedAsset(ctx, admin, btcCurrency, 5)
	require.EqualError(t, err, domain.ErrAssetExisted.Error())

	err = gatewaySvc.SetWithdrawalFee(ctx, admin, rioCurrency, 5)
	require.EqualError(t, err, domain.ErrAssetNotSupported.Error())

	require.NoError(t, gatewaySvc.SetWithdrawalFee(ctx, admin, btcCurrency, 20))
	require.NoError(t, gatewaySvc.RemoveSupportedAsset(ctx, admin, btcCurrency))

	err = gatewaySvc.Deposit(ctx, admin, alice, btcCurrency, "0xaa", 100)
	require.EqualError(t, err, domain.ErrAssetNotSupported.Error())
}

func TestGatewayDeposit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	txHash := domain.TxHash("0x6b86b273ff34fce19d6b804eff5a3f57")

	require.NoError(t, gatewaySvc.Deposit(
		ctx, admin, alice, btcCurrency, txHash, 500,
	))

	free, err := ledgerSvc.FreeBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(500), free)

	issuance, err := ledgerSvc.TotalIssuance(ctx, btcCurrency)
	require.NoError(t, err)
	require.Equal(t, uint64(500), issuance)

	// replaying the same external transaction is refused
	err = gatewaySvc.Deposit(ctx, admin, alice, btcCurrency, txHash, 500)
	require.EqualError(t, err, domain.ErrTransactionRepeated.Error())

	// and has not credited anything
	free, err = ledgerSvc.FreeBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(500), free)

	// the same hash on another currency is a distinct deposit
	require.NoError(t, gatewaySvc.AddSupportedAsset(ctx, admin, rioCurrency, 0))
	require.NoError(t, gatewaySvc.Deposit(
		ctx, admin, alice, rioCurrency, txHash, 100,
	))

	err = gatewaySvc.Deposit(ctx, bob, alice, btcCurrency, "0xbb", 100)
	require.EqualError(t, err, domain.ErrUnAuthorized.Error())
}

func TestDepositIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, _, _ := newTestGateway(t)

	// no capacity yet
	_, err := gatewaySvc.ApplyDepositIndex(ctx, alice)
	require.EqualError(t, err, domain.ErrCanNotAssignIndex.Error())

	require.NoError(t, gatewaySvc.SetMaxDepositIndex(ctx, 2))

	err = gatewaySvc.SetMaxDepositIndex(ctx, 1)
	require.EqualError(t, err, application.ErrMaxDepositIndexTooLow.Error())

	index, err := gatewaySvc.ApplyDepositIndex(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(0), index)

	got, err := gatewaySvc.DepositIndexOf(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, uint64(0), *got)

	_, err = gatewaySvc.ApplyDepositIndex(ctx, alice)
	require.EqualError(t, err, domain.ErrAlreadyAppliedIndex.Error())

	index, err = gatewaySvc.ApplyDepositIndex(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, uint64(1), index)

	// capacity exhausted
	_, err = gatewaySvc.ApplyDepositIndex(ctx, "charlie")
	require.EqualError(t, err, domain.ErrCanNotAssignIndex.Error())

	got, err = gatewaySvc.DepositIndexOf(ctx, "charlie")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDepositAddrInfo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, _, repoManager := newTestGateway(t)

	info := domain.DepositAddrInfo{
		Kind: domain.DepositAddrBip32,
		Bip32: &domain.Bip32{
			XPub: "xpub6CUGRUonZSQ4TWtTMmzXdrXDtypWKiKrhko4egpiMZbpiaQL2jkwSB1icqYh2cfDfVxdx4df189oLKnC5fSwqPfgyP3hooxujYzAu3fDVmz",
			Path: "m/44'/0'/0'",
		},
	}
	require.NoError(t, gatewaySvc.SetDepositAddrInfo(ctx, btcCurrency, info))

	got, err := repoManager.GatewayRepository().GetDepositAddrInfo(ctx, btcCurrency)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, info, *got)
}

func TestRequestWithdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	require.NoError(t, ledgerSvc.Deposit(ctx, btcCurrency, alice, 1000))

	id, err := gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 100, destAddress, "invoice 42",
	)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	// value plus fee is reserved, nothing burnt yet
	free, err := ledgerSvc.FreeBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(890), free)

	reserved, err := ledgerSvc.ReservedBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(110), reserved)

	issuance, err := ledgerSvc.TotalIssuance(ctx, btcCurrency)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), issuance)

	pending, err := gatewaySvc.PendingWithdrawList(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	item := pending[id]
	require.Equal(t, alice, item.Applicant)
	require.Equal(t, uint64(100), item.Value)
	require.Equal(t, btcWithdrawalFee, item.Fee)
	require.Equal(t, destAddress, item.Address)
	// memos come back as-is, only addresses are hex-encoded
	require.Equal(t, "invoice 42", item.Memo)
	require.Equal(t, domain.WithdrawStatePending.String(), item.State)
	require.Equal(t, "0.000001", item.ValueFormatted)

	// ids are sequential
	id, err = gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 50, destAddress, "",
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
}

func TestFailingRequestWithdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	require.NoError(t, ledgerSvc.Deposit(ctx, btcCurrency, alice, 100))

	_, err := gatewaySvc.RequestWithdraw(
		ctx, alice, rioCurrency, 100, destAddress, "",
	)
	require.EqualError(t, err, domain.ErrAssetNotSupported.Error())

	// value plus fee exceeds the free balance
	_, err = gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 95, destAddress, "",
	)
	require.EqualError(t, err, domain.ErrBalanceTooLow.Error())

	longAddress := make([]byte, domain.MaxAddressLen+1)
	for i := range longAddress {
		longAddress[i] = 'a'
	}
	_, err = gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 10, string(longAddress), "",
	)
	require.EqualError(t, err, domain.ErrInvalidWithdraw.Error())
}

func TestWithdrawLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	require.NoError(t, ledgerSvc.Deposit(ctx, btcCurrency, alice, 1000))
	id, err := gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 100, destAddress, "",
	)
	require.NoError(t, err)

	err = gatewaySvc.ApproveWithdraw(ctx, bob, id)
	require.EqualError(t, err, domain.ErrUnAuthorized.Error())

	// cannot finish a withdrawal that was never approved
	err = gatewaySvc.FinishWithdraw(ctx, admin, id, "0xcc")
	require.EqualError(t, err, domain.ErrInvalidWithdrawalState.Error())

	require.NoError(t, gatewaySvc.ApproveWithdraw(ctx, admin, id))

	items, err := gatewaySvc.WithdrawList(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.WithdrawStateApproved.String(), items[id].State)

	// approved withdrawals are out of reach of cancel and reject
	err = gatewaySvc.CancelWithdraw(ctx, alice, id)
	require.EqualError(t, err, domain.ErrInvalidWithdrawalState.Error())
	err = gatewaySvc.RejectWithdraw(ctx, admin, id)
	require.EqualError(t, err, domain.ErrInvalidWithdrawalState.Error())

	require.NoError(t, gatewaySvc.FinishWithdraw(ctx, admin, id, "0xdd"))

	// the record is purged and the reserved value plus fee is burnt
	items, err = gatewaySvc.WithdrawList(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	reserved, err := ledgerSvc.ReservedBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Zero(t, reserved)

	free, err := ledgerSvc.FreeBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(890), free)

	issuance, err := ledgerSvc.TotalIssuance(ctx, btcCurrency)
	require.NoError(t, err)
	require.Equal(t, uint64(890), issuance)

	err = gatewaySvc.FinishWithdraw(ctx, admin, id, "0xdd")
	require.EqualError(t, err, domain.ErrWithdrawalRecordNotExisted.Error())
}

func TestCancelWithdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	require.NoError(t, ledgerSvc.Deposit(ctx, btcCurrency, alice, 1000))
	id, err := gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 100, destAddress, "",
	)
	require.NoError(t, err)

	err = gatewaySvc.CancelWithdraw(ctx, bob, id)
	require.EqualError(t, err, domain.ErrCanNotCancelOtherWithdrawals.Error())

	require.NoError(t, gatewaySvc.CancelWithdraw(ctx, alice, id))

	// the full reservation is refunded and nothing was burnt
	free, err := ledgerSvc.FreeBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), free)

	reserved, err := ledgerSvc.ReservedBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Zero(t, reserved)

	issuance, err := ledgerSvc.TotalIssuance(ctx, btcCurrency)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), issuance)

	items, err := gatewaySvc.WithdrawList(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRejectWithdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	require.NoError(t, ledgerSvc.Deposit(ctx, btcCurrency, alice, 1000))
	id, err := gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 100, destAddress, "",
	)
	require.NoError(t, err)

	err = gatewaySvc.RejectWithdraw(ctx, bob, id)
	require.EqualError(t, err, domain.ErrUnAuthorized.Error())

	require.NoError(t, gatewaySvc.RejectWithdraw(ctx, admin, id))

	free, err := ledgerSvc.FreeBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), free)

	items, err := gatewaySvc.WithdrawList(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRebroadcast(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	require.NoError(t, ledgerSvc.Deposit(ctx, btcCurrency, alice, 1000))
	id, err := gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 100, destAddress, "",
	)
	require.NoError(t, err)
	require.NoError(t, gatewaySvc.ApproveWithdraw(ctx, admin, id))

	err = gatewaySvc.Rebroadcast(ctx, bob, id, "0xee")
	require.EqualError(t, err, domain.ErrUnAuthorized.Error())

	require.NoError(t, gatewaySvc.Rebroadcast(ctx, admin, id, "0xee"))

	// informational only, the record is untouched
	items, err := gatewaySvc.WithdrawList(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.WithdrawStateApproved.String(), items[id].State)
}

func TestUnsafeSetWithdrawState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gatewaySvc, ledgerSvc, _ := newTestGateway(t)

	require.NoError(t, ledgerSvc.Deposit(ctx, btcCurrency, alice, 1000))
	id, err := gatewaySvc.RequestWithdraw(
		ctx, alice, btcCurrency, 100, destAddress, "",
	)
	require.NoError(t, err)
	require.NoError(t, gatewaySvc.ApproveWithdraw(ctx, admin, id))

	pending := &domain.WithdrawState{Kind: domain.WithdrawStatePending}
	err = gatewaySvc.UnsafeSetWithdrawState(ctx, alice, id, pending)
	require.EqualError(t, err, domain.ErrUnAuthorized.Error())

	require.NoError(t, gatewaySvc.UnsafeSetWithdrawState(ctx, admin, id, pending))

	items, err := gatewaySvc.WithdrawList(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.WithdrawStatePending.String(), items[id].State)

	// a nil state purges the record without refunding the reservation
	require.NoError(t, gatewaySvc.UnsafeSetWithdrawState(ctx, admin, id, nil))

	items, err = gatewaySvc.WithdrawList(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	reserved, err := ledgerSvc.ReservedBalance(ctx, btcCurrency, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(110), reserved)

	err = gatewaySvc.UnsafeSetWithdrawState(ctx, admin, id, nil)
	require.EqualError(t, err, domain.ErrWithdrawalRecordNotExisted.Error())
}

func TestGatewayDepositPublishesEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()
	newTestRegistry(t, repoManager)
	publisher := &capturePublisher{}
	gatewaySvc := application.NewGatewayService(repoManager, publisher)

	require.NoError(t, gatewaySvc.SetAuth(ctx, admin, allAuths))
	require.NoError(t, gatewaySvc.AddSupportedAsset(ctx, admin, btcCurrency, 0))

	numEvents := len(publisher.events)
	require.NoError(t, gatewaySvc.Deposit(ctx, admin, alice, btcCurrency, "0xaa", 100))

	events := publisher.events[numEvents:]
	require.Len(t, events, 2)
	require.Equal(t, domain.EventDeposited, events[0].Type)
	require.Equal(t, domain.EventDepositRecorded, events[1].Type)
}
