package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grinventions/slateboy/config"
	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports/mocks"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type schedulerTestDeps struct {
	scheduler  *Scheduler
	wallet     *mocks.MockWalletBackend
	policy     *mocks.MockPolicy
	accounting *mocks.MockAccounting
	ledger     *mocks.MockLedgerRepository
	registry   *mocks.MockRegistryRepository
	marks      *mocks.MockSweepMarkStore
	notifier   *mocks.MockNotifier
	locks      *UserLocks
	ctrl       *gomock.Controller
}

var testSweepCfg = config.SweepConfig{
	TxInterval:         time.Minute,
	AccountingInterval: time.Hour,
	MarkTTL:            10 * time.Minute,
}

func setupScheduler(t *testing.T) *schedulerTestDeps {
	ctrl := gomock.NewController(t)
	d := &schedulerTestDeps{
		wallet:     mocks.NewMockWalletBackend(ctrl),
		policy:     mocks.NewMockPolicy(ctrl),
		accounting: mocks.NewMockAccounting(ctrl),
		ledger:     mocks.NewMockLedgerRepository(ctrl),
		registry:   mocks.NewMockRegistryRepository(ctrl),
		marks:      mocks.NewMockSweepMarkStore(ctrl),
		notifier:   mocks.NewMockNotifier(ctrl),
		locks:      NewUserLocks(),
		ctrl:       ctrl,
	}
	d.scheduler = NewScheduler(
		d.wallet, d.policy, d.accounting, d.ledger, d.registry,
		d.marks, d.notifier, d.locks, testSweepCfg, testPolicyCfg, zerolog.Nop(),
	)
	return d
}

func openTx(id string, kind domain.OperationKind, amount int64, age time.Duration) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		UserID:    7,
		Kind:      kind,
		Amount:    amount,
		Status:    domain.TransactionStatusAssigned,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestScheduler_SweepTransactions_ConfirmsDeposit(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	txn := openTx("tx-1", domain.OperationDeposit, 200, time.Minute)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{txn}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-1").
		Return(domain.WalletTxConfirmed, domain.OperationDeposit, int64(200), nil)
	d.marks.EXPECT().CheckAndSet(ctx, "tx-1", testSweepCfg.MarkTTL).Return(true, nil)
	d.policy.EXPECT().ConfirmDepositTx(ctx, "tx-1", int64(200)).Return(nil)
	d.notifier.EXPECT().Notify(ctx, int64(7), gomock.Any()).Return(nil)

	require.NoError(t, d.scheduler.SweepTransactions(ctx))
}

func TestScheduler_SweepTransactions_WaitsForUserLock(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	// A protocol round in flight for the owner holds the user lock; the
	// sweep must not apply the terminal transition until it is released.
	txn := openTx("tx-1", domain.OperationDeposit, 200, time.Minute)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{txn}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-1").
		Return(domain.WalletTxConfirmed, domain.OperationDeposit, int64(200), nil)
	d.marks.EXPECT().CheckAndSet(ctx, "tx-1", testSweepCfg.MarkTTL).Return(true, nil)

	var confirmed atomic.Bool
	d.policy.EXPECT().ConfirmDepositTx(ctx, "tx-1", int64(200)).DoAndReturn(
		func(context.Context, string, int64) error {
			confirmed.Store(true)
			return nil
		})
	d.notifier.EXPECT().Notify(ctx, int64(7), gomock.Any()).Return(nil)

	unlock := d.locks.Lock(7)
	done := make(chan error, 1)
	go func() { done <- d.scheduler.SweepTransactions(ctx) }()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, confirmed.Load())

	unlock()
	require.NoError(t, <-done)
	assert.True(t, confirmed.Load())
}

func TestScheduler_SweepTransactions_CancelsWithdrawal(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	txn := openTx("tx-2", domain.OperationWithdraw, 300, time.Minute)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{txn}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-2").
		Return(domain.WalletTxCanceled, domain.OperationWithdraw, int64(300), nil)
	d.marks.EXPECT().CheckAndSet(ctx, "tx-2", testSweepCfg.MarkTTL).Return(true, nil)
	d.policy.EXPECT().CancelWithdrawTx(ctx, "tx-2", int64(300)).Return(nil)
	d.notifier.EXPECT().Notify(ctx, int64(7), gomock.Any()).Return(nil)

	require.NoError(t, d.scheduler.SweepTransactions(ctx))
}

func TestScheduler_SweepTransactions_SkipsClaimed(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	// A second overlapping tick sees the mark and applies nothing.
	txn := openTx("tx-1", domain.OperationDeposit, 200, time.Minute)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{txn}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-1").
		Return(domain.WalletTxConfirmed, domain.OperationDeposit, int64(200), nil)
	d.marks.EXPECT().CheckAndSet(ctx, "tx-1", testSweepCfg.MarkTTL).Return(false, nil)

	require.NoError(t, d.scheduler.SweepTransactions(ctx))
}

func TestScheduler_SweepTransactions_LeavesConfirming(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	txn := openTx("tx-1", domain.OperationDeposit, 200, time.Minute)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{txn}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-1").
		Return(domain.WalletTxConfirming, domain.OperationDeposit, int64(200), nil)

	require.NoError(t, d.scheduler.SweepTransactions(ctx))
}

func TestScheduler_SweepTransactions_ExpiresStalledWithdrawal(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	// Older than MaxWithdrawalAge and never finalized.
	txn := openTx("tx-2", domain.OperationWithdraw, 300, 3*time.Hour)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{txn}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-2").
		Return(domain.WalletTxConfirming, domain.OperationWithdraw, int64(300), nil)
	d.marks.EXPECT().CheckAndSet(ctx, "tx-2", testSweepCfg.MarkTTL).Return(true, nil)
	d.wallet.EXPECT().ReleaseLock(ctx, "tx-2").Return(nil)
	d.policy.EXPECT().CancelWithdrawTx(ctx, "tx-2", int64(300)).Return(nil)
	d.notifier.EXPECT().Notify(ctx, int64(7), gomock.Any()).Return(nil)

	require.NoError(t, d.scheduler.SweepTransactions(ctx))
}

func TestScheduler_SweepTransactions_UnknownToWalletAgesOut(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	txn := openTx("tx-9", domain.OperationDeposit, 200, 2*time.Hour)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{txn}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-9").
		Return(domain.WalletTxStatus(""), domain.OperationKind(""), int64(0),
			apperror.ErrUnknownTransaction("tx-9"))
	d.marks.EXPECT().CheckAndSet(ctx, "tx-9", testSweepCfg.MarkTTL).Return(true, nil)
	d.policy.EXPECT().CancelDepositTx(ctx, "tx-9", int64(200)).Return(nil)
	d.notifier.EXPECT().Notify(ctx, int64(7), gomock.Any()).Return(nil)

	require.NoError(t, d.scheduler.SweepTransactions(ctx))
}

func TestScheduler_SweepTransactions_PolicyErrorDoesNotAbortSweep(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	broken := openTx("tx-1", domain.OperationDeposit, 200, time.Minute)
	healthy := openTx("tx-2", domain.OperationWithdraw, 300, time.Minute)
	d.wallet.EXPECT().Sync(ctx).Return(nil)
	d.registry.EXPECT().ListOpen(ctx).Return([]domain.Transaction{broken, healthy}, nil)
	d.wallet.EXPECT().QueryStatus(ctx, "tx-1").
		Return(domain.WalletTxConfirmed, domain.OperationDeposit, int64(200), nil)
	d.marks.EXPECT().CheckAndSet(ctx, "tx-1", testSweepCfg.MarkTTL).Return(true, nil)
	d.policy.EXPECT().ConfirmDepositTx(ctx, "tx-1", int64(200)).
		Return(apperror.ErrDatabaseError(assert.AnError))
	d.wallet.EXPECT().QueryStatus(ctx, "tx-2").
		Return(domain.WalletTxConfirmed, domain.OperationWithdraw, int64(300), nil)
	d.marks.EXPECT().CheckAndSet(ctx, "tx-2", testSweepCfg.MarkTTL).Return(true, nil)
	d.policy.EXPECT().ConfirmWithdrawTx(ctx, "tx-2", int64(300)).Return(nil)
	d.notifier.EXPECT().Notify(ctx, int64(7), gomock.Any()).Return(nil)

	require.NoError(t, d.scheduler.SweepTransactions(ctx))
}

func TestScheduler_SweepAccounting(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	accounts := []domain.Account{
		{UserID: 7, Balance: domain.Balance{Spendable: 20_000_000_000}},
		{UserID: 8},
	}
	d.ledger.EXPECT().List(ctx).Return(accounts, nil)
	d.accounting.EXPECT().ReviewAccount(ctx, accounts[0], gomock.Any()).
		Return("warning issued", nil)
	d.accounting.EXPECT().ReviewAccount(ctx, accounts[1], gomock.Any()).
		Return("", nil)
	d.notifier.EXPECT().Notify(ctx, int64(7), "warning issued").Return(nil)

	require.NoError(t, d.scheduler.SweepAccounting(ctx))
}

func TestScheduler_SweepAccounting_NoAccounting(t *testing.T) {
	d := setupScheduler(t)
	defer d.ctrl.Finish()

	d.scheduler.accounting = nil
	require.NoError(t, d.scheduler.SweepAccounting(context.Background()))
}
