package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grinventions/slateboy/config"
	redisStorage "github.com/grinventions/slateboy/internal/adapter/storage/redis"
	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/internal/service"
	"github.com/grinventions/slateboy/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStack wires the full custody pipeline with in-memory postgres repos,
// miniredis-backed stores and a scripted wallet. It exercises the real
// engine, policy and scheduler end-to-end.
type testStack struct {
	ledger    *inMemoryLedgerRepo
	registry  *inMemoryRegistryRepo
	consents  *inMemoryConsentRepo
	bank      *inMemoryBankRepo
	wallet    *fakeWallet
	notifier  *recordingNotifier
	policy    *service.DefaultPolicy
	engine    *service.Engine
	scheduler *service.Scheduler
	redis     *miniredis.Miniredis
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	policyCfg := config.PolicyConfig{
		MaxFreeBalance:   100_000_000_000, // 100 grin, high enough to never bill here
		WarningPeriod:    24 * time.Hour,
		BillingPeriod:    30 * 24 * time.Hour,
		MonthlyCharge:    1_000_000_000,
		MaxRequestAge:    time.Hour,
		MaxWithdrawalAge: 2 * time.Hour,
		InactivityWindow: 90 * 24 * time.Hour,
		EULAText:         "terms of custody",
		EULAVersion:      "v1",
	}
	sweepCfg := config.SweepConfig{
		TxInterval:         time.Minute,
		AccountingInterval: time.Hour,
		MarkTTL:            10 * time.Minute,
	}

	s := &testStack{
		ledger:   newInMemoryLedgerRepo(),
		registry: newInMemoryRegistryRepo(),
		consents: newInMemoryConsentRepo(),
		bank:     newInMemoryBankRepo(),
		wallet:   newFakeWallet(),
		notifier: newRecordingNotifier(),
		redis:    mr,
	}

	log := logger.New("debug", false)
	s.policy = service.NewDefaultPolicy(
		s.ledger, s.registry, s.consents, s.bank,
		redisStorage.NewWarningStore(rdb),
		newInMemoryTransactor(), policyCfg, log)
	locks := service.NewUserLocks()
	s.engine = service.NewEngine(s.wallet, s.policy, s.ledger, locks, log)
	s.scheduler = service.NewScheduler(
		s.wallet, s.policy, s.policy, s.ledger, s.registry,
		redisStorage.NewSweepMarkStore(rdb), s.notifier, locks, sweepCfg, policyCfg, log)

	return s
}

// onboard runs a user through first contact and terms acceptance.
func (s *testStack) onboard(t *testing.T, sender ports.Sender) {
	t.Helper()
	ctx := context.Background()

	replies, err := s.engine.Balance(ctx, sender)
	require.NoError(t, err)
	require.NotEmpty(t, replies)

	replies, err = s.engine.Deposit(ctx, sender, "")
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "terms of custody")

	replies, err = s.engine.ApproveEULA(ctx, sender)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "accepted")
}

func (s *testStack) balance(t *testing.T, userID int64) domain.Balance {
	t.Helper()
	account, err := s.ledger.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.Balance
}

func TestScenario_InvoiceDepositLifecycle(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)

	// Request a deposit invoice for 1.5 grin.
	replies, err := s.engine.Deposit(ctx, sender, "1.5")
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, domain.ReplyToOrigin, replies[0].Target)
	assert.Equal(t, domain.ReplyToPrivate, replies[1].Target)
	assert.Contains(t, replies[1].Text, "invoice:slate-0001")

	b := s.balance(t, 42)
	assert.Equal(t, int64(1_500_000_000), b.AwaitingFinalization)
	assert.Equal(t, int64(1_500_000_000), b.Total())

	// The user's wallet answers the invoice with an I2 slatepack.
	answer := "BEGINSLATEPACK answer:slate-0001 ENDSLATEPACK"
	s.wallet.registerSlate(answer, &domain.Slate{
		ID: "slate-0001", Status: domain.SlateStatusI2, Amount: 1_500_000_000,
	})
	replies, err = s.engine.HandleSlatepack(ctx, sender, answer)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "finalized")

	b = s.balance(t, 42)
	assert.Equal(t, int64(0), b.AwaitingFinalization)
	assert.Equal(t, int64(1_500_000_000), b.AwaitingConfirmation)

	// The transaction confirms on chain; the sweep settles it.
	s.wallet.setStatus("slate-0001", domain.WalletTxConfirmed)
	require.NoError(t, s.scheduler.SweepTransactions(ctx))

	b = s.balance(t, 42)
	assert.Equal(t, int64(1_500_000_000), b.Spendable)
	assert.Equal(t, int64(1_500_000_000), b.Total())

	open, err := s.registry.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	messages := s.notifier.sent(42)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "deposit of 1.5 has confirmed")

	// A second sweep finds nothing left to do.
	require.NoError(t, s.scheduler.SweepTransactions(ctx))
	assert.Equal(t, int64(1_500_000_000), s.balance(t, 42).Spendable)
}

func TestScenario_UnsolicitedSendDeposit(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 7}
	s.onboard(t, sender)

	// The user pastes the first round of a send from their own wallet.
	pack := "BEGINSLATEPACK usersend ENDSLATEPACK"
	s.wallet.registerSlate(pack, &domain.Slate{
		ID: "user-slate-1", Status: domain.SlateStatusS1, Amount: 700_000_000,
	})
	replies, err := s.engine.HandleSlatepack(ctx, sender, pack)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "finalize and broadcast")
	assert.Contains(t, replies[1].Text, "response:user-slate-1")

	b := s.balance(t, 7)
	assert.Equal(t, int64(700_000_000), b.AwaitingFinalization)

	// Pasting the same slatepack again is refused.
	replies, err = s.engine.HandleSlatepack(ctx, sender, pack)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "already submitted")
	assert.Equal(t, int64(700_000_000), s.balance(t, 7).AwaitingFinalization)

	// Confirmation lands without an explicit finalize round; the funds go
	// straight from awaiting finalization to spendable.
	s.wallet.setStatus("user-slate-1", domain.WalletTxConfirmed)
	require.NoError(t, s.scheduler.SweepTransactions(ctx))

	b = s.balance(t, 7)
	assert.Equal(t, int64(700_000_000), b.Spendable)
	assert.Equal(t, int64(0), b.AwaitingFinalization)
}

func TestScenario_UserInvoiceRefused(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 7}
	s.onboard(t, sender)

	pack := "BEGINSLATEPACK userinvoice ENDSLATEPACK"
	s.wallet.registerSlate(pack, &domain.Slate{
		ID: "inv-1", Status: domain.SlateStatusI1, Amount: 500_000_000,
	})
	replies, err := s.engine.HandleSlatepack(ctx, sender, pack)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "not accepted")
}

func TestScenario_WithdrawalLifecycle(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)
	s.fund(t, 42, 2_000_000_000)

	// Withdraw 1.2 grin: funds lock until the negotiation settles.
	replies, err := s.engine.Withdraw(ctx, sender, "1.2", false)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "withdrawing 1.2")
	assert.Contains(t, replies[1].Text, "send:slate-0002")

	b := s.balance(t, 42)
	assert.Equal(t, int64(800_000_000), b.Spendable)
	assert.Equal(t, int64(1_200_000_000), b.Locked)

	// The user answers with the S2 round.
	answer := "BEGINSLATEPACK s2:slate-0002 ENDSLATEPACK"
	s.wallet.registerSlate(answer, &domain.Slate{
		ID: "slate-0002", Status: domain.SlateStatusS2, Amount: 1_200_000_000,
	})
	replies, err = s.engine.HandleSlatepack(ctx, sender, answer)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "on their way")

	// Chain confirmation reports the debited amount including the fee.
	s.wallet.setDebited("slate-0002", 1_223_000_000)
	s.wallet.setStatus("slate-0002", domain.WalletTxConfirmed)
	require.NoError(t, s.scheduler.SweepTransactions(ctx))

	b = s.balance(t, 42)
	assert.Equal(t, int64(0), b.Locked)
	// 0.8 spendable minus the 0.023 network fee.
	assert.Equal(t, int64(777_000_000), b.Spendable)
}

func TestScenario_OverWithdrawCitesSpendable(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)
	s.fund(t, 42, 1_500_000_000)

	replies, err := s.engine.Withdraw(ctx, sender, "2", false)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "1.5")

	// Nothing moved and nothing was registered.
	b := s.balance(t, 42)
	assert.Equal(t, int64(1_500_000_000), b.Spendable)
	assert.Equal(t, int64(0), b.Locked)
	open, err := s.registry.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestScenario_EmptyWithdrawTakesEverything(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)
	s.fund(t, 42, 900_000_000)

	replies, err := s.engine.Withdraw(ctx, sender, "", false)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "withdrawing 0.9")

	b := s.balance(t, 42)
	assert.Equal(t, int64(0), b.Spendable)
	assert.Equal(t, int64(900_000_000), b.Locked)
}

func TestScenario_StalledWithdrawalExpires(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)
	s.fund(t, 42, 1_000_000_000)

	_, err := s.engine.Withdraw(ctx, sender, "1", false)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000), s.balance(t, 42).Locked)

	// The user never responds; age the negotiation past the deadline.
	s.registry.backdate("slate-0002", 3*time.Hour)
	require.NoError(t, s.scheduler.SweepTransactions(ctx))

	b := s.balance(t, 42)
	assert.Equal(t, int64(1_000_000_000), b.Spendable)
	assert.Equal(t, int64(0), b.Locked)
	assert.Contains(t, s.wallet.released, "slate-0002")

	messages := s.notifier.sent(42)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[len(messages)-1], "not completed in time")
}

func TestScenario_FreshNegotiationSurvivesSweep(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)
	s.fund(t, 42, 1_000_000_000)

	_, err := s.engine.Withdraw(ctx, sender, "1", false)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000), s.balance(t, 42).Locked)

	// A sweep right after opening must leave the young negotiation alone.
	require.NoError(t, s.scheduler.SweepTransactions(ctx))

	assert.Equal(t, int64(1_000_000_000), s.balance(t, 42).Locked)
	assert.Empty(t, s.wallet.released)

	open, err := s.registry.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.False(t, open[0].CreatedAt.IsZero())
}

func TestScenario_NewAccountSurvivesAccountingSweep(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)

	// An empty account contacted moments ago is not inactive.
	require.NoError(t, s.scheduler.SweepAccounting(ctx))

	account, err := s.ledger.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.False(t, account.LastActivity.IsZero())

	consent, err := s.consents.Get(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, consent)
}

func TestScenario_UnknownSlatepackID(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)

	pack := "BEGINSLATEPACK stray ENDSLATEPACK"
	s.wallet.registerSlate(pack, &domain.Slate{
		ID: "never-issued", Status: domain.SlateStatusS2, Amount: 100,
	})
	replies, err := s.engine.HandleSlatepack(ctx, sender, pack)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "unknown transaction id")
}

func TestScenario_ValueConservation(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 42}
	s.onboard(t, sender)

	// A deposit and a withdrawal negotiation run concurrently; through all
	// intermediate steps the total only changes when a transaction opens.
	_, err := s.engine.Deposit(ctx, sender, "3")
	require.NoError(t, err)
	assert.Equal(t, int64(3_000_000_000), s.balance(t, 42).Total())

	answer := "BEGINSLATEPACK answer:slate-0001 ENDSLATEPACK"
	s.wallet.registerSlate(answer, &domain.Slate{
		ID: "slate-0001", Status: domain.SlateStatusI2, Amount: 3_000_000_000,
	})
	_, err = s.engine.HandleSlatepack(ctx, sender, answer)
	require.NoError(t, err)
	assert.Equal(t, int64(3_000_000_000), s.balance(t, 42).Total())

	s.wallet.setStatus("slate-0001", domain.WalletTxConfirmed)
	require.NoError(t, s.scheduler.SweepTransactions(ctx))
	assert.Equal(t, int64(3_000_000_000), s.balance(t, 42).Total())

	// Open a withdrawal and cancel it; the total is restored.
	_, err = s.engine.Withdraw(ctx, sender, "2", false)
	require.NoError(t, err)
	assert.Equal(t, int64(3_000_000_000), s.balance(t, 42).Total())

	s.wallet.setStatus("slate-0002", domain.WalletTxCanceled)
	require.NoError(t, s.scheduler.SweepTransactions(ctx))
	b := s.balance(t, 42)
	assert.Equal(t, int64(3_000_000_000), b.Total())
	assert.Equal(t, int64(3_000_000_000), b.Spendable)
}

func TestScenario_DeniedTermsBlockOperations(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	sender := ports.Sender{UserID: 9}

	replies, err := s.engine.Deposit(ctx, sender, "1")
	require.NoError(t, err)
	require.Len(t, replies, 2)

	replies, err = s.engine.DenyEULA(ctx, sender)
	require.NoError(t, err)
	assert.Contains(t, replies[0].Text, "declined")

	// Denial is recorded but the prompt returns on the next attempt.
	replies, err = s.engine.Deposit(ctx, sender, "1")
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "terms of custody")
}

// fund settles a deposit for the user so later steps have spendable balance.
func (s *testStack) fund(t *testing.T, userID int64, amount int64) {
	t.Helper()
	ctx := context.Background()
	sender := ports.Sender{UserID: userID}

	_, err := s.engine.Deposit(ctx, sender, domain.FormatAmount(amount))
	require.NoError(t, err)

	// Find the invoice the engine just opened.
	open, err := s.registry.ListOpen(ctx)
	require.NoError(t, err)
	var txID string
	for _, txn := range open {
		if txn.UserID == userID && txn.Kind == domain.OperationDeposit && txn.Amount == amount {
			txID = txn.ID
		}
	}
	require.NotEmpty(t, txID)

	answer := fmt.Sprintf("BEGINSLATEPACK fund:%s ENDSLATEPACK", txID)
	s.wallet.registerSlate(answer, &domain.Slate{
		ID: txID, Status: domain.SlateStatusI2, Amount: amount,
	})
	_, err = s.engine.HandleSlatepack(ctx, sender, answer)
	require.NoError(t, err)

	s.wallet.setStatus(txID, domain.WalletTxConfirmed)
	require.NoError(t, s.scheduler.SweepTransactions(ctx))
	require.Equal(t, amount, s.balance(t, userID).Spendable)
}
