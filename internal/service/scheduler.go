package service

import (
	"context"
	"fmt"
	"time"

	"github.com/grinventions/slateboy/config"
	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/internal/observability"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/rs/zerolog"
)

// Scheduler runs the two reconciliation sweeps. The transaction sweep
// reconciles the registry against the wallet's view of the chain: open
// transactions confirm, cancel, or expire. The accounting sweep drives
// per-account billing and eviction. Both sweeps are idempotent; terminal
// transitions are additionally guarded by sweep marks so overlapping ticks
// never double-apply.
type Scheduler struct {
	wallet     ports.WalletBackend
	policy     ports.Policy
	accounting ports.Accounting
	ledger     ports.LedgerRepository
	registry   ports.RegistryRepository
	marks      ports.SweepMarkStore
	notifier   ports.Notifier
	locks      *UserLocks
	sweepCfg   config.SweepConfig
	policyCfg  config.PolicyConfig
	log        zerolog.Logger
}

// NewScheduler creates a Scheduler. accounting may be nil when the policy
// does not bill. locks is the engine's per-user lock table; the sweeps take
// it before resolving a user's transaction.
func NewScheduler(
	wallet ports.WalletBackend,
	policy ports.Policy,
	accounting ports.Accounting,
	ledger ports.LedgerRepository,
	registry ports.RegistryRepository,
	marks ports.SweepMarkStore,
	notifier ports.Notifier,
	locks *UserLocks,
	sweepCfg config.SweepConfig,
	policyCfg config.PolicyConfig,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		wallet:     wallet,
		policy:     policy,
		accounting: accounting,
		ledger:     ledger,
		registry:   registry,
		marks:      marks,
		notifier:   notifier,
		locks:      locks,
		sweepCfg:   sweepCfg,
		policyCfg:  policyCfg,
		log:        log,
	}
}

// Run blocks, driving both sweeps on their configured intervals until the
// context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	txTicker := time.NewTicker(s.sweepCfg.TxInterval)
	defer txTicker.Stop()
	acctTicker := time.NewTicker(s.sweepCfg.AccountingInterval)
	defer acctTicker.Stop()

	s.log.Info().
		Dur("tx_interval", s.sweepCfg.TxInterval).
		Dur("accounting_interval", s.sweepCfg.AccountingInterval).
		Msg("reconciliation scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("reconciliation scheduler stopped")
			return
		case <-txTicker.C:
			if err := s.SweepTransactions(ctx); err != nil {
				observability.SweepErrors.WithLabelValues("transactions").Inc()
				s.log.Error().Err(err).Msg("transaction sweep failed")
			}
		case <-acctTicker.C:
			if err := s.SweepAccounting(ctx); err != nil {
				observability.SweepErrors.WithLabelValues("accounting").Inc()
				s.log.Error().Err(err).Msg("accounting sweep failed")
			}
		}
	}
}

// SweepTransactions reconciles every open transaction against the wallet.
func (s *Scheduler) SweepTransactions(ctx context.Context) error {
	if err := s.wallet.Sync(ctx); err != nil {
		return fmt.Errorf("wallet sync: %w", err)
	}

	open, err := s.registry.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open transactions: %w", err)
	}
	observability.OpenTransactions.Set(float64(len(open)))

	now := time.Now()
	for _, txn := range open {
		if err := s.sweepOne(ctx, txn, now); err != nil {
			observability.SweepErrors.WithLabelValues("transactions").Inc()
			s.log.Error().Err(err).Str("tx_id", txn.ID).Msg("failed to sweep transaction")
		}
	}
	return nil
}

func (s *Scheduler) sweepOne(ctx context.Context, txn domain.Transaction, now time.Time) error {
	status, _, amount, err := s.wallet.QueryStatus(ctx, txn.ID)
	if err != nil {
		// A transaction the wallet no longer knows cannot progress; age
		// it out like a stalled one.
		if apperror.IsCode(err, "REG_002") && s.expired(txn, now) {
			return s.expire(ctx, txn, false)
		}
		return err
	}

	switch status {
	case domain.WalletTxConfirmed:
		return s.resolve(ctx, txn, amount, "confirmed")
	case domain.WalletTxCanceled:
		return s.resolve(ctx, txn, amount, "canceled")
	default:
		if txn.Status == domain.TransactionStatusAssigned && s.expired(txn, now) {
			return s.expire(ctx, txn, true)
		}
		return nil
	}
}

// resolve applies a wallet-reported terminal status to the ledger, guarded
// by a sweep mark. It holds the owner's lock so a protocol round for the
// same user cannot interleave with the terminal transition.
func (s *Scheduler) resolve(ctx context.Context, txn domain.Transaction, amount int64, resolution string) error {
	unlock := s.locks.Lock(txn.UserID)
	defer unlock()

	fresh, err := s.marks.CheckAndSet(ctx, txn.ID, s.sweepCfg.MarkTTL)
	if err != nil {
		return fmt.Errorf("claim sweep mark: %w", err)
	}
	if !fresh {
		return nil
	}

	confirmed := resolution == "confirmed"
	switch {
	case confirmed && txn.Kind == domain.OperationDeposit:
		err = s.policy.ConfirmDepositTx(ctx, txn.ID, amount)
	case confirmed && txn.Kind == domain.OperationWithdraw:
		err = s.policy.ConfirmWithdrawTx(ctx, txn.ID, amount)
	case txn.Kind == domain.OperationDeposit:
		err = s.policy.CancelDepositTx(ctx, txn.ID, amount)
	default:
		err = s.policy.CancelWithdrawTx(ctx, txn.ID, amount)
	}
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", resolution, txn.Kind, txn.ID, err)
	}

	observability.SweepResolutions.WithLabelValues(string(txn.Kind), resolution).Inc()
	s.log.Info().Str("tx_id", txn.ID).Str("kind", string(txn.Kind)).
		Str("resolution", resolution).Msg("transaction resolved")

	s.notify(ctx, txn.UserID, resolutionMessage(txn, resolution))
	return nil
}

// expire force-cancels a stalled negotiation: the wallet lock is released
// and the reservation reversed. Holds the owner's lock like resolve does.
func (s *Scheduler) expire(ctx context.Context, txn domain.Transaction, releaseLock bool) error {
	unlock := s.locks.Lock(txn.UserID)
	defer unlock()

	fresh, err := s.marks.CheckAndSet(ctx, txn.ID, s.sweepCfg.MarkTTL)
	if err != nil {
		return fmt.Errorf("claim sweep mark: %w", err)
	}
	if !fresh {
		return nil
	}

	if releaseLock {
		if err := s.wallet.ReleaseLock(ctx, txn.ID); err != nil {
			s.log.Warn().Err(err).Str("tx_id", txn.ID).Msg("failed to release wallet lock for expired transaction")
		}
	}

	if txn.Kind == domain.OperationDeposit {
		err = s.policy.CancelDepositTx(ctx, txn.ID, txn.Amount)
	} else {
		err = s.policy.CancelWithdrawTx(ctx, txn.ID, txn.Amount)
	}
	if err != nil {
		return fmt.Errorf("expire %s %s: %w", txn.Kind, txn.ID, err)
	}

	observability.SweepResolutions.WithLabelValues(string(txn.Kind), "expired").Inc()
	s.log.Info().Str("tx_id", txn.ID).Str("kind", string(txn.Kind)).Msg("stalled transaction expired")

	s.notify(ctx, txn.UserID, resolutionMessage(txn, "expired"))
	return nil
}

func (s *Scheduler) expired(txn domain.Transaction, now time.Time) bool {
	maxAge := s.policyCfg.MaxRequestAge
	if txn.Kind == domain.OperationWithdraw {
		maxAge = s.policyCfg.MaxWithdrawalAge
	}
	return maxAge > 0 && txn.Age(now) > maxAge
}

// SweepAccounting reviews every account through the accounting policy.
func (s *Scheduler) SweepAccounting(ctx context.Context) error {
	if s.accounting == nil {
		return nil
	}

	accounts, err := s.ledger.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	now := time.Now()
	for _, account := range accounts {
		notification, err := s.reviewLocked(ctx, account, now)
		if err != nil {
			observability.SweepErrors.WithLabelValues("accounting").Inc()
			s.log.Error().Err(err).Int64("user_id", account.UserID).Msg("account review failed")
			continue
		}
		if notification != "" {
			s.notify(ctx, account.UserID, notification)
		}
	}
	return nil
}

// reviewLocked runs one account review under the owner's lock, so billing
// never races a protocol round touching the same balance.
func (s *Scheduler) reviewLocked(ctx context.Context, account domain.Account, now time.Time) (string, error) {
	unlock := s.locks.Lock(account.UserID)
	defer unlock()
	return s.accounting.ReviewAccount(ctx, account, now)
}

func (s *Scheduler) notify(ctx context.Context, userID int64, text string) {
	if s.notifier == nil || text == "" {
		return
	}
	if err := s.notifier.Notify(ctx, userID, text); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to deliver notification")
	}
}

func resolutionMessage(txn domain.Transaction, resolution string) string {
	amount := domain.FormatAmount(txn.Amount)
	switch {
	case resolution == "confirmed" && txn.Kind == domain.OperationDeposit:
		return fmt.Sprintf("your deposit of %s has confirmed and is now spendable", amount)
	case resolution == "confirmed":
		return fmt.Sprintf("your withdrawal of %s has confirmed", amount)
	case resolution == "expired" && txn.Kind == domain.OperationDeposit:
		return fmt.Sprintf("your deposit of %s was not completed in time and has been canceled", amount)
	case resolution == "expired":
		return fmt.Sprintf("your withdrawal of %s was not completed in time, the funds are spendable again", amount)
	case txn.Kind == domain.OperationDeposit:
		return fmt.Sprintf("your deposit of %s was canceled", amount)
	default:
		return fmt.Sprintf("your withdrawal of %s was canceled, the funds are spendable again", amount)
	}
}
