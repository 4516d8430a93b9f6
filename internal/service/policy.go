package service

import (
	"context"
	"fmt"
	"time"

	"github.com/grinventions/slateboy/config"
	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// DefaultPolicy implements ports.Policy and ports.Accounting: deposits are
// always accepted, withdrawals are capped at the spendable bucket, and
// balances above the free threshold are charged a periodic custody fee
// after a grace warning.
type DefaultPolicy struct {
	ledger     ports.LedgerRepository
	registry   ports.RegistryRepository
	consents   ports.ConsentRepository
	bank       ports.BankRepository
	warnings   ports.WarningStore
	transactor ports.DBTransactor
	cfg        config.PolicyConfig
	log        zerolog.Logger
}

// NewDefaultPolicy creates a DefaultPolicy.
func NewDefaultPolicy(
	ledger ports.LedgerRepository,
	registry ports.RegistryRepository,
	consents ports.ConsentRepository,
	bank ports.BankRepository,
	warnings ports.WarningStore,
	transactor ports.DBTransactor,
	cfg config.PolicyConfig,
	log zerolog.Logger,
) *DefaultPolicy {
	return &DefaultPolicy{
		ledger:     ledger,
		registry:   registry,
		consents:   consents,
		bank:       bank,
		warnings:   warnings,
		transactor: transactor,
		cfg:        cfg,
		log:        log,
	}
}

// CanDeposit always approves; the default policy holds funds for anyone who
// accepted the terms.
func (p *DefaultPolicy) CanDeposit(ctx context.Context, userID int64, amount int64) (ports.Decision, error) {
	return ports.Decision{Allowed: true, ApprovedAmount: amount}, nil
}

// CanWithdraw approves up to the spendable bucket. Funds still awaiting
// confirmation are named in the rejection so the user knows to wait rather
// than top up.
func (p *DefaultPolicy) CanWithdraw(ctx context.Context, userID int64, amount int64, max bool) (ports.Decision, error) {
	account, err := p.ledger.Get(ctx, userID)
	if err != nil {
		return ports.Decision{}, err
	}
	if account == nil {
		return ports.Decision{}, apperror.ErrLedgerNotInitialized(userID)
	}
	spendable := account.Balance.Spendable

	if max {
		if spendable == 0 {
			return ports.Decision{Reason: "you have no spendable balance"}, nil
		}
		return ports.Decision{Allowed: true, ApprovedAmount: spendable}, nil
	}

	if amount <= spendable {
		return ports.Decision{Allowed: true, ApprovedAmount: amount}, nil
	}
	if amount <= spendable+account.Balance.AwaitingConfirmation {
		return ports.Decision{Reason: fmt.Sprintf(
			"part of your balance is still awaiting confirmation, you can withdraw up to %s now",
			domain.FormatAmount(spendable))}, nil
	}
	return ports.Decision{Reason: fmt.Sprintf(
		"insufficient balance, you can withdraw up to %s",
		domain.FormatAmount(spendable))}, nil
}

// AssignDepositTx credits awaiting_finalization and registers the
// transaction in one database transaction.
func (p *DefaultPolicy) AssignDepositTx(ctx context.Context, userID int64, amount int64, txID string) (*ports.AssignResult, error) {
	now := time.Now()
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if err := p.adjust(ctx, tx, userID, domain.BalanceDelta{AwaitingFinalization: amount}); err != nil {
			return err
		}
		return p.registry.Assign(ctx, tx, &domain.Transaction{
			ID:        txID,
			UserID:    userID,
			Kind:      domain.OperationDeposit,
			Amount:    amount,
			Status:    domain.TransactionStatusAssigned,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &ports.AssignResult{}, nil
}

// AssignWithdrawTx moves amount from spendable to locked and registers the
// transaction. A race past CanWithdraw surfaces here as a rejection.
func (p *DefaultPolicy) AssignWithdrawTx(ctx context.Context, userID int64, amount int64, txID string) (*ports.AssignResult, error) {
	now := time.Now()
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		account, err := p.ledger.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.ErrLedgerNotInitialized(userID)
		}
		next, ok := account.Balance.Apply(domain.BalanceDelta{Spendable: -amount, Locked: amount})
		if !ok {
			return apperror.ErrPolicyRejected(fmt.Sprintf(
				"insufficient balance, you can withdraw up to %s",
				domain.FormatAmount(account.Balance.Spendable)))
		}
		if err := p.ledger.UpdateBalance(ctx, tx, userID, next); err != nil {
			return err
		}
		return p.registry.Assign(ctx, tx, &domain.Transaction{
			ID:        txID,
			UserID:    userID,
			Kind:      domain.OperationWithdraw,
			Amount:    amount,
			Status:    domain.TransactionStatusAssigned,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &ports.AssignResult{}, nil
}

// ShouldFinalizeDepositTx approves iff the id names an open deposit.
func (p *DefaultPolicy) ShouldFinalizeDepositTx(ctx context.Context, txID string) (ports.Decision, error) {
	return p.shouldFinalize(ctx, txID, domain.OperationDeposit)
}

// ShouldFinalizeWithdrawTx approves iff the id names an open withdrawal.
func (p *DefaultPolicy) ShouldFinalizeWithdrawTx(ctx context.Context, txID string) (ports.Decision, error) {
	return p.shouldFinalize(ctx, txID, domain.OperationWithdraw)
}

func (p *DefaultPolicy) shouldFinalize(ctx context.Context, txID string, kind domain.OperationKind) (ports.Decision, error) {
	txn, err := p.registry.Get(ctx, txID)
	if err != nil {
		return ports.Decision{}, err
	}
	if txn == nil {
		return ports.Decision{Reason: "unknown transaction id"}, nil
	}
	if txn.Kind != kind {
		return ports.Decision{Reason: "transaction id belongs to a different operation"}, nil
	}
	if txn.Status != domain.TransactionStatusAssigned {
		return ports.Decision{Reason: "transaction already finalized"}, nil
	}
	return ports.Decision{Allowed: true, ApprovedAmount: txn.Amount}, nil
}

// FinalizeDepositTx moves the deposit's funds from awaiting_finalization to
// awaiting_confirmation and marks the registry row.
func (p *DefaultPolicy) FinalizeDepositTx(ctx context.Context, txID string) (string, error) {
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		txn, err := p.registry.GetForUpdate(ctx, tx, txID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.ErrUnknownTransaction(txID)
		}
		delta := domain.BalanceDelta{
			AwaitingFinalization: -txn.Amount,
			AwaitingConfirmation: txn.Amount,
		}
		if err := p.adjust(ctx, tx, txn.UserID, delta); err != nil {
			return err
		}
		return p.registry.SetStatus(ctx, tx, txID, domain.TransactionStatusFinalized)
	})
	return "", err
}

// FinalizeWithdrawTx marks the registry row; funds were locked at assign
// time and stay locked until the chain confirms.
func (p *DefaultPolicy) FinalizeWithdrawTx(ctx context.Context, txID string) (string, error) {
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		return p.registry.SetStatus(ctx, tx, txID, domain.TransactionStatusFinalized)
	})
	return "", err
}

// ConfirmDepositTx releases the deposit into spendable and unassigns it.
// The source bucket depends on how far the negotiation got: unsolicited
// sends confirm straight out of awaiting_finalization.
func (p *DefaultPolicy) ConfirmDepositTx(ctx context.Context, txID string, amount int64) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		txn, err := p.registry.GetForUpdate(ctx, tx, txID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.ErrUnknownTransaction(txID)
		}
		delta := domain.BalanceDelta{Spendable: txn.Amount}
		if txn.Status == domain.TransactionStatusFinalized {
			delta.AwaitingConfirmation = -txn.Amount
		} else {
			delta.AwaitingFinalization = -txn.Amount
		}
		if err := p.adjust(ctx, tx, txn.UserID, delta); err != nil {
			return err
		}
		return p.registry.Unassign(ctx, tx, txID)
	})
}

// ConfirmWithdrawTx burns the locked funds and unassigns. The network fee,
// when the wallet debited more than was locked, comes out of spendable;
// when spendable cannot cover it the fee is absorbed and logged.
func (p *DefaultPolicy) ConfirmWithdrawTx(ctx context.Context, txID string, amount int64) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		txn, err := p.registry.GetForUpdate(ctx, tx, txID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.ErrUnknownTransaction(txID)
		}
		account, err := p.ledger.GetForUpdate(ctx, tx, txn.UserID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.ErrLedgerNotInitialized(txn.UserID)
		}
		delta := domain.BalanceDelta{Locked: -txn.Amount}
		if fee := amount - txn.Amount; fee > 0 {
			if account.Balance.Spendable >= fee {
				delta.Spendable = -fee
			} else {
				p.log.Warn().Str("tx_id", txID).Int64("fee", fee).
					Msg("spendable cannot cover network fee, absorbing")
			}
		}
		next, ok := account.Balance.Apply(delta)
		if !ok {
			return apperror.ErrInvariantViolation(txn.UserID)
		}
		if err := p.ledger.UpdateBalance(ctx, tx, txn.UserID, next); err != nil {
			return err
		}
		return p.registry.Unassign(ctx, tx, txID)
	})
}

// CancelDepositTx reverses the deposit reservation and unassigns.
func (p *DefaultPolicy) CancelDepositTx(ctx context.Context, txID string, amount int64) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		txn, err := p.registry.GetForUpdate(ctx, tx, txID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.ErrUnknownTransaction(txID)
		}
		delta := domain.BalanceDelta{AwaitingFinalization: -txn.Amount}
		if txn.Status == domain.TransactionStatusFinalized {
			delta = domain.BalanceDelta{AwaitingConfirmation: -txn.Amount}
		}
		if err := p.adjust(ctx, tx, txn.UserID, delta); err != nil {
			return err
		}
		return p.registry.Unassign(ctx, tx, txID)
	})
}

// CancelWithdrawTx returns the locked funds to spendable and unassigns.
func (p *DefaultPolicy) CancelWithdrawTx(ctx context.Context, txID string, amount int64) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		txn, err := p.registry.GetForUpdate(ctx, tx, txID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.ErrUnknownTransaction(txID)
		}
		delta := domain.BalanceDelta{Locked: -txn.Amount, Spendable: txn.Amount}
		if err := p.adjust(ctx, tx, txn.UserID, delta); err != nil {
			return err
		}
		return p.registry.Unassign(ctx, tx, txID)
	})
}

// ShouldSeeEULA reports whether the user still has to accept the current
// terms version. A recorded denial does not silence the prompt.
func (p *DefaultPolicy) ShouldSeeEULA(ctx context.Context, userID int64) (bool, string, string, error) {
	if p.cfg.EULAText == "" {
		return false, "", "", nil
	}
	consent, err := p.consents.Get(ctx, userID)
	if err != nil {
		return false, "", "", err
	}
	if consent != nil && consent.Covers(p.cfg.EULAVersion) {
		return false, "", "", nil
	}
	return true, p.cfg.EULAText, p.cfg.EULAVersion, nil
}

// ApprovedEULA records acceptance of the given terms version.
func (p *DefaultPolicy) ApprovedEULA(ctx context.Context, userID int64, version string) error {
	return p.consents.SetApproved(ctx, userID, version)
}

// DeniedEULA records the refusal; financial operations stay blocked.
func (p *DefaultPolicy) DeniedEULA(ctx context.Context, userID int64, version string) error {
	return p.consents.SetDenied(ctx, userID, version)
}

// ShouldIgnore drops bot-originated senders silently.
func (p *DefaultPolicy) ShouldIgnore(ctx context.Context, sender ports.Sender) (bool, string, error) {
	if sender.IsBot {
		return true, "", nil
	}
	return false, "", nil
}

// ReviewAccount applies the free-threshold billing cycle to one account and
// evicts empty inactive ones. Returns the notification to deliver, empty
// when nothing happened.
func (p *DefaultPolicy) ReviewAccount(ctx context.Context, account domain.Account, now time.Time) (string, error) {
	// Only funds the user could move count against the free ceiling. Locked
	// and awaiting-finalization value belongs to open negotiations.
	billable := account.Balance.Spendable + account.Balance.AwaitingConfirmation
	if p.cfg.MaxFreeBalance > 0 && billable > p.cfg.MaxFreeBalance {
		return p.reviewOverThreshold(ctx, account, now)
	}

	// Back under the threshold, any pending warning is void.
	if err := p.warnings.Clear(ctx, account.UserID); err != nil {
		p.log.Warn().Err(err).Int64("user_id", account.UserID).Msg("failed to clear billing warning")
	}

	if p.cfg.InactivityWindow > 0 && account.Balance.IsZero() &&
		now.Sub(account.LastActivity) > p.cfg.InactivityWindow {
		return "", p.evict(ctx, account.UserID)
	}
	return "", nil
}

func (p *DefaultPolicy) reviewOverThreshold(ctx context.Context, account domain.Account, now time.Time) (string, error) {
	warnedAt, warned, err := p.warnings.WarnedAt(ctx, account.UserID)
	if err != nil {
		return "", err
	}
	if !warned {
		if err := p.warnings.MarkWarned(ctx, account.UserID, now, p.cfg.BillingPeriod); err != nil {
			return "", err
		}
		b := account.Balance
		return fmt.Sprintf(
			"your balance of %s (%s spendable, %s awaiting confirmation) exceeds the free threshold of %s, a custody fee of %s will be charged in %s unless you withdraw",
			domain.FormatAmount(b.Spendable+b.AwaitingConfirmation),
			domain.FormatAmount(b.Spendable),
			domain.FormatAmount(b.AwaitingConfirmation),
			domain.FormatAmount(p.cfg.MaxFreeBalance),
			domain.FormatAmount(p.cfg.MonthlyCharge),
			p.cfg.WarningPeriod), nil
	}
	if now.Sub(warnedAt) < p.cfg.WarningPeriod {
		return "", nil
	}

	charged, err := p.chargeFee(ctx, account.UserID)
	if err != nil {
		return "", err
	}
	if err := p.warnings.MarkWarned(ctx, account.UserID, now, p.cfg.BillingPeriod); err != nil {
		p.log.Warn().Err(err).Int64("user_id", account.UserID).Msg("failed to restart billing period")
	}
	return fmt.Sprintf("a custody fee of %s has been charged", domain.FormatAmount(charged)), nil
}

// chargeFee debits the monthly charge from spendable, capped at what the
// bucket holds, and credits the bank counter.
func (p *DefaultPolicy) chargeFee(ctx context.Context, userID int64) (int64, error) {
	var charged int64
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		account, err := p.ledger.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.ErrLedgerNotInitialized(userID)
		}
		charged = p.cfg.MonthlyCharge
		if account.Balance.Spendable < charged {
			charged = account.Balance.Spendable
		}
		if charged == 0 {
			return nil
		}
		next, ok := account.Balance.Apply(domain.BalanceDelta{Spendable: -charged})
		if !ok {
			return apperror.ErrInvariantViolation(userID)
		}
		if err := p.ledger.UpdateBalance(ctx, tx, userID, next); err != nil {
			return err
		}
		return p.bank.AddCharged(ctx, tx, charged)
	})
	return charged, err
}

// evict removes an empty, inactive account along with its consent record.
func (p *DefaultPolicy) evict(ctx context.Context, userID int64) error {
	if open, err := p.registry.CountByUser(ctx, userID); err != nil {
		return err
	} else if open > 0 {
		return nil
	}
	p.log.Info().Int64("user_id", userID).Msg("evicting inactive empty account")
	return p.inTx(ctx, func(tx pgx.Tx) error {
		if err := p.consents.Delete(ctx, tx, userID); err != nil {
			return err
		}
		return p.ledger.Delete(ctx, tx, userID)
	})
}

// adjust applies a delta to the user's locked balance row inside tx.
func (p *DefaultPolicy) adjust(ctx context.Context, tx pgx.Tx, userID int64, delta domain.BalanceDelta) error {
	account, err := p.ledger.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return apperror.ErrLedgerNotInitialized(userID)
	}
	next, ok := account.Balance.Apply(delta)
	if !ok {
		return apperror.ErrInvariantViolation(userID)
	}
	return p.ledger.UpdateBalance(ctx, tx, userID, next)
}

// inTx runs fn inside a database transaction, committing on success.
func (p *DefaultPolicy) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
