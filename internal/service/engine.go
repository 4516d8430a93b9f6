package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/internal/observability"
	"github.com/grinventions/slateboy/pkg/apperror"
	"github.com/grinventions/slateboy/pkg/slatepack"

	"github.com/rs/zerolog"
)

// slatepackPlaceholder in policy-provided instruction texts is replaced
// with the armored slatepack of the current round.
const slatepackPlaceholder = "{slatepack}"

const (
	msgWalletNotReady = "the wallet is still syncing, please try again later"
	msgDepositHow     = "to deposit, send GRIN to this chat: either paste the first slatepack of a send from your wallet, or use /deposit <amount> to receive an invoice"
	msgIncomplete     = "that slatepack looks incomplete, please paste it whole including the BEGINSLATEPACK and ENDSLATEPACK markers"
	msgUserInvoice    = "invoices issued by users are not accepted, use /withdraw to take funds out"
	msgDepositDone    = "deposit finalized and broadcast, your funds will be spendable once the transaction confirms"
	msgWithdrawDone   = "withdrawal finalized and broadcast, the funds are on their way"
)

// Engine drives the slate negotiations: it validates inbound chat events,
// asks the policy for authorization, advances slates through the wallet
// backend, and emits the replies to deliver. One instance serves all users;
// rounds for the same user are serialized.
type Engine struct {
	wallet ports.WalletBackend
	policy ports.Policy
	ledger ports.LedgerRepository
	locks  *UserLocks
	log    zerolog.Logger
}

// NewEngine creates an Engine. locks is shared with the scheduler so sweep
// steps and protocol rounds for one user exclude each other.
func NewEngine(wallet ports.WalletBackend, policy ports.Policy, ledger ports.LedgerRepository, locks *UserLocks, log zerolog.Logger) *Engine {
	return &Engine{
		wallet: wallet,
		policy: policy,
		ledger: ledger,
		locks:  locks,
		log:    log,
	}
}

// Deposit opens an invoice-shaped deposit: the engine issues an invoice
// slate, reserves the amount and hands the slatepack to the user. rawAmount
// is the user-entered grin amount; empty means the user asked how to
// deposit.
func (e *Engine) Deposit(ctx context.Context, sender ports.Sender, rawAmount string) ([]domain.Reply, error) {
	replies, err := e.guarded(ctx, sender, "deposit", func(ctx context.Context) ([]domain.Reply, error) {
		if strings.TrimSpace(rawAmount) == "" {
			return origin(msgDepositHow), nil
		}
		amount, err := domain.ParseAmount(rawAmount)
		if err != nil {
			return origin(fmt.Sprintf("invalid amount %q: %v", rawAmount, err)), nil
		}

		decision, err := e.policy.CanDeposit(ctx, sender.UserID, amount)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return e.rejected("deposit", decision), nil
		}

		pack, txID, err := e.wallet.Invoice(ctx, decision.ApprovedAmount, "")
		if err != nil {
			return nil, err
		}

		result, err := e.policy.AssignDepositTx(ctx, sender.UserID, decision.ApprovedAmount, txID)
		if err != nil {
			e.releaseLock(ctx, txID)
			return nil, err
		}

		instructions := "respond with the slatepack your wallet produces after receiving this invoice:"
		return assignReplies(result, instructions, pack), nil
	})
	return replies, err
}

// Withdraw opens a send-shaped withdrawal: the engine locks the funds,
// builds the first slate round and hands the slatepack to the user. max
// withdraws everything spendable; rawAmount is ignored then. An empty
// rawAmount without max also means max.
func (e *Engine) Withdraw(ctx context.Context, sender ports.Sender, rawAmount string, max bool) ([]domain.Reply, error) {
	return e.guarded(ctx, sender, "withdraw", func(ctx context.Context) ([]domain.Reply, error) {
		amount := int64(0)
		if strings.TrimSpace(rawAmount) == "" {
			max = true
		}
		if !max {
			parsed, err := domain.ParseAmount(rawAmount)
			if err != nil {
				return origin(fmt.Sprintf("invalid amount %q: %v", rawAmount, err)), nil
			}
			amount = parsed
		}

		decision, err := e.policy.CanWithdraw(ctx, sender.UserID, amount, max)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return e.rejected("withdraw", decision), nil
		}

		pack, txID, err := e.wallet.Send(ctx, decision.ApprovedAmount, "")
		if err != nil {
			return nil, err
		}

		result, err := e.policy.AssignWithdrawTx(ctx, sender.UserID, decision.ApprovedAmount, txID)
		if err != nil {
			e.releaseLock(ctx, txID)
			if apperror.IsCode(err, "POL_001") {
				return e.rejected("withdraw", ports.Decision{Reason: appMessage(err)}), nil
			}
			return nil, err
		}

		instructions := fmt.Sprintf(
			"withdrawing %s, receive this slatepack with your wallet and respond with the result:",
			domain.FormatAmount(decision.ApprovedAmount))
		return assignReplies(result, instructions, pack), nil
	})
}

// HandleSlatepack processes a pasted slatepack: it decodes the dispatch
// fields and routes by slate status. S1 opens a deposit, S2 finalizes a
// withdrawal, I2 finalizes a deposit, I1 is refused.
func (e *Engine) HandleSlatepack(ctx context.Context, sender ports.Sender, text string) ([]domain.Reply, error) {
	return e.guarded(ctx, sender, "slatepack", func(ctx context.Context) ([]domain.Reply, error) {
		pack, ok := slatepack.Extract(text)
		if !ok {
			if slatepack.Incomplete(text) {
				return origin(msgIncomplete), nil
			}
			return origin(msgDepositHow), nil
		}

		slate, err := e.wallet.DecodeSlatepack(ctx, pack)
		if err != nil {
			return origin("could not decode that slatepack, please check it and try again"), nil
		}

		switch slate.Status {
		case domain.SlateStatusS1:
			return e.receiveDeposit(ctx, sender, pack, slate)
		case domain.SlateStatusS2:
			return e.finalizeWithdraw(ctx, pack, slate)
		case domain.SlateStatusI1:
			return origin(msgUserInvoice), nil
		case domain.SlateStatusI2:
			return e.finalizeDeposit(ctx, pack, slate)
		default:
			return origin(fmt.Sprintf("unsupported slate state %q", slate.Status)), nil
		}
	})
}

// receiveDeposit handles an unsolicited send (S1): the wallet contributes
// its round and the amount moves into awaiting finalization. The user still
// has to finalize and broadcast on their side.
func (e *Engine) receiveDeposit(ctx context.Context, sender ports.Sender, pack string, slate *domain.Slate) ([]domain.Reply, error) {
	decision, err := e.policy.CanDeposit(ctx, sender.UserID, slate.Amount)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return e.rejected("deposit", decision), nil
	}

	response, txID, err := e.wallet.Receive(ctx, pack)
	if err != nil {
		return nil, err
	}

	result, err := e.policy.AssignDepositTx(ctx, sender.UserID, slate.Amount, txID)
	if err != nil {
		e.releaseLock(ctx, txID)
		if apperror.IsCode(err, "REG_001") {
			return origin("that transaction was already submitted"), nil
		}
		return nil, err
	}

	instructions := "finalize and broadcast this slatepack with your wallet to complete the deposit:"
	return assignReplies(result, instructions, response), nil
}

// finalizeWithdraw handles the user's response (S2) to a withdrawal slate
// the engine issued.
func (e *Engine) finalizeWithdraw(ctx context.Context, pack string, slate *domain.Slate) ([]domain.Reply, error) {
	decision, err := e.policy.ShouldFinalizeWithdrawTx(ctx, slate.ID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return e.rejected("withdraw", decision), nil
	}

	if _, err := e.wallet.Finalize(ctx, pack); err != nil {
		return nil, err
	}

	msg, err := e.policy.FinalizeWithdrawTx(ctx, slate.ID)
	if err != nil {
		return nil, err
	}
	if msg == "" {
		msg = msgWithdrawDone
	}
	return origin(msg), nil
}

// finalizeDeposit handles the user's response (I2) to a deposit invoice the
// engine issued.
func (e *Engine) finalizeDeposit(ctx context.Context, pack string, slate *domain.Slate) ([]domain.Reply, error) {
	decision, err := e.policy.ShouldFinalizeDepositTx(ctx, slate.ID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return e.rejected("deposit", decision), nil
	}

	if _, err := e.wallet.Finalize(ctx, pack); err != nil {
		return nil, err
	}

	msg, err := e.policy.FinalizeDepositTx(ctx, slate.ID)
	if err != nil {
		return nil, err
	}
	if msg == "" {
		msg = msgDepositDone
	}
	return origin(msg), nil
}

// Balance reports the four buckets of the sender's account, privately.
func (e *Engine) Balance(ctx context.Context, sender ports.Sender) ([]domain.Reply, error) {
	return e.guarded(ctx, sender, "balance", func(ctx context.Context) ([]domain.Reply, error) {
		account, err := e.ledger.Get(ctx, sender.UserID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, apperror.ErrLedgerNotInitialized(sender.UserID)
		}
		b := account.Balance
		text := fmt.Sprintf(
			"spendable: %s\nawaiting confirmation: %s\nawaiting finalization: %s\nlocked: %s",
			domain.FormatAmount(b.Spendable),
			domain.FormatAmount(b.AwaitingConfirmation),
			domain.FormatAmount(b.AwaitingFinalization),
			domain.FormatAmount(b.Locked))
		return []domain.Reply{domain.PrivateReply(text)}, nil
	})
}

// ApproveEULA records the sender's acceptance of the current terms.
func (e *Engine) ApproveEULA(ctx context.Context, sender ports.Sender) ([]domain.Reply, error) {
	ignore, _, err := e.policy.ShouldIgnore(ctx, sender)
	if err != nil || ignore {
		return nil, err
	}
	needs, _, version, err := e.policy.ShouldSeeEULA(ctx, sender.UserID)
	if err != nil {
		return nil, err
	}
	if !needs {
		return origin("nothing to approve"), nil
	}
	if err := e.policy.ApprovedEULA(ctx, sender.UserID, version); err != nil {
		return nil, err
	}
	e.touch(ctx, sender.UserID)
	return origin("terms accepted, you can now use /deposit and /withdraw"), nil
}

// DenyEULA records the sender's refusal of the current terms.
func (e *Engine) DenyEULA(ctx context.Context, sender ports.Sender) ([]domain.Reply, error) {
	ignore, _, err := e.policy.ShouldIgnore(ctx, sender)
	if err != nil || ignore {
		return nil, err
	}
	needs, _, version, err := e.policy.ShouldSeeEULA(ctx, sender.UserID)
	if err != nil {
		return nil, err
	}
	if !needs {
		return origin("nothing to deny"), nil
	}
	if err := e.policy.DeniedEULA(ctx, sender.UserID, version); err != nil {
		return nil, err
	}
	e.touch(ctx, sender.UserID)
	return origin("terms declined, deposits and withdrawals stay disabled"), nil
}

// guarded runs a protocol round under the validation pipeline: sender veto,
// wallet readiness, lazy ledger initialization and terms consent, in that
// order, serialized per user.
func (e *Engine) guarded(ctx context.Context, sender ports.Sender, op string, fn func(ctx context.Context) ([]domain.Reply, error)) ([]domain.Reply, error) {
	ignore, reason, err := e.policy.ShouldIgnore(ctx, sender)
	if err != nil {
		return e.observed(op, nil, err)
	}
	if ignore {
		if reason != "" {
			return e.observed(op, origin(reason), nil)
		}
		return e.observed(op, nil, nil)
	}

	unlock := e.locks.Lock(sender.UserID)
	defer unlock()

	if err := e.wallet.IsReady(ctx); err != nil {
		e.log.Warn().Err(err).Str("op", op).Msg("wallet not ready")
		return e.observed(op, origin(msgWalletNotReady), nil)
	}

	if err := e.ensureAccount(ctx, sender.UserID); err != nil {
		return e.observed(op, nil, err)
	}

	if op != "balance" {
		needs, text, _, err := e.policy.ShouldSeeEULA(ctx, sender.UserID)
		if err != nil {
			return e.observed(op, nil, err)
		}
		if needs {
			return e.observed(op, []domain.Reply{
				domain.OriginReply(text),
				domain.OriginReply("reply with /approve to accept or /deny to refuse"),
			}, nil)
		}
	}

	replies, err := fn(ctx)
	if err == nil {
		e.touch(ctx, sender.UserID)
	}
	return e.observed(op, replies, err)
}

// touch refreshes the inactivity clock. Best effort.
func (e *Engine) touch(ctx context.Context, userID int64) {
	if err := e.ledger.Touch(ctx, userID); err != nil {
		e.log.Warn().Err(err).Int64("user_id", userID).Msg("failed to touch last activity")
	}
}

// ensureAccount lazily creates the zero ledger record on first contact.
// The record starts with the activity clock running, so a fresh account is
// never mistaken for a long-inactive one.
func (e *Engine) ensureAccount(ctx context.Context, userID int64) error {
	account, err := e.ledger.Get(ctx, userID)
	if err != nil {
		return err
	}
	if account != nil {
		return nil
	}
	now := time.Now()
	err = e.ledger.Initialize(ctx, &domain.Account{
		UserID:       userID,
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil && !apperror.IsCode(err, "LED_003") {
		return err
	}
	return nil
}

// releaseLock unwinds a wallet-side reservation after the policy refused to
// record it. Best effort: a failure leaves the output locked until the
// wallet operator cancels it by hand.
func (e *Engine) releaseLock(ctx context.Context, txID string) {
	if err := e.wallet.ReleaseLock(ctx, txID); err != nil {
		e.log.Error().Err(err).Str("tx_id", txID).Msg("failed to release wallet lock after policy refusal")
	}
}

func (e *Engine) rejected(op string, decision ports.Decision) []domain.Reply {
	observability.PolicyRejections.WithLabelValues(op).Inc()
	reason := decision.Reason
	if reason == "" {
		reason = "operation not allowed"
	}
	return origin(reason)
}

func (e *Engine) observed(op string, replies []domain.Reply, err error) ([]domain.Reply, error) {
	switch {
	case err != nil:
		observability.ProtocolRounds.WithLabelValues(op, observability.OutcomeError).Inc()
	default:
		observability.ProtocolRounds.WithLabelValues(op, observability.OutcomeOK).Inc()
	}
	return replies, err
}

// assignReplies builds the two-message response to a successful assign: the
// instructions at the origin and the slatepack in private. Policy overrides
// replace the defaults.
func assignReplies(result *ports.AssignResult, instructions, pack string) []domain.Reply {
	if result != nil && result.Instructions != "" {
		instructions = result.Instructions
	}
	if strings.Contains(instructions, slatepackPlaceholder) {
		return []domain.Reply{
			domain.PrivateReply(strings.ReplaceAll(instructions, slatepackPlaceholder, pack)),
		}
	}
	replies := []domain.Reply{
		domain.OriginReply(instructions),
		domain.PrivateReply(pack),
	}
	if result != nil && result.Message != "" {
		replies = append(replies, domain.OriginReply(result.Message))
	}
	return replies
}

func origin(text string) []domain.Reply {
	return []domain.Reply{domain.OriginReply(text)}
}

// appMessage extracts the user-facing message of an AppError, falling back
// to a generic line for plain errors.
func appMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong, please try again"
}
