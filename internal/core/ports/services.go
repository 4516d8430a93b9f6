package ports

import (
	"context"
	"time"

	"github.com/grinventions/slateboy/internal/core/domain"
)

// WalletBackend is the opaque RPC capability constructing and advancing
// slates. Calls carry the request context; the adapter applies the
// configured timeout. Failures abort the current protocol round and are not
// retried within it; Sync and QueryStatus are idempotent and safe to retry
// on the next scheduler tick.
type WalletBackend interface {
	Sync(ctx context.Context) error
	IsReady(ctx context.Context) error
	// Send opens an outbound payment, returning the first slatepack round
	// and the wallet-issued transaction id.
	Send(ctx context.Context, amount int64, dest string) (slatepack string, txID string, err error)
	// Invoice opens an inbound payment request.
	Invoice(ctx context.Context, amount int64, dest string) (slatepack string, txID string, err error)
	// Receive answers an unsolicited inbound send.
	Receive(ctx context.Context, slatepack string) (response string, txID string, err error)
	// Finalize completes the negotiation and broadcasts the transaction.
	Finalize(ctx context.Context, slatepack string) (response string, err error)
	// ReleaseLock unwinds a backend-side reservation made by Send/Invoice.
	ReleaseLock(ctx context.Context, txID string) error
	DecodeSlatepack(ctx context.Context, slatepack string) (*domain.Slate, error)
	QueryStatus(ctx context.Context, txID string) (domain.WalletTxStatus, domain.OperationKind, int64, error)
}

// Sender identifies the origin of an inbound chat event.
type Sender struct {
	UserID int64
	IsBot  bool
}

// Decision is a policy verdict on a requested operation. ApprovedAmount may
// differ from the request, e.g. a "max" withdrawal capped at spendable.
type Decision struct {
	Allowed        bool
	Reason         string // optional human-readable rejection
	ApprovedAmount int64
}

// AssignResult lets a policy override the engine's standard reply texts.
// Empty fields fall back to the defaults; Instructions may contain the
// {slatepack} placeholder.
type AssignResult struct {
	Instructions string
	Message      string
}

// Policy is the pluggable "personality" authorizing and recording financial
// operations. Assign/finalize/confirm/cancel methods own the matching
// ledger and registry mutations; on a non-nil error they guarantee no
// partial application. Rejections are expressed through Decision or the
// POL_* error codes, infrastructure faults through everything else.
type Policy interface {
	CanDeposit(ctx context.Context, userID int64, amount int64) (Decision, error)
	// CanWithdraw treats max=true as "everything spendable"; amount is
	// ignored in that case.
	CanWithdraw(ctx context.Context, userID int64, amount int64, max bool) (Decision, error)

	// AssignDepositTx reserves amount in awaiting_finalization and
	// registers txID. AssignWithdrawTx moves amount spendable -> locked.
	AssignDepositTx(ctx context.Context, userID int64, amount int64, txID string) (*AssignResult, error)
	AssignWithdrawTx(ctx context.Context, userID int64, amount int64, txID string) (*AssignResult, error)

	// ShouldFinalize*Tx gate the second protocol round. The default
	// approves iff the id is known to the registry.
	ShouldFinalizeDepositTx(ctx context.Context, txID string) (Decision, error)
	ShouldFinalizeWithdrawTx(ctx context.Context, txID string) (Decision, error)

	// FinalizeDepositTx moves awaiting_finalization -> awaiting_confirmation.
	// FinalizeWithdrawTx is a no-op on balances; locking already happened.
	// The returned message, when non-empty, replaces the standard reply.
	FinalizeDepositTx(ctx context.Context, txID string) (string, error)
	FinalizeWithdrawTx(ctx context.Context, txID string) (string, error)

	// Confirm/Cancel are invoked only by the reconciliation sweep and
	// unassign the transaction from the registry.
	ConfirmDepositTx(ctx context.Context, txID string, amount int64) error
	ConfirmWithdrawTx(ctx context.Context, txID string, amount int64) error
	CancelDepositTx(ctx context.Context, txID string, amount int64) error
	CancelWithdrawTx(ctx context.Context, txID string, amount int64) error

	// EULA consent; denial is recorded but only blocks what the policy
	// chooses to block.
	ShouldSeeEULA(ctx context.Context, userID int64) (needsConsent bool, text string, version string, err error)
	ApprovedEULA(ctx context.Context, userID int64, version string) error
	DeniedEULA(ctx context.Context, userID int64, version string) error

	// ShouldIgnore is the early veto, e.g. for bot-originated senders.
	ShouldIgnore(ctx context.Context, sender Sender) (bool, string, error)
}

// Accounting drives the periodic per-account review: free-threshold
// warnings, custody fees, and inactivity eviction. Implemented by policies
// that bill; the sweep skips accounts whose review returns an empty
// notification.
type Accounting interface {
	ReviewAccount(ctx context.Context, account domain.Account, now time.Time) (notification string, err error)
}

// Notifier delivers scheduler-originated messages to a user's private
// channel. The chat transport implementing it is outside this system.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// SweepMarkStore guards the transaction sweep against double-applying a
// terminal status when ticks overlap.
type SweepMarkStore interface {
	// CheckAndSet atomically marks txID as handled. Returns true when the
	// mark is new, false when a previous sweep already claimed it.
	CheckAndSet(ctx context.Context, txID string, ttl time.Duration) (bool, error)
}

// WarningStore tracks the once-per-billing-period free-balance warnings.
type WarningStore interface {
	// WarnedAt returns when the user was last warned, ok=false if never
	// within the retention window.
	WarnedAt(ctx context.Context, userID int64) (time.Time, bool, error)
	MarkWarned(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error
	Clear(ctx context.Context, userID int64) error
}

// TokenService handles JWT token operations for the ops API.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (string, error)
}

// HashService handles operator password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}
