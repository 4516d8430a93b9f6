package ports

import (
	"context"

	"github.com/grinventions/slateboy/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// LedgerRepository persists per-user balance records. Methods accepting
// pgx.Tx are used inside transaction blocks for pessimistic locking; one
// database transaction spans the balance and registry mutations of a single
// protocol step so they commit or roll back together.
type LedgerRepository interface {
	// Initialize creates the zero-balance record, failing with LED_003 if
	// one already exists.
	Initialize(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, userID int64) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, userID int64, balance domain.Balance) error
	// Touch bumps the user's last-activity timestamp.
	Touch(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]domain.Account, error)
	Delete(ctx context.Context, tx pgx.Tx, userID int64) error
	Count(ctx context.Context) (int64, error)
}

// RegistryRepository persists the transaction registry. The single row holds
// both the aggregate view (all open transactions) and the per-user view
// (rows filtered by user id), so assign/unassign update both atomically.
type RegistryRepository interface {
	// Assign records a new transaction, failing with REG_001 when the id
	// is already present.
	Assign(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	// Unassign removes a transaction, failing with REG_002 when absent.
	Unassign(ctx context.Context, tx pgx.Tx, txID string) error
	Get(ctx context.Context, txID string) (*domain.Transaction, error)
	// GetForUpdate fetches a transaction with pessimistic locking, so the
	// status read and the balance mutation it selects commit together.
	GetForUpdate(ctx context.Context, tx pgx.Tx, txID string) (*domain.Transaction, error)
	SetStatus(ctx context.Context, tx pgx.Tx, txID string, status domain.TransactionStatus) error
	ListOpen(ctx context.Context) ([]domain.Transaction, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	CountOpen(ctx context.Context) (int64, error)
}

// ConsentRepository persists terms-of-service decisions.
type ConsentRepository interface {
	Get(ctx context.Context, userID int64) (*domain.Consent, error)
	SetApproved(ctx context.Context, userID int64, version string) error
	SetDenied(ctx context.Context, userID int64, version string) error
	Delete(ctx context.Context, tx pgx.Tx, userID int64) error
}

// BankRepository owns cross-user aggregate state: the custodial-fee counter.
type BankRepository interface {
	AddCharged(ctx context.Context, tx pgx.Tx, amount int64) error
	ChargedTotal(ctx context.Context) (int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
