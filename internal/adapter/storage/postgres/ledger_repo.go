package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const accountColumns = `user_id, spendable, awaiting_confirmation, awaiting_finalization, locked,
		last_activity, created_at, updated_at`

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.UserID,
		&a.Balance.Spendable, &a.Balance.AwaitingConfirmation,
		&a.Balance.AwaitingFinalization, &a.Balance.Locked,
		&a.LastActivity, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Initialize inserts the zero-balance record for a user.
func (r *LedgerRepo) Initialize(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (user_id, spendable, awaiting_confirmation, awaiting_finalization, locked,
		last_activity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.UserID,
		a.Balance.Spendable, a.Balance.AwaitingConfirmation,
		a.Balance.AwaitingFinalization, a.Balance.Locked,
		a.LastActivity, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.ErrLedgerExists(a.UserID)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Get fetches an account without locking. Returns nil, nil when the user
// has no ledger record yet.
func (r *LedgerRepo) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// GetForUpdate fetches an account with pessimistic locking.
// This MUST be called within a transaction.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 FOR UPDATE`

	a, err := scanAccount(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// UpdateBalance writes an already-validated balance within a transaction.
// Non-negativity is enforced in the domain before this is reached; the CHECK
// constraints on the table are the last line of defense.
func (r *LedgerRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, userID int64, b domain.Balance) error {
	query := `UPDATE accounts SET spendable = $1, awaiting_confirmation = $2,
		awaiting_finalization = $3, locked = $4, updated_at = NOW() WHERE user_id = $5`

	tag, err := tx.Exec(ctx, query,
		b.Spendable, b.AwaitingConfirmation, b.AwaitingFinalization, b.Locked, userID)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrLedgerNotInitialized(userID)
	}
	return nil
}

// Touch bumps the user's last-activity timestamp.
func (r *LedgerRepo) Touch(ctx context.Context, userID int64) error {
	query := `UPDATE accounts SET last_activity = NOW(), updated_at = NOW() WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("touch account: %w", err)
	}
	return nil
}

// List returns every account, ordered by user id for deterministic sweeps.
func (r *LedgerRepo) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY user_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// Delete removes an account within a transaction.
func (r *LedgerRepo) Delete(ctx context.Context, tx pgx.Tx, userID int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrLedgerNotInitialized(userID)
	}
	return nil
}

// Count returns the number of ledger records.
func (r *LedgerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}
