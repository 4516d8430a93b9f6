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

const registryColumns = `id, user_id, kind, amount, status, created_at, updated_at`

// RegistryRepo implements ports.RegistryRepository. One row serves both the
// aggregate view and the per-user view, so assignment and unassignment hit
// both atomically.
type RegistryRepo struct {
	pool Pool
}

// NewRegistryRepo creates a new RegistryRepo.
func NewRegistryRepo(pool Pool) *RegistryRepo {
	return &RegistryRepo{pool: pool}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Assign inserts a registry entry within a transaction. A duplicate id
// surfaces as REG_001 and leaves the registry unchanged.
func (r *RegistryRepo) Assign(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	query := `INSERT INTO registry (id, user_id, kind, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		txn.ID, txn.UserID, txn.Kind, txn.Amount, txn.Status, txn.CreatedAt, txn.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.ErrAlreadyAssigned(txn.ID)
		}
		return fmt.Errorf("insert registry entry: %w", err)
	}
	return nil
}

// Unassign removes a registry entry within a transaction.
func (r *RegistryRepo) Unassign(ctx context.Context, tx pgx.Tx, txID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM registry WHERE id = $1`, txID)
	if err != nil {
		return fmt.Errorf("delete registry entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrUnknownTransaction(txID)
	}
	return nil
}

// Get fetches a registry entry. Returns nil, nil when absent.
func (r *RegistryRepo) Get(ctx context.Context, txID string) (*domain.Transaction, error) {
	query := `SELECT ` + registryColumns + ` FROM registry WHERE id = $1`

	t, err := scanTransaction(r.pool.QueryRow(ctx, query, txID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registry entry: %w", err)
	}
	return t, nil
}

// GetForUpdate fetches a registry entry with pessimistic locking.
// This MUST be called within a transaction.
func (r *RegistryRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, txID string) (*domain.Transaction, error) {
	query := `SELECT ` + registryColumns + ` FROM registry WHERE id = $1 FOR UPDATE`

	t, err := scanTransaction(tx.QueryRow(ctx, query, txID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registry entry for update: %w", err)
	}
	return t, nil
}

// SetStatus advances the lifecycle state of an open transaction.
func (r *RegistryRepo) SetStatus(ctx context.Context, tx pgx.Tx, txID string, status domain.TransactionStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE registry SET status = $1, updated_at = NOW() WHERE id = $2`, status, txID)
	if err != nil {
		return fmt.Errorf("update registry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrUnknownTransaction(txID)
	}
	return nil
}

// ListOpen returns every registered transaction, oldest first, for the
// reconciliation sweep.
func (r *RegistryRepo) ListOpen(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + registryColumns + ` FROM registry ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list registry: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registry entry: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry: %w", err)
	}
	return txns, nil
}

// CountByUser returns how many open transactions a user owns.
func (r *RegistryRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registry WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count registry by user: %w", err)
	}
	return n, nil
}

// CountOpen returns the total number of open transactions.
func (r *RegistryRepo) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registry`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registry: %w", err)
	}
	return n, nil
}
