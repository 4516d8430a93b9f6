package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BankRepo implements ports.BankRepository. The bank_totals table holds a
// single row; the row lock serializes concurrent fee charges.
type BankRepo struct {
	pool Pool
}

// NewBankRepo creates a new BankRepo.
func NewBankRepo(pool Pool) *BankRepo {
	return &BankRepo{pool: pool}
}

// AddCharged adds a collected custodial fee to the aggregate counter.
func (r *BankRepo) AddCharged(ctx context.Context, tx pgx.Tx, amount int64) error {
	query := `UPDATE bank_totals SET charged_total = charged_total + $1, updated_at = NOW() WHERE id = 1`

	tag, err := tx.Exec(ctx, query, amount)
	if err != nil {
		return fmt.Errorf("add charged total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bank_totals row missing")
	}
	return nil
}

// ChargedTotal returns the total custodial fees collected so far.
func (r *BankRepo) ChargedTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT charged_total FROM bank_totals WHERE id = 1`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("get charged total: %w", err)
	}
	return total, nil
}
