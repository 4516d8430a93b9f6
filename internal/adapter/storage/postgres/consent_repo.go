package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/grinventions/slateboy/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ConsentRepo implements ports.ConsentRepository.
type ConsentRepo struct {
	pool Pool
}

// NewConsentRepo creates a new ConsentRepo.
func NewConsentRepo(pool Pool) *ConsentRepo {
	return &ConsentRepo{pool: pool}
}

// Get fetches a consent record. Returns nil, nil when the user has never
// been shown the terms.
func (r *ConsentRepo) Get(ctx context.Context, userID int64) (*domain.Consent, error) {
	query := `SELECT user_id, approved_version, denied_version, denied_at, created_at, updated_at
		FROM consents WHERE user_id = $1`

	c := &domain.Consent{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&c.UserID, &c.ApprovedVersion, &c.DeniedVersion, &c.DeniedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consent: %w", err)
	}
	return c, nil
}

// SetApproved upserts an approval for the given version.
func (r *ConsentRepo) SetApproved(ctx context.Context, userID int64, version string) error {
	query := `INSERT INTO consents (user_id, approved_version, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET approved_version = $2, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, userID, version); err != nil {
		return fmt.Errorf("set consent approved: %w", err)
	}
	return nil
}

// SetDenied upserts a denial for the given version. Denial never clears a
// previous approval of an older version.
func (r *ConsentRepo) SetDenied(ctx context.Context, userID int64, version string) error {
	query := `INSERT INTO consents (user_id, denied_version, denied_at, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET denied_version = $2, denied_at = NOW(), updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, userID, version); err != nil {
		return fmt.Errorf("set consent denied: %w", err)
	}
	return nil
}

// Delete removes a consent record within a transaction. Missing records are
// fine; eviction must be idempotent.
func (r *ConsentRepo) Delete(ctx context.Context, tx pgx.Tx, userID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM consents WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}
	return nil
}
