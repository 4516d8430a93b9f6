package domain

import (
	"time"
)

// Balance holds a user's custodial funds split into four buckets.
// Every bucket is denominated in nanogrin and is never negative.
type Balance struct {
	Spendable            int64 `json:"spendable"`
	AwaitingConfirmation int64 `json:"awaiting_confirmation"`
	AwaitingFinalization int64 `json:"awaiting_finalization"`
	Locked               int64 `json:"locked"`
}

// Total returns the full custodial value owned by the user. It changes only
// when a transaction opens (deposit adds, withdrawal subtracts) and when a
// cancellation reverses an open; confirmations move value between buckets.
func (b Balance) Total() int64 {
	return b.Spendable + b.AwaitingConfirmation + b.AwaitingFinalization + b.Locked
}

// IsZero reports whether all four buckets are empty.
func (b Balance) IsZero() bool {
	return b.Spendable == 0 && b.AwaitingConfirmation == 0 &&
		b.AwaitingFinalization == 0 && b.Locked == 0
}

// BalanceDelta is a signed adjustment applied atomically to all four buckets.
// Bucket-to-bucket transfers must sum to zero; only opening or reversing a
// transaction may change the total.
type BalanceDelta struct {
	Spendable            int64
	AwaitingConfirmation int64
	AwaitingFinalization int64
	Locked               int64
}

// Sum returns the net change in total custodial value the delta represents.
func (d BalanceDelta) Sum() int64 {
	return d.Spendable + d.AwaitingConfirmation + d.AwaitingFinalization + d.Locked
}

// Apply returns the balance after applying the delta. The second return is
// false when any resulting bucket would go negative; the receiver is left
// usable and unchanged in that case so callers can abort the whole operation.
func (b Balance) Apply(d BalanceDelta) (Balance, bool) {
	next := Balance{
		Spendable:            b.Spendable + d.Spendable,
		AwaitingConfirmation: b.AwaitingConfirmation + d.AwaitingConfirmation,
		AwaitingFinalization: b.AwaitingFinalization + d.AwaitingFinalization,
		Locked:               b.Locked + d.Locked,
	}
	if next.Spendable < 0 || next.AwaitingConfirmation < 0 ||
		next.AwaitingFinalization < 0 || next.Locked < 0 {
		return b, false
	}
	return next, true
}

// Account is a user's persisted ledger record.
type Account struct {
	UserID       int64     `json:"user_id"`
	Balance      Balance   `json:"balance"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
