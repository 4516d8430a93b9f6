package service

import "sync"

// UserLocks serializes per-user work so two chat events for the same
// account never interleave between the policy check and the ledger
// mutation. The reconciliation sweeps take the same lock before resolving
// a user's transaction, so a sweep step and a protocol round for one user
// are mutually exclusive. Database row locks still guard cross-process
// races; this keeps the wallet calls of one user ordered too.
type UserLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewUserLocks creates an empty lock table. One instance is shared between
// the engine and the scheduler.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the user's mutex and returns the release function.
func (u *UserLocks) Lock(userID int64) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}
