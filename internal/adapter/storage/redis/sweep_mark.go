package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SweepMarkStore implements ports.SweepMarkStore using Redis SET NX. A mark
// claims a transaction's terminal status for one sweep pass so overlapping
// ticks cannot apply it twice.
type SweepMarkStore struct {
	client *goredis.Client
	prefix string
}

// NewSweepMarkStore creates a new Redis-backed sweep mark store.
func NewSweepMarkStore(client *goredis.Client) *SweepMarkStore {
	return &SweepMarkStore{
		client: client,
		prefix: "sweepmark:",
	}
}

// CheckAndSet atomically marks txID as claimed. Returns true when the mark
// is new, false when a previous sweep already claimed it.
func (s *SweepMarkStore) CheckAndSet(ctx context.Context, txID string, ttl time.Duration) (bool, error) {
	key := s.prefix + txID
	result, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists, another sweep pass claimed it
			return false, nil
		}
		return false, fmt.Errorf("redis sweep mark check: %w", err)
	}
	return result == "OK", nil
}
