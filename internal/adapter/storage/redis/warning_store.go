package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// WarningStore implements ports.WarningStore. It remembers when a user was
// last warned about exceeding the free-balance ceiling; the TTL bounds the
// retention to one billing period.
type WarningStore struct {
	client *goredis.Client
	prefix string
}

// NewWarningStore creates a new Redis-backed warning store.
func NewWarningStore(client *goredis.Client) *WarningStore {
	return &WarningStore{
		client: client,
		prefix: "billwarn:",
	}
}

func (s *WarningStore) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}

// WarnedAt returns when the user was last warned; ok=false if never within
// the retention window.
func (s *WarningStore) WarnedAt(ctx context.Context, userID int64) (time.Time, bool, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("redis warning get: %w", err)
	}
	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis warning parse: %w", err)
	}
	return time.Unix(unix, 0).UTC(), true, nil
}

// MarkWarned records a warning timestamp with the given retention.
func (s *WarningStore) MarkWarned(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(userID), at.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("redis warning set: %w", err)
	}
	return nil
}

// Clear drops the warning mark, e.g. after the fee was charged.
func (s *WarningStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis warning clear: %w", err)
	}
	return nil
}
