package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	UsageKindMessage     = "message"
	UsageKindTranslation = "translation"

	// usageKeyTTL keeps stale daily counters from accumulating forever.
	usageKeyTTL = 48 * time.Hour
)

// UsageService keeps per-user per-day counters in Redis via atomic INCR.
// Every call is best-effort; the caller logs failures and moves on.
type UsageService struct {
	rdb *redis.Client
}

func NewUsageService(rdb *redis.Client) *UsageService {
	return &UsageService{rdb: rdb}
}

func usageKey(userID uuid.UUID, kind string, day time.Time) string {
	return fmt.Sprintf("usage:%s:%s:%s", userID, kind, day.UTC().Format("2006-01-02"))
}

func (s *UsageService) IncrementDaily(ctx context.Context, userID uuid.UUID, kind string) error {
	key := usageKey(userID, kind, time.Now())
	if err := s.rdb.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to increment usage counter %s: %w", key, err)
	}
	// Expiry refresh is part of the same best-effort contract.
	return s.rdb.Expire(ctx, key, usageKeyTTL).Err()
}

// GetDaily reads back today's counter, returning 0 on a missing key.
func (s *UsageService) GetDaily(ctx context.Context, userID uuid.UUID, kind string) (int64, error) {
	n, err := s.rdb.Get(ctx, usageKey(userID, kind, time.Now())).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// TryLock implements the Locker interface with SET NX: true means this
// caller holds the lock for ttl.
func (s *UsageService) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, 1, ttl).Result()
}
