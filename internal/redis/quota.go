package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	ErrQuotaExceeded = errors.New("daily geocoding quota exceeded")
	ErrNotConfigured = errors.New("redis address not configured")
)

const (
	quotaKeyPrefix = "geocode:quota:"
	// Counters outlive their UTC day slightly so late increments still expire.
	quotaTTL = 25 * time.Hour
)

// Counter is the part of the redis client the quota needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redisv9.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redisv9.BoolCmd
	Get(ctx context.Context, key string) *redisv9.StringCmd
}

// DailyQuota counts geocoding calls per UTC day across every process sharing the redis server.
type DailyQuota struct {
	client Counter
	limit  int64
	now    func() time.Time
}

func NewDailyQuota(client Counter, limit int64) *DailyQuota {
	return &DailyQuota{
		client: client,
		limit:  limit,
		now:    time.Now,
	}
}

// NewDailyQuotaFromConfig wires the shared client with opencage.daily_quota.
// It returns nil when either is missing, which disables the guard.
func NewDailyQuotaFromConfig() *DailyQuota {
	limit := config.GetGeocodingDailyQuota()
	if limit <= 0 {
		return nil
	}
	c := GetClient()
	if c == nil {
		return nil
	}
	return NewDailyQuota(c, limit)
}

func (q *DailyQuota) key() string {
	return quotaKeyPrefix + q.now().UTC().Format("2006-01-02")
}

// Acquire reserves one call. It returns ErrQuotaExceeded once the day's limit is spent;
// any other error means the counter itself could not be reached.
func (q *DailyQuota) Acquire(ctx context.Context) error {
	key := q.key()
	n, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("incrementing %s: %w", key, err)
	}
	if n == 1 {
		if err := q.client.Expire(ctx, key, quotaTTL).Err(); err != nil {
			config.GetLogger().Warnw("Could not set quota expiry", "key", key, "error", err)
		}
	}
	if n > q.limit {
		return ErrQuotaExceeded
	}
	return nil
}

// Used returns how many calls were reserved today.
func (q *DailyQuota) Used(ctx context.Context) (int64, error) {
	n, err := q.client.Get(ctx, q.key()).Int64()
	if errors.Is(err, redisv9.Nil) {
		return 0, nil
	}
	return n, err
}

func (q *DailyQuota) Limit() int64 {
	return q.limit
}
