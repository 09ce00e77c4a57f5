package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuota(t *testing.T, limit int64) (*DailyQuota, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	q := NewDailyQuota(c, limit)
	q.now = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }
	return q, mr
}

func TestDailyQuota_AllowsUpToLimit(t *testing.T) {
	q, _ := newTestQuota(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Acquire(ctx), "call %d", i+1)
	}
	assert.ErrorIs(t, q.Acquire(ctx), ErrQuotaExceeded)

	used, err := q.Used(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), used)
}

func TestDailyQuota_KeyedByUTCDay(t *testing.T) {
	q, mr := newTestQuota(t, 1)
	ctx := context.Background()

	require.NoError(t, q.Acquire(ctx))
	assert.True(t, mr.Exists("geocode:quota:2026-10-16"))
	assert.Equal(t, quotaTTL, mr.TTL("geocode:quota:2026-10-16"))

	q.now = func() time.Time { return time.Date(2026, 10, 17, 0, 5, 0, 0, time.UTC) }
	assert.NoError(t, q.Acquire(ctx), "a new day starts a new counter")
}

func TestDailyQuota_CounterExpires(t *testing.T) {
	q, mr := newTestQuota(t, 1)
	ctx := context.Background()

	require.NoError(t, q.Acquire(ctx))
	mr.FastForward(quotaTTL + time.Second)

	used, err := q.Used(ctx)
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestDailyQuota_ServerDown(t *testing.T) {
	q, mr := newTestQuota(t, 1)
	mr.Close()

	err := q.Acquire(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
}

func TestNewDailyQuotaFromConfig_DisabledUnderTest(t *testing.T) {
	// config_test.yaml sets opencage.daily_quota to 0.
	assert.Nil(t, NewDailyQuotaFromConfig())
}
