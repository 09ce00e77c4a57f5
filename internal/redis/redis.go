package redis

import (
	"context"
	"sync"
	"time"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	client *redisv9.Client
	once   sync.Once
)

// GetClient returns the shared client, or nil when redis.addr is empty.
func GetClient() *redisv9.Client {
	once.Do(func() {
		addr := config.GetRedisAddr()
		if addr == "" {
			return
		}
		client = redisv9.NewClient(&redisv9.Options{
			Addr:        addr,
			DialTimeout: 2 * time.Second,
			ReadTimeout: time.Second,
		})
	})
	return client
}

// Ping reports whether the configured server answers.
func Ping(ctx context.Context) error {
	c := GetClient()
	if c == nil {
		return ErrNotConfigured
	}
	return c.Ping(ctx).Err()
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	if client != nil {
		_ = client.Close()
	}
	once = sync.Once{}
	client = nil
}
