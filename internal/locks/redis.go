package locks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisLocker serializes work on a key across processes sharing one Redis.
// It is best effort: when the lock cannot be obtained the caller proceeds and
// relies on the database row lock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewRedisLocker wraps an existing Redis client.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		prefix: "lock:cheque_book:",
		logger: logger,
	}
}

var _ Locker = (*RedisLocker)(nil)

// Lock retries with a linear backoff for up to the lock TTL.
func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	backoff := 50 * time.Millisecond
	retries := int(r.ttl / backoff)
	lock, err := r.client.Obtain(ctx, r.prefix+key, r.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(backoff), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		r.logger.Warn("could not obtain redis lock; proceeding without redis lock", slog.String("key", key))
		return func() {}, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("error obtaining redis lock; proceeding without redis lock",
			slog.String("key", key), slog.String("error", err.Error()))
		return func() {}, nil
	}

	return func() {
		// release on a fresh context so a cancelled request still frees the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.logger.Warn("failed to release redis lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}, nil
}
