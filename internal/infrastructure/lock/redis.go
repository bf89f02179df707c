// Package lock serialises import runs across processes through redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
)

const (
	DefaultKey = "lock:roster-import"

	retryBackoff = 500 * time.Millisecond
	retryLimit   = 10
)

// RedisRunLocker holds one redis key for the length of a run. The TTL bounds
// how long a crashed process can block later runs.
type RedisRunLocker struct {
	locker *redislock.Client
	key    string
	ttl    time.Duration
	logger logrus.FieldLogger
}

var _ app.RunLocker = (*RedisRunLocker)(nil)

func NewRedisRunLocker(client redislock.RedisClient, key string, ttl time.Duration, logger logrus.FieldLogger) *RedisRunLocker {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRunLocker{
		locker: redislock.New(client),
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

func (l *RedisRunLocker) Lock(ctx context.Context) (func(), error) {
	lock, err := l.locker.Obtain(ctx, l.key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryBackoff), retryLimit),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, app.ErrRunLocked
	}
	if err != nil {
		return nil, fmt.Errorf("obtain run lock %s: %w", l.key, err)
	}

	return func() {
		// Release even when the request context is already gone.
		err := lock.Release(context.WithoutCancel(ctx))
		if err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.WithError(err).WithField("key", l.key).Warn("releasing run lock failed")
		}
	}, nil
}
