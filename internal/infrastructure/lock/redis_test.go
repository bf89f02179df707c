package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/lock"
)

func TestRedisRunLockerIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	logger, hook := logtest.NewNullLogger()
	key := "lock:roster-import-test:" + uuid.NewString()
	first := lock.NewRedisRunLocker(client, key, time.Minute, logger)
	second := lock.NewRedisRunLocker(client, key, time.Minute, logger)

	unlock, err := first.Lock(context.Background())
	require.NoError(t, err)

	// Gives up after the bounded retries rather than waiting for the TTL.
	_, err = second.Lock(context.Background())
	require.ErrorIs(t, err, app.ErrRunLocked)

	unlock()

	unlock, err = second.Lock(context.Background())
	require.NoError(t, err)
	unlock()

	require.Empty(t, hook.AllEntries())
}
