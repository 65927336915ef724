package session

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/testutil"
)

func exerciseStore(t *testing.T, store Store, userID string) {
	ctx := context.Background()
	jti := uuid.NewString()

	revoked, err := store.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, jti, userID, time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, jti, userID, time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, store.CleanupExpired(ctx))
	revoked, err = store.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked, "unexpired entries survive cleanup")
}

func TestBoltRepo(t *testing.T) {
	db := testutil.OpenBolt(t)
	repo := NewBoltRepo(db)
	exerciseStore(t, repo, "u1")

	t.Run("expired entries", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, repo.Revoke(ctx, "old", "u1", time.Now().Add(time.Minute)))

		repo.now = func() time.Time { return time.Now().Add(time.Hour) }
		revoked, err := repo.IsRevoked(ctx, "old")
		require.NoError(t, err)
		assert.False(t, revoked)

		require.NoError(t, repo.CleanupExpired(ctx))
		repo.now = time.Now
		revoked, err = repo.IsRevoked(ctx, "old")
		require.NoError(t, err)
		assert.False(t, revoked, "cleanup removed the entry")
	})
}

func TestPostgresRepo(t *testing.T) {
	db := testutil.PostgresPool(t)
	exerciseStore(t, NewPostgresRepo(db, 3*time.Second), testutil.InsertPostgresUser(t, db))
}

// redisAddr returns BOOKSTORE_TEST_REDIS_ADDR, or starts a throwaway redis
// container. The test is skipped when neither is available.
func redisAddr(t *testing.T) string {
	t.Helper()
	if addr := os.Getenv("BOOKSTORE_TEST_REDIS_ADDR"); addr != "" {
		return addr
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Skipping test: cannot start dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Skipping test: cannot connect to docker: %v", err)
	}

	resource, err := pool.Run("redis", "7.2-alpine", nil)
	if err != nil {
		t.Skipf("Skipping test: cannot start redis: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purge redis container: %v", err)
		}
	})

	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))
	err = pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		return client.Ping(context.Background()).Err()
	})
	require.NoError(t, err)
	return addr
}

func TestRedisRepo(t *testing.T) {
	client, err := NewRedisClient(context.Background(), &redis.Options{Addr: redisAddr(t)})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	repo := NewRedisRepo(client)
	exerciseStore(t, repo, "u1")

	t.Run("key expires with the token", func(t *testing.T) {
		ctx := context.Background()
		jti := uuid.NewString()
		require.NoError(t, repo.Revoke(ctx, jti, "u1", time.Now().Add(time.Minute)))

		ttl, err := client.TTL(ctx, redisKeyPrefix+jti).Result()
		require.NoError(t, err)
		assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 5)
	})
}
