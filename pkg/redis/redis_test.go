package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setup(t *testing.T) (Client, *redis.Client) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	ctx := context.Background()

	redisContainer, err := testRedis.Run(
		ctx,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})

	connStr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(connStr)
	require.NoError(t, err)

	conn := redis.NewClient(opt)
	require.NoError(t, conn.Ping(ctx).Err())
	t.Cleanup(func() { _ = conn.Close() })

	return NewWithClient(conn, "test"), conn
}

type featured struct {
	IDs   []string `json:"ids"`
	Limit int      `json:"limit"`
}

func TestClient(t *testing.T) {
	client, conn := setup(t)
	ctx := context.Background()

	t.Run("given a saved value should find it under the prefix", func(t *testing.T) {
		require.NoError(t, client.Save(ctx, "k1", "v1", time.Minute))

		got, err := client.Find(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "v1", got)

		raw, err := conn.Get(ctx, "test.k1").Result()
		require.NoError(t, err)
		assert.Equal(t, "v1", raw)
	})

	t.Run("given an object should round trip as json", func(t *testing.T) {
		in := featured{IDs: []string{"a", "b"}, Limit: 6}
		require.NoError(t, client.SaveObj(ctx, "catalog.featured.6", in, time.Minute))

		var out featured
		require.NoError(t, client.FindObj(ctx, "catalog.featured.6", &out))
		assert.Equal(t, in, out)
	})

	t.Run("given a missing key should return not found", func(t *testing.T) {
		_, err := client.Find(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("given a delete should remove the key", func(t *testing.T) {
		require.NoError(t, client.Save(ctx, "k2", "v2", time.Minute))
		require.NoError(t, client.Delete(ctx, "k2"))

		_, err := client.Find(ctx, "k2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("given a ttl should set expiry", func(t *testing.T) {
		require.NoError(t, client.Save(ctx, "k3", "v3", time.Hour))

		ttl, err := conn.TTL(ctx, "test.k3").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("given a live server should ping", func(t *testing.T) {
		assert.NoError(t, client.Ping(ctx))
	})
}
