package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// TestRedisConfig locates the Redis used by tests that cannot start a container
type TestRedisConfig struct {
	Addr     string `env:"CRAFTSIM_TEST_REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"CRAFTSIM_TEST_REDIS_PASSWORD"`
	// DB 15 keeps test snapshots away from real ones
	DB int `env:"CRAFTSIM_TEST_REDIS_DB" envDefault:"15"`
}

// DefaultTestRedisConfig reads the test Redis location from the environment
func DefaultTestRedisConfig(t *testing.T) *TestRedisConfig {
	t.Helper()

	cfg := &TestRedisConfig{}
	require.NoError(t, env.Parse(cfg), "invalid test redis environment")
	return cfg
}

// CreateTestRedisClient connects to Redis, flushes the test DB and registers
// cleanup. The test is skipped when Redis does not answer.
func CreateTestRedisClient(t *testing.T, cfg *TestRedisConfig) redis.UniversalClient {
	t.Helper()
	if cfg == nil {
		cfg = DefaultTestRedisConfig(t)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", cfg.Addr, err)
	}
	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush test redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

// CreateTestRedisClientOrSkip connects with the environment's test config
func CreateTestRedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()
	return CreateTestRedisClient(t, nil)
}
