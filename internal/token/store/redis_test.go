package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты Redis-хранилища.
//
// Запуск:
//
//	GO_TEST_INTEGRATION=1 go test ./internal/token/store -v -race -count=1

func startRedis(t *testing.T) (string, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")
	url := fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	return url, func() { _ = c.Terminate(context.Background()) }
}

func TestIntegration_Redis_Contract(t *testing.T) {
	url, cleanup := startRedis(t)
	defer cleanup()

	s, err := NewRedis(context.Background(), url, "test:")
	require.NoError(t, err)
	defer s.Close()

	runContract(t, s)
}

func TestIntegration_Redis_PrefixIsolation(t *testing.T) {
	url, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	a := NewRedisFromClient(rdb, "alice:")
	b := NewRedisFromClient(rdb, "")

	require.NoError(t, a.Set(ctx, "auth_token", "alice.token.sig"))

	_, ok, err := b.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.False(t, ok, "разные префиксы не пересекаются")

	raw, err := rdb.Get(ctx, "alice:auth_token").Result()
	require.NoError(t, err)
	require.Equal(t, "alice.token.sig", raw)

	ttl, err := rdb.TTL(ctx, "alice:auth_token").Result()
	require.NoError(t, err)
	require.Equal(t, time.Duration(-1), ttl, "ключ без TTL")
}

func TestNewRedis_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedis(context.Background(), "://bad", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "store.redis.NewRedis")
}
