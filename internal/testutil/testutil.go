package testutil

// Package testutil provides shared helpers for integration tests that
// need real Redis or Postgres. Tests skip when the backing service is
// unavailable unless TEST_REQUIRE_INFRA is truthy (CI).

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of *testing.T and *testing.B the helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	Cleanup(func())
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}

func requireInfra() bool { return envBool("TEST_REQUIRE_INFRA") }

// SetupTestRedis returns a Redis client for tests, flushing the test DB.
// Skips the test when Redis is not reachable.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := net.JoinHostPort(
		getEnvOrDefault("TEST_REDIS_HOST", "localhost"),
		getEnvOrDefault("TEST_REDIS_PORT", "6379"),
	)
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   15, // dedicated test database
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if requireInfra() {
			t.Fatal("Test Redis not available:", err)
		}
		t.Skip("Test Redis not available:", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatal("Failed to flush test Redis database:", err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("test redis close failed: %v", err)
		}
	})
	return client
}

// TestDBConfig holds configuration for the test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from docker-compose test
// profile); CI environments set TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "portal"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "portal"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "portal"),
	}
}

func (c TestDBConfig) dsn() string {
	hostPort := net.JoinHostPort(c.Host, c.Port)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		c.User, c.Password, hostPort, c.DBName)
}

// SetupTestDB returns a pgx pool against the test database with the
// session schema applied and test rows removed. Skips the test when
// Postgres is not reachable.
func SetupTestDB(t TestingTB) *pgxpool.Pool {
	t.Helper()

	cfg := DefaultTestDBConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.dsn())
	if err != nil {
		if requireInfra() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		if requireInfra() {
			t.Fatal("Test database not available:", pingErr)
		}
		t.Skip("Test database not available:", pingErr)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS portal_sessions (
			client_id     TEXT PRIMARY KEY,
			token         TEXT NOT NULL,
			user_snapshot TEXT NOT NULL,
			authenticated TEXT NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, execErr := pool.Exec(ctx, schema); execErr != nil {
		pool.Close()
		t.Fatal("Failed to create session schema:", execErr)
	}

	if _, execErr := pool.Exec(ctx, "DELETE FROM portal_sessions WHERE client_id LIKE 'test-%'"); execErr != nil {
		pool.Close()
		t.Fatal("Failed to clean up session rows:", execErr)
	}

	t.Cleanup(pool.Close)
	return pool
}
