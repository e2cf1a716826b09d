package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StorageBackend selects which session store implementation to use.
type StorageBackend string

const (
	// BackendFile persists the session to a local file (single-user
	// desktop or kiosk installs).
	BackendFile StorageBackend = "file"
	// BackendRedis persists the session in Redis (shared clinic kiosks).
	BackendRedis StorageBackend = "redis"
	// BackendPostgres persists the session in Postgres (BFF deployments).
	BackendPostgres StorageBackend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageBackend.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "redis", "postgres":
		*b = StorageBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageBackend: %q (valid options: file, redis, postgres)", v)
	}
}

// StorageConfig groups session storage configuration.
type StorageConfig struct {
	// Backend determines which session store to wire.
	Backend StorageBackend `env:"STORAGE_BACKEND" envDefault:"file"`

	// ClientID scopes the stored session in shared backends (redis,
	// postgres). Defaults to the hostname.
	ClientID string `env:"STORAGE_CLIENT_ID"`

	// FilePath is the session file location for the file backend.
	// Defaults to ~/.portal-session/session.json.
	FilePath string `env:"STORAGE_FILE_PATH"`

	// Redis configuration (used when Backend=redis).
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Postgres configuration (used when Backend=postgres).
	Postgres DBConfig `envPrefix:"DB_"`
}

// Sanitize applies guardrails to storage configuration values.
func (c *StorageConfig) Sanitize() {
	if c.ClientID == "" {
		if host, err := os.Hostname(); err == nil && host != "" {
			c.ClientID = host
		} else {
			c.ClientID = "portal-client"
		}
	}
	if c.FilePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.FilePath = filepath.Join(home, ".portal-session", "session.json")
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"portal"`
	Password string `env:"PASSWORD" envDefault:"portal"`
	Name     string `env:"NAME"     envDefault:"portal"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// EnsureSchemaOnStart controls whether the session table is created
	// automatically during startup.
	EnsureSchemaOnStart bool `env:"ENSURE_SCHEMA_ON_START" envDefault:"true"`
}

// DSN returns the connection string for the configured database.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
