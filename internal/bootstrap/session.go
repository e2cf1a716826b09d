package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vidaplena/portal-session/config"
	"github.com/vidaplena/portal-session/internal/adapters/filestore"
	"github.com/vidaplena/portal-session/internal/adapters/pgstore"
	"github.com/vidaplena/portal-session/internal/adapters/portalapi"
	"github.com/vidaplena/portal-session/internal/adapters/redisstore"
	"github.com/vidaplena/portal-session/internal/ports"
	"github.com/vidaplena/portal-session/internal/service"
)

// SessionRuntime bundles the wired session core and the resources behind
// it. Close releases backend connections.
type SessionRuntime struct {
	Manager *service.Manager
	Store   ports.SessionStore
	API     *portalapi.Client

	closers []func()
}

// Close releases all resources held by the runtime.
func (r *SessionRuntime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// BuildSession wires the session manager against the configured storage
// backend and the portal API.
func BuildSession(cfg config.AppConfig, logger *slog.Logger) (*SessionRuntime, error) {
	api, err := portalapi.NewClient(portalapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build portal api client: %w", err)
	}

	runtime := &SessionRuntime{API: api}

	store, err := buildStore(cfg, logger, runtime)
	if err != nil {
		runtime.Close()
		return nil, err
	}
	runtime.Store = store

	manager, err := service.NewManager(service.ManagerOptions{
		Store:  store,
		API:    api,
		Logger: logger,
		Policy: mapValidationPolicy(cfg.Session.ValidationFailurePolicy),
	})
	if err != nil {
		runtime.Close()
		return nil, fmt.Errorf("build session manager: %w", err)
	}
	runtime.Manager = manager

	logger.Info("session core wired",
		"backend", cfg.Storage.Backend,
		"client_id", cfg.Storage.ClientID,
		"validation_failure_policy", cfg.Session.ValidationFailurePolicy,
	)

	return runtime, nil
}

func buildStore(cfg config.AppConfig, logger *slog.Logger, runtime *SessionRuntime) (ports.SessionStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		store, err := filestore.NewStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, fmt.Errorf("build file session store: %w", err)
		}
		return store, nil

	case config.BackendRedis:
		client, err := ConnectRedis(DatabaseConfig{
			RedisConfig: cfg.Storage.Redis,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		runtime.closers = append(runtime.closers, func() {
			if closeErr := client.Close(); closeErr != nil {
				logger.Warn("close redis client", "error", closeErr)
			}
		})
		store, err := redisstore.NewStore(client, cfg.Storage.ClientID)
		if err != nil {
			return nil, fmt.Errorf("build redis session store: %w", err)
		}
		return store, nil

	case config.BackendPostgres:
		pool, err := ConnectDB(DatabaseConfig{
			DBConfig: cfg.Storage.Postgres,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		runtime.closers = append(runtime.closers, pool.Close)
		store, err := pgstore.NewStore(pool, cfg.Storage.ClientID)
		if err != nil {
			return nil, fmt.Errorf("build postgres session store: %w", err)
		}
		if cfg.Storage.Postgres.EnsureSchemaOnStart {
			if err := store.EnsureSchema(context.Background()); err != nil {
				return nil, fmt.Errorf("ensure session schema: %w", err)
			}
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Storage.Backend)
	}
}

func mapValidationPolicy(p config.ValidationFailurePolicy) service.ValidationFailurePolicy {
	if p == config.PolicyInvalidate {
		return service.PolicyInvalidateOnFailure
	}
	return service.PolicyKeepOnFailure
}
