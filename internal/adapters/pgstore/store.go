package pgstore

// Package pgstore is a Postgres-backed SessionStore for BFF deployments,
// where the session core runs server-side in front of the portal API and
// sessions outlive any single process. One row per client keeps the
// three persisted fields atomic.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	apperrors "github.com/vidaplena/portal-session/internal/errors"
	"github.com/vidaplena/portal-session/internal/ports"
)

// Store persists the session as a single row keyed by client ID.
type Store struct {
	pool     *pgxpool.Pool
	clientID string
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore creates a Postgres-backed session store for the given client ID.
func NewStore(pool *pgxpool.Pool, clientID string) (*Store, error) {
	if pool == nil {
		return nil, errors.New("pgx pool is required")
	}
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}
	return &Store{pool: pool, clientID: clientID}, nil
}

// EnsureSchema creates the session table when missing. Deployments that
// manage schema out of band can skip this.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS portal_sessions (
			client_id     TEXT PRIMARY KEY,
			token         TEXT NOT NULL,
			user_snapshot TEXT NOT NULL,
			authenticated TEXT NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return apperrors.MapDBError(fmt.Errorf("ensure session schema: %w", err))
	}
	return nil
}

// Save upserts the row so all three fields change together.
func (s *Store) Save(ctx context.Context, token string, user *domainsession.User) error {
	if token == "" || user == nil {
		return errors.New("refusing to persist a partial session")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}

	const query = `
		INSERT INTO portal_sessions (client_id, token, user_snapshot, authenticated, updated_at)
		VALUES ($1, $2, $3, 'true', now())
		ON CONFLICT (client_id) DO UPDATE
		SET token = EXCLUDED.token,
		    user_snapshot = EXCLUDED.user_snapshot,
		    authenticated = EXCLUDED.authenticated,
		    updated_at = now()`
	if _, err := s.pool.Exec(ctx, query, s.clientID, token, string(data)); err != nil {
		return apperrors.MapDBError(fmt.Errorf("save session row: %w", err))
	}
	return nil
}

// Load reads the stored session. A missing row or malformed snapshot
// yields an unusable StoredSession; only infrastructure failures error.
func (s *Store) Load(ctx context.Context) (ports.StoredSession, error) {
	const query = `
		SELECT token, user_snapshot, authenticated
		FROM portal_sessions
		WHERE client_id = $1`

	var token, userJSON, flag string
	err := s.pool.QueryRow(ctx, query, s.clientID).Scan(&token, &userJSON, &flag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.StoredSession{}, nil
		}
		return ports.StoredSession{}, apperrors.MapDBError(fmt.Errorf("load session row: %w", err))
	}

	if token == "" || userJSON == "" || flag != "true" {
		return ports.StoredSession{}, nil
	}

	var user domainsession.User
	if unmarshalErr := json.Unmarshal([]byte(userJSON), &user); unmarshalErr != nil {
		return ports.StoredSession{}, nil
	}

	return ports.StoredSession{Token: token, User: &user}, nil
}

// Clear deletes the row. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM portal_sessions WHERE client_id = $1", s.clientID); err != nil {
		return apperrors.MapDBError(fmt.Errorf("clear session row: %w", err))
	}
	return nil
}
