package redisstore

// Package redisstore is a Redis-backed SessionStore for shared clinic
// kiosks, where several portal shells on one terminal share a session.
// The three persisted entries are separate keys written in one MULTI/EXEC
// transaction so readers never see a token without its user snapshot.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	"github.com/vidaplena/portal-session/internal/ports"
)

const defaultPrefix = "portal:session:"

// Store persists the session under three keys scoped by a client ID.
type Store struct {
	client   redis.UniversalClient
	prefix   string
	clientID string
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore creates a Redis-backed session store for the given client ID.
func NewStore(client redis.UniversalClient, clientID string) (*Store, error) {
	return NewStoreWithPrefix(client, clientID, defaultPrefix)
}

// NewStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewStoreWithPrefix(client redis.UniversalClient, clientID, prefix string) (*Store, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}
	return &Store{client: client, prefix: prefix, clientID: clientID}, nil
}

func (s *Store) tokenKey() string { return s.prefix + s.clientID + ":token" }
func (s *Store) userKey() string  { return s.prefix + s.clientID + ":user" }
func (s *Store) flagKey() string  { return s.prefix + s.clientID + ":authenticated" }

// Save writes token, user snapshot, and the authenticated flag together.
func (s *Store) Save(ctx context.Context, token string, user *domainsession.User) error {
	if token == "" || user == nil {
		return errors.New("refusing to persist a partial session")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(), token, 0)
	pipe.Set(ctx, s.userKey(), string(data), 0)
	pipe.Set(ctx, s.flagKey(), "true", 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// Load reads the stored session. Missing or malformed entries yield an
// unusable StoredSession; only transport failures surface as errors.
func (s *Store) Load(ctx context.Context) (ports.StoredSession, error) {
	values, err := s.client.MGet(ctx, s.tokenKey(), s.userKey(), s.flagKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.StoredSession{}, nil
		}
		return ports.StoredSession{}, fmt.Errorf("redis load session: %w", err)
	}

	token, _ := values[0].(string)
	userJSON, _ := values[1].(string)
	flag, _ := values[2].(string)
	if token == "" || userJSON == "" || flag != "true" {
		return ports.StoredSession{}, nil
	}

	var user domainsession.User
	if unmarshalErr := json.Unmarshal([]byte(userJSON), &user); unmarshalErr != nil {
		// Corrupt snapshot reads as "no usable session", never a crash.
		return ports.StoredSession{}, nil
	}

	return ports.StoredSession{Token: token, User: &user}, nil
}

// Clear removes all three keys together. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.tokenKey(), s.userKey(), s.flagKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}
