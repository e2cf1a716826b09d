package filestore

// Package filestore is a single-file SessionStore for single-user
// deployments (desktop shell, dedicated kiosk). The three persisted
// entries live in one JSON document so a rename makes the write atomic.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	"github.com/vidaplena/portal-session/internal/ports"
)

// record mirrors the persisted layout: credential token, serialized user
// snapshot, and the authenticated flag as a boolean string.
type record struct {
	Token         string `json:"token"`
	User          string `json:"user"`
	Authenticated string `json:"authenticated"`
}

// Store persists the session to a single JSON file.
type Store struct {
	path string
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore creates a file-backed session store at path. The parent
// directory is created if missing.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("session file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Save writes all three fields together via a temp-file rename so no
// reader can observe a token without its matching user snapshot.
func (s *Store) Save(_ context.Context, token string, user *domainsession.User) error {
	if token == "" || user == nil {
		return errors.New("refusing to persist a partial session")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}
	data, err := json.Marshal(record{
		Token:         token,
		User:          string(userJSON),
		Authenticated: "true",
	})
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit session file: %w", err)
	}
	return nil
}

// Load reads the stored session. Missing, malformed, or partial data
// yields an empty StoredSession rather than an error; the read path must
// never crash the UI over a corrupt file.
func (s *Store) Load(_ context.Context) (ports.StoredSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.StoredSession{}, nil
		}
		return ports.StoredSession{}, fmt.Errorf("read session file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return ports.StoredSession{}, nil
	}
	if rec.Token == "" || rec.User == "" || rec.Authenticated != "true" {
		return ports.StoredSession{}, nil
	}

	var user domainsession.User
	if err := json.Unmarshal([]byte(rec.User), &user); err != nil {
		return ports.StoredSession{}, nil
	}

	return ports.StoredSession{Token: rec.Token, User: &user}, nil
}

// Clear removes the session file. Clearing an already-empty store is a no-op.
func (s *Store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
