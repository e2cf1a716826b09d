package session

// Package session contains simple hand-written test doubles for the
// session ports. These are lightweight and suitable for unit tests
// without codegen.

import (
	"context"
	"sync"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	apperrors "github.com/vidaplena/portal-session/internal/errors"
	"github.com/vidaplena/portal-session/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.PortalAPI    = (*MockPortalAPI)(nil)
)

// MemorySessionStore is an in-memory SessionStore that records its calls.
// Safe for concurrent use, since the manager persists from background
// goroutines.
type MemorySessionStore struct {
	mu sync.Mutex

	token string
	user  *domainsession.User

	SaveCalls  int
	ClearCalls int

	// SaveErr / LoadErr / ClearErr force the next call of that kind to fail.
	SaveErr  error
	LoadErr  error
	ClearErr error
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Seed pre-populates the store, simulating a previous run's session.
func (s *MemorySessionStore) Seed(token string, user *domainsession.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *MemorySessionStore) Save(_ context.Context, token string, user *domainsession.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if token == "" || user == nil {
		return apperrors.Internal("refusing to persist a partial session")
	}
	u := user.Clone()
	s.token = token
	s.user = &u
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context) (ports.StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return ports.StoredSession{}, s.LoadErr
	}
	if s.token == "" || s.user == nil {
		return ports.StoredSession{}, nil
	}
	u := s.user.Clone()
	return ports.StoredSession{Token: s.token, User: &u}, nil
}

func (s *MemorySessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.token = ""
	s.user = nil
	return nil
}

// IsEmpty reports whether the store holds no session at all. Tests use
// it to assert that invalidation left no partial state behind.
func (s *MemorySessionStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token == "" && s.user == nil
}

// Stored returns the current store contents.
func (s *MemorySessionStore) Stored() ports.StoredSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ports.StoredSession{Token: s.token}
	}
	u := s.user.Clone()
	return ports.StoredSession{Token: s.token, User: &u}
}

// MockPortalAPI is a configurable PortalAPI double. Each method delegates
// to its Func field when set and otherwise returns a deterministic
// default built from the exported fields.
type MockPortalAPI struct {
	LoginFunc          func(ctx context.Context, creds ports.Credentials) (ports.AuthPayload, error)
	RegisterFunc       func(ctx context.Context, reg ports.Registration) (ports.AuthPayload, error)
	CurrentUserFunc    func(ctx context.Context, token string) (ports.RawUser, error)
	PatientProfileFunc func(ctx context.Context, token string) (domainsession.ProfileData, error)

	// Defaults used when the corresponding Func is nil.
	DefaultToken   string
	DefaultUser    ports.RawUser
	DefaultProfile domainsession.ProfileData

	mu                  sync.Mutex
	currentUserCalls    int
	patientProfileCalls int
}

// NewMockPortalAPI creates a MockPortalAPI with a plain patient default.
func NewMockPortalAPI() *MockPortalAPI {
	return &MockPortalAPI{
		DefaultToken: "mock-token",
		DefaultUser: ports.RawUser{
			ID:    "mock-user-1",
			Name:  "Mock Patient",
			Email: "mock.patient@example.com",
			Assignments: []domainsession.RoleAssignment{
				{RoleName: "PATIENT"},
			},
		},
	}
}

func (m *MockPortalAPI) Login(ctx context.Context, creds ports.Credentials) (ports.AuthPayload, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return ports.AuthPayload{Token: m.DefaultToken, User: m.DefaultUser}, nil
}

func (m *MockPortalAPI) Register(ctx context.Context, reg ports.Registration) (ports.AuthPayload, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	return ports.AuthPayload{Token: m.DefaultToken, User: m.DefaultUser}, nil
}

func (m *MockPortalAPI) CurrentUser(ctx context.Context, token string) (ports.RawUser, error) {
	m.mu.Lock()
	m.currentUserCalls++
	m.mu.Unlock()
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, token)
	}
	return m.DefaultUser, nil
}

func (m *MockPortalAPI) PatientProfile(ctx context.Context, token string) (domainsession.ProfileData, error) {
	m.mu.Lock()
	m.patientProfileCalls++
	m.mu.Unlock()
	if m.PatientProfileFunc != nil {
		return m.PatientProfileFunc(ctx, token)
	}
	return m.DefaultProfile, nil
}

// CurrentUserCalls reports how many times CurrentUser was invoked.
func (m *MockPortalAPI) CurrentUserCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentUserCalls
}

// PatientProfileCalls reports how many times PatientProfile was invoked.
func (m *MockPortalAPI) PatientProfileCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.patientProfileCalls
}
