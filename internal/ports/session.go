package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
)

// StoredSession is what the durable store holds: the credential token and
// the last-known user snapshot. Presence of a token does not imply
// validity.
type StoredSession struct {
	Token string
	User  *domainsession.User
}

// IsUsable reports whether the stored state can seed an optimistic
// restore. Partial state (token without user, or the reverse) is treated
// as no usable session.
func (s StoredSession) IsUsable() bool {
	return s.Token != "" && s.User != nil
}

// SessionStore persists the session's three related fields (token, user
// snapshot, authenticated flag) durably and atomically: Save writes all
// of them together and Clear removes all of them together, so no reader
// can ever observe a token without a matching user snapshot.
//
// Load tolerates malformed or partial stored data by returning an
// unusable StoredSession rather than an error; the error return is
// reserved for infrastructure failures (store unreachable).
type SessionStore interface {
	Save(ctx context.Context, token string, user *domainsession.User) error
	Load(ctx context.Context) (StoredSession, error)
	Clear(ctx context.Context) error
}

// Credentials are the login request inputs.
type Credentials struct {
	Email    string
	Password string
}

// Registration groups the register request inputs.
type Registration struct {
	FullName     string
	CPF          string
	Email        string
	PasswordHash string
}

// RawUser is the server's view of a user before role resolution and
// profile enrichment. The adapter normalizes payload-shape differences
// into this struct; the service layer turns it into a domain User.
type RawUser struct {
	ID    string
	Name  string
	Email string
	CPF   string

	// Assignments is the raw role-assignment list; the service collapses
	// it to a single role.
	Assignments []domainsession.RoleAssignment

	// AssignedLineID is zero when the patient has not been triaged.
	AssignedLineID int64
	// CareLine is the display name of the assigned care line, if any.
	CareLine string

	// HasProfile reports whether the payload indicates a profile object
	// exists, letting callers skip a guaranteed not-found fetch.
	HasProfile bool
}

// AuthPayload is the result of a successful login or register call.
type AuthPayload struct {
	Token string
	User  RawUser
}

// PortalAPI is the portal's REST surface as consumed by the session core.
// All authenticated calls attach the bearer token. Errors are classified
// via internal/errors codes: unauthorized (401), not_found (404),
// validation/conflict (4xx with server message), unavailable (network,
// 502, other 5xx).
type PortalAPI interface {
	// Login exchanges credentials for a token and user payload.
	Login(ctx context.Context, creds Credentials) (AuthPayload, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, reg Registration) (AuthPayload, error)

	// CurrentUser fetches the authoritative user for the token.
	CurrentUser(ctx context.Context, token string) (RawUser, error)

	// PatientProfile fetches the caller's patient profile. A not_found
	// error means "no profile yet" and is a normal outcome.
	PatientProfile(ctx context.Context, token string) (domainsession.ProfileData, error)
}
