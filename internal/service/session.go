package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vidaplena/portal-session/internal/domain/routing"
	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	apperrors "github.com/vidaplena/portal-session/internal/errors"
	"github.com/vidaplena/portal-session/internal/ports"
)

// ValidationFailurePolicy names what happens to the cached session when
// background validation fails for reasons other than a rejected
// credential (network unreachable, 5xx).
type ValidationFailurePolicy string

const (
	// PolicyKeepOnFailure keeps the cached session as-is on transient
	// validation failures. Availability over completeness: a session may
	// outlive server-side revocation until the server answers 401.
	PolicyKeepOnFailure ValidationFailurePolicy = "keep"
	// PolicyInvalidateOnFailure clears the session on any validation
	// failure, trading availability during outages for strictness.
	PolicyInvalidateOnFailure ValidationFailurePolicy = "invalidate"
)

// Event is delivered to subscribers after every committed session change.
type Event struct {
	// Snapshot is a consistent copy of the session after the change.
	Snapshot domainsession.Session
	// ForcedPath is non-empty when the manager demands navigation
	// regardless of where the user currently is (credential revoked).
	ForcedPath string
}

// ManagerOptions groups dependencies for the session Manager.
type ManagerOptions struct {
	Store    ports.SessionStore
	API      ports.PortalAPI
	Enricher *ProfileEnricher
	Logger   *slog.Logger
	Policy   ValidationFailurePolicy
	Now      func() time.Time
}

// unauthorizedHookSetter is implemented by API clients that support a
// global 401 interceptor. The manager installs its invalidation logic
// when the client offers it.
type unauthorizedHookSetter interface {
	SetUnauthorizedHook(func())
}

// Manager owns the session lifecycle: bootstrap with optimistic restore,
// background validation, login, register, logout, and local patching.
// Consumers read it through Snapshot and Subscribe; they only ever see
// copies of the session, never the manager's own state.
type Manager struct {
	store    ports.SessionStore
	api      ports.PortalAPI
	enricher *ProfileEnricher
	logger   *slog.Logger
	policy   ValidationFailurePolicy
	now      func() time.Time

	mu   sync.RWMutex
	sess domainsession.Session

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int

	// validation collapses concurrent background confirmations into one
	// in-flight request.
	validation singleflight.Group
}

// NewManager constructs a session Manager.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	if opts.API == nil {
		return nil, errors.New("portal API client is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Policy == "" {
		opts.Policy = PolicyKeepOnFailure
	}
	if opts.Enricher == nil {
		opts.Enricher = NewProfileEnricher(opts.API, opts.Logger, opts.Now)
	}

	m := &Manager{
		store:    opts.Store,
		api:      opts.API,
		enricher: opts.Enricher,
		logger:   opts.Logger,
		policy:   opts.Policy,
		now:      opts.Now,
		sess:     domainsession.Session{Status: domainsession.StatusUnknown},
		subs:     make(map[int]func(Event)),
	}

	if setter, ok := opts.API.(unauthorizedHookSetter); ok {
		setter.SetUnauthorizedHook(m.InvalidateSession)
	}

	return m, nil
}

// Snapshot returns a consistent copy of the current session.
func (m *Manager) Snapshot() domainsession.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess.Clone()
}

// Subscribe registers a callback invoked after every committed session
// change. The returned function removes the subscription. Callbacks run
// on the mutating goroutine and must not call back into the Manager's
// mutating methods.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify(ev Event) {
	m.subMu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// commit applies a mutation to the session under lock, bumps the mutation
// sequence, and notifies subscribers with the resulting snapshot.
func (m *Manager) commit(forcedPath string, mutate func(*domainsession.Session)) domainsession.Session {
	m.mu.Lock()
	mutate(&m.sess)
	m.sess.Seq++
	snap := m.sess.Clone()
	m.mu.Unlock()

	m.notify(Event{Snapshot: snap, ForcedPath: forcedPath})
	return snap
}

// Bootstrap establishes the session at process start. A usable stored
// snapshot authenticates the session immediately (optimistic restore) and
// confirmation runs in the background; anything else resolves to
// unauthenticated with no network call. The returned snapshot reflects
// the pre-validation belief.
func (m *Manager) Bootstrap(ctx context.Context) domainsession.Session {
	m.commit("", func(s *domainsession.Session) {
		s.Status = domainsession.StatusRestoring
	})

	stored, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("session store unreadable, starting unauthenticated", "error", err)
		stored = ports.StoredSession{}
	}

	if !stored.IsUsable() {
		return m.commit("", func(s *domainsession.Session) {
			s.Token = ""
			s.User = nil
			s.Status = domainsession.StatusUnauthenticated
			s.Validating = false
		})
	}

	snap := m.commit("", func(s *domainsession.Session) {
		s.Token = stored.Token
		s.User = stored.User
		s.Status = domainsession.StatusAuthenticated
		s.Validating = true
	})

	go m.Validate(context.Background())

	return snap
}

// Validate confirms the current token with the server and reconciles the
// session with the authoritative answer. Concurrent calls share one
// request. Safe to call at any time; a session that was mutated while the
// request was in flight discards the result (last writer wins by mutation
// order, not completion order).
func (m *Manager) Validate(ctx context.Context) domainsession.Session {
	v, _, _ := m.validation.Do("validate", func() (interface{}, error) {
		return m.runValidation(ctx), nil
	})
	return v.(domainsession.Session)
}

func (m *Manager) runValidation(ctx context.Context) domainsession.Session {
	m.mu.Lock()
	if m.sess.Token == "" {
		m.sess.Status = domainsession.StatusUnauthenticated
		m.sess.Validating = false
		m.sess.Seq++
		snap := m.sess.Clone()
		m.mu.Unlock()
		m.notify(Event{Snapshot: snap})
		return snap
	}
	token := m.sess.Token
	if m.sess.User == nil {
		// Nothing cached to render from; validation is the whole story.
		m.sess.Status = domainsession.StatusValidating
	}
	m.sess.Validating = true
	m.sess.Seq++
	seq := m.sess.Seq
	entry := m.sess.Clone()
	m.mu.Unlock()
	m.notify(Event{Snapshot: entry})

	if exp, ok := TokenExpiry(token); ok && exp.Before(m.now()) {
		m.logger.Debug("stored token is past its expiry claim",
			"expires_at", exp)
	}

	raw, err := m.api.CurrentUser(ctx, token)
	if err != nil {
		return m.resolveValidationFailure(ctx, seq, err)
	}

	role := domainsession.ResolveRole(raw.Assignments)
	user := userFromRaw(raw, role)
	if raw.HasProfile {
		// Only fetch when the payload says a profile exists; otherwise the
		// call is a guaranteed not-found.
		if profile := m.enricher.Enrich(ctx, role, token); profile != nil {
			user.Profile = profile
		} else if entry.User != nil {
			user.Profile = entry.User.Profile
		}
	}

	m.mu.Lock()
	if m.sess.Seq != seq {
		snap := m.sess.Clone()
		m.mu.Unlock()
		m.logger.Debug("discarding stale validation result",
			"expected_seq", seq, "current_seq", snap.Seq)
		return snap
	}
	m.sess.User = user
	m.sess.Status = domainsession.StatusAuthenticated
	m.sess.Validating = false
	m.sess.Seq++
	snap := m.sess.Clone()
	m.mu.Unlock()
	m.notify(Event{Snapshot: snap})

	if saveErr := m.store.Save(ctx, token, user); saveErr != nil {
		m.logger.Warn("failed to re-persist validated session", "error", saveErr)
	}

	return snap
}

// resolveValidationFailure applies the failure taxonomy: a rejected
// credential clears everything; anything else follows the configured
// policy. The sequence guard applies here too so a failure from an old
// token never clobbers a newer login.
func (m *Manager) resolveValidationFailure(ctx context.Context, seq uint64, err error) domainsession.Session {
	m.mu.Lock()
	if m.sess.Seq != seq {
		snap := m.sess.Clone()
		m.mu.Unlock()
		m.logger.Debug("discarding stale validation failure",
			"expected_seq", seq, "current_seq", snap.Seq, "error", err)
		return snap
	}

	invalidate := apperrors.IsUnauthorized(err) ||
		(m.policy == PolicyInvalidateOnFailure && !apperrors.IsCanceled(err))

	if !invalidate {
		// Transient failure with the keep policy: the cached snapshot
		// stands untouched except for the in-flight marker.
		if m.sess.User == nil {
			m.sess.Status = domainsession.StatusUnauthenticated
		}
		m.sess.Validating = false
		m.sess.Seq++
		snap := m.sess.Clone()
		m.mu.Unlock()
		m.logger.Warn("session validation failed, keeping cached session", "error", err)
		m.notify(Event{Snapshot: snap})
		return snap
	}

	m.sess = domainsession.Session{
		Status: domainsession.StatusUnauthenticated,
		Seq:    m.sess.Seq + 1,
	}
	snap := m.sess.Clone()
	m.mu.Unlock()

	if apperrors.IsUnauthorized(err) {
		m.logger.Info("stored credential rejected, session cleared")
	} else {
		m.logger.Warn("session validation failed, invalidating per policy", "error", err)
	}
	if clearErr := m.store.Clear(ctx); clearErr != nil {
		m.logger.Warn("failed to clear session store", "error", clearErr)
	}
	m.notify(Event{Snapshot: snap, ForcedPath: routing.PathLogin})
	return snap
}

// Login exchanges credentials for a session. On success the session is
// persisted and authenticated, and the canonical landing path for the
// user is returned. On failure the session is untouched and the error
// carries the server-provided message.
func (m *Manager) Login(ctx context.Context, creds ports.Credentials) (domainsession.Session, string, error) {
	payload, err := m.api.Login(ctx, creds)
	if err != nil {
		return m.Snapshot(), "", err
	}

	role := domainsession.ResolveRole(payload.User.Assignments)
	user := userFromRaw(payload.User, role)
	if role != domainsession.RoleAdmin {
		user.Profile = m.enricher.Enrich(ctx, role, payload.Token)
	}

	if saveErr := m.store.Save(ctx, payload.Token, user); saveErr != nil {
		m.logger.Warn("failed to persist session after login", "error", saveErr)
	}

	snap := m.commit("", func(s *domainsession.Session) {
		s.Token = payload.Token
		s.User = user
		s.Status = domainsession.StatusAuthenticated
		s.Validating = false
	})

	return snap, routing.LandingPath(*user), nil
}

// Register creates an account and signs it in. On failure the session is
// untouched.
func (m *Manager) Register(ctx context.Context, reg ports.Registration) (domainsession.Session, error) {
	payload, err := m.api.Register(ctx, reg)
	if err != nil {
		return m.Snapshot(), err
	}

	role := domainsession.ResolveRole(payload.User.Assignments)
	user := userFromRaw(payload.User, role)

	if saveErr := m.store.Save(ctx, payload.Token, user); saveErr != nil {
		m.logger.Warn("failed to persist session after registration", "error", saveErr)
	}

	return m.commit("", func(s *domainsession.Session) {
		s.Token = payload.Token
		s.User = user
		s.Status = domainsession.StatusAuthenticated
		s.Validating = false
	}), nil
}

// Logout clears the session unconditionally. Idempotent: logging out of
// an empty session is a no-op with the same end state.
func (m *Manager) Logout(ctx context.Context) domainsession.Session {
	if clearErr := m.store.Clear(ctx); clearErr != nil {
		m.logger.Warn("failed to clear session store on logout", "error", clearErr)
	}

	return m.commit("", func(s *domainsession.Session) {
		s.Token = ""
		s.User = nil
		s.Status = domainsession.StatusUnauthenticated
		s.Validating = false
	})
}

// UserPatch is a partial update to the cached user snapshot. Nil fields
// are left as they are.
type UserPatch struct {
	Name           *string
	Email          *string
	CPF            *string
	AssignedLineID *int64
	CareLine       *string
	Profile        *domainsession.ProfileData
}

// PatchUser shallow-merges local knowledge into the user snapshot and
// re-persists it, without calling the server. Downstream forms use this
// to reflect a submission immediately (the form itself talks to the
// server).
func (m *Manager) PatchUser(ctx context.Context, patch UserPatch) (domainsession.Session, error) {
	m.mu.Lock()
	if m.sess.User == nil {
		m.mu.Unlock()
		return m.Snapshot(), apperrors.Unauthorized("no active session to patch")
	}

	user := m.sess.User.Clone()
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.CPF != nil {
		user.CPF = *patch.CPF
	}
	if patch.AssignedLineID != nil {
		user.AssignedLineID = *patch.AssignedLineID
	}
	if patch.CareLine != nil {
		user.CareLine = *patch.CareLine
	}
	if patch.Profile != nil {
		p := *patch.Profile
		user.Profile = &p
	}

	m.sess.User = &user
	token := m.sess.Token
	m.sess.Seq++
	snap := m.sess.Clone()
	m.mu.Unlock()
	m.notify(Event{Snapshot: snap})

	if token != "" {
		if saveErr := m.store.Save(ctx, token, &user); saveErr != nil {
			m.logger.Warn("failed to re-persist patched session", "error", saveErr)
		}
	}

	return snap, nil
}

// InvalidateSession is the global 401 handler: any authenticated call
// answered with 401 while a token is present means the credential was
// revoked. The session clears and subscribers are told to force
// navigation to login. Already-empty sessions are left alone so repeated
// 401s from parallel requests collapse to one invalidation.
func (m *Manager) InvalidateSession() {
	m.mu.Lock()
	if m.sess.Token == "" && m.sess.Status == domainsession.StatusUnauthenticated {
		m.mu.Unlock()
		return
	}
	m.sess = domainsession.Session{
		Status: domainsession.StatusUnauthenticated,
		Seq:    m.sess.Seq + 1,
	}
	snap := m.sess.Clone()
	m.mu.Unlock()

	m.logger.Info("credential rejected by the portal, session invalidated")

	// The hook fires inside a request path; keep it non-blocking.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Warn("failed to clear session store after 401", "error", err)
		}
	}()

	m.notify(Event{Snapshot: snap, ForcedPath: routing.PathLogin})
}

// PlanRedirect returns the canonical landing path for the current user,
// or login when no user is present.
func (m *Manager) PlanRedirect() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sess.User == nil {
		return routing.PathLogin
	}
	return routing.LandingPath(*m.sess.User)
}

func userFromRaw(raw ports.RawUser, role domainsession.Role) *domainsession.User {
	return &domainsession.User{
		ID:             raw.ID,
		Name:           raw.Name,
		Email:          raw.Email,
		CPF:            raw.CPF,
		Role:           role,
		AssignedLineID: raw.AssignedLineID,
		CareLine:       raw.CareLine,
	}
}
