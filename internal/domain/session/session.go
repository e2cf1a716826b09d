package session

// Session is the client-held belief about the current user. It is the unit
// of truth owned by the session manager; consumers only ever see copies.
//
// Invariants maintained by the manager:
//   - Status == StatusAuthenticated implies User != nil.
//   - Token == "" implies Status != StatusAuthenticated.
//   - A present token does not imply validity; until confirmed it implies
//     at most StatusRestoring/StatusValidating.
type Session struct {
	Token  string
	User   *User
	Status Status

	// Seq is the mutation sequence. Every committed change to the session
	// increments it; background work captures it before suspending and
	// discards its result if the sequence moved (last writer wins by
	// mutation order, not request completion order).
	Seq uint64

	// Validating marks an in-flight background confirmation of an
	// optimistically restored session. Rendering proceeds regardless.
	Validating bool
}

// IsAuthenticated reports whether the client currently believes the user
// is signed in. An optimistically restored session counts until the
// server says otherwise.
func (s Session) IsAuthenticated() bool { return s.Status == StatusAuthenticated }

// HasToken reports whether a credential is present, valid or not.
func (s Session) HasToken() bool { return s.Token != "" }

// Clone returns a deep copy safe to hand outside the manager.
func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := s.User.Clone()
		out.User = &u
	}
	return out
}
