package routing

import (
	"strings"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
)

// Requirements are a route's declared access requirements.
type Requirements struct {
	RequireAdmin          bool
	RequirePatientProfile bool
	RequireAssignedLine   bool
}

// View is the read-only slice of session state the gate decides on.
// It is derived from one consistent session snapshot.
type View struct {
	Authenticated  bool
	HasStoredToken bool
	Loading        bool

	Role            domainsession.Role
	HasProfile      bool
	ProfileComplete bool
	HasAssignedLine bool
}

// NewView projects a session snapshot into the gate's input shape.
func NewView(sess domainsession.Session) View {
	v := View{
		Authenticated:  sess.IsAuthenticated(),
		HasStoredToken: sess.HasToken(),
		Loading:        sess.Status.IsLoading(),
	}
	if sess.User != nil {
		v.Role = sess.User.Role
		v.HasProfile = sess.User.Profile != nil
		v.ProfileComplete = sess.User.HasCompleteProfile()
		v.HasAssignedLine = sess.User.HasAssignedLine()
	}
	return v
}

// Outcome is what the gate tells the shell to do for a navigation.
type Outcome int

const (
	// Render means the route's content may be shown.
	Render Outcome = iota
	// Redirect means navigation must continue to Decision.Target.
	Redirect
	// ShowLoading means a placeholder renders while the session settles.
	ShowLoading
)

// Placeholder selects which loading placeholder to render.
type Placeholder int

const (
	PlaceholderNone Placeholder = iota
	// PlaceholderGeneric is the plain loading indicator.
	PlaceholderGeneric
	// PlaceholderVerifying tells the user their session is being confirmed.
	PlaceholderVerifying
)

// Decision is the gate's verdict for one navigation.
type Decision struct {
	Outcome     Outcome
	Target      string
	Placeholder Placeholder
}

func render() Decision      { return Decision{Outcome: Render} }
func redirect(p string) Decision { return Decision{Outcome: Redirect, Target: p} }
func loading(p Placeholder) Decision {
	return Decision{Outcome: ShowLoading, Placeholder: p}
}

// Decide evaluates a route's requirements against the current view.
// Checks run in fixed order and the first match wins. The gate never
// redirects while the session is still loading.
func Decide(view View, req Requirements) Decision {
	// 1. Session still settling: hold with a placeholder.
	if view.Loading {
		if view.HasStoredToken {
			return loading(PlaceholderVerifying)
		}
		return loading(PlaceholderGeneric)
	}

	// 2. No session and nothing stored to recover one from.
	if !view.Authenticated && !view.HasStoredToken {
		return redirect(PathLogin)
	}

	// 3. Token stored but not yet confirmed: tolerate the window between
	// optimistic restore and validation instead of bouncing to login.
	if !view.Authenticated && view.HasStoredToken {
		return loading(PlaceholderVerifying)
	}

	// 4. Admin-only routes reject authenticated non-admins to home.
	if req.RequireAdmin && view.Authenticated && view.Role != domainsession.RoleAdmin {
		return redirect(PathHome)
	}

	// 5. Admin-only routes send anonymous visitors to login.
	if req.RequireAdmin && !view.Authenticated && !view.HasStoredToken {
		return redirect(PathLogin)
	}

	// 6. Profile-gated routes send profileless non-admins to check-in.
	if req.RequirePatientProfile && !view.HasProfile && view.Role != domainsession.RoleAdmin {
		return redirect(PathCheckIn)
	}

	// 7. Line-gated routes: admins bypass entirely; untriaged or
	// profileless users go to check-in; triaged users with incomplete
	// data go to profile completion.
	if req.RequireAssignedLine && view.Role != domainsession.RoleAdmin {
		if !view.HasProfile || !view.HasAssignedLine {
			return redirect(PathCheckIn)
		}
		if !view.ProfileComplete {
			return redirect(PathCompleteProfile)
		}
	}

	// 8. Nothing objected.
	return render()
}

// CorrectNavigation is the proactive pass layered on top of Decide,
// evaluated on route entry. It pushes triaged non-admins away from the
// check-in page toward their landing path, and untriaged non-admins out
// of line-gated sections back to check-in. It returns the corrected
// target and true when a correction applies.
func CorrectNavigation(path string, view View, user *domainsession.User) (string, bool) {
	if !view.Authenticated || view.Role == domainsession.RoleAdmin || user == nil {
		return "", false
	}

	if isCheckInPath(path) && view.HasAssignedLine {
		return LandingPath(*user), true
	}

	if isLineGatedPath(path) && !view.HasAssignedLine {
		return PathCheckIn, true
	}

	return "", false
}

func isCheckInPath(path string) bool {
	return path == PathCheckIn || strings.HasPrefix(path, PathCheckIn+"/")
}

func isLineGatedPath(path string) bool {
	for _, p := range lineGatedPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
