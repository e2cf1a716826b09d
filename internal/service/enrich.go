package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	apperrors "github.com/vidaplena/portal-session/internal/errors"
	"github.com/vidaplena/portal-session/internal/ports"
)

// ProfileEnricher derives the patient profile summary for a session user.
// It never fails the caller: a missing profile is a normal outcome and any
// other fetch failure is swallowed, so session loads stay available even
// when the profile endpoint is down.
type ProfileEnricher struct {
	api    ports.PortalAPI
	logger *slog.Logger
	now    func() time.Time
}

// NewProfileEnricher constructs a ProfileEnricher.
func NewProfileEnricher(api ports.PortalAPI, logger *slog.Logger, now func() time.Time) *ProfileEnricher {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &ProfileEnricher{api: api, logger: logger, now: now}
}

// Enrich fetches and derives the profile for the given role and token.
// Roles that cannot own a patient profile return nil without a fetch.
// A not-found profile returns nil (profile not created yet); any other
// failure is logged and also returns nil.
func (e *ProfileEnricher) Enrich(ctx context.Context, role domainsession.Role, token string) *domainsession.ProfileData {
	if !role.CanOwnProfile() {
		return nil
	}

	profile, err := e.api.PatientProfile(ctx, token)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		e.logger.Warn("profile fetch failed, continuing without enrichment",
			"error", err)
		return nil
	}

	profile.Age = deriveAge(profile.DateOfBirth, e.now())
	return &profile
}

// deriveAge computes age as current year minus birth year. Calendar-naive
// on purpose: the portal has always reported age this way and downstream
// displays depend on it.
func deriveAge(dateOfBirth string, now time.Time) int {
	raw := strings.TrimSpace(dateOfBirth)
	if raw == "" {
		return 0
	}

	born, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		born, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return 0
		}
	}

	age := now.Year() - born.Year()
	if age < 0 {
		return 0
	}
	return age
}
