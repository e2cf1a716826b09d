package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	apperrors "github.com/vidaplena/portal-session/internal/errors"
	mocks "github.com/vidaplena/portal-session/internal/mocks/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newEnricher(api *mocks.MockPortalAPI) *ProfileEnricher {
	return NewProfileEnricher(api, testLogger(), fixedNow)
}

func TestEnrich_SkipsRolesWithoutProfiles(t *testing.T) {
	api := mocks.NewMockPortalAPI()
	enricher := newEnricher(api)

	for _, role := range []domainsession.Role{
		domainsession.RoleAdmin,
		domainsession.RoleClinicOwner,
		domainsession.RoleClinicStaff,
	} {
		profile := enricher.Enrich(context.Background(), role, "tok")
		assert.Nil(t, profile, "role %s must not be enriched", role)
	}
	assert.Equal(t, 0, api.PatientProfileCalls())
}

func TestEnrich_ProfileNotFoundMeansNoProfile(t *testing.T) {
	api := mocks.NewMockPortalAPI()
	api.PatientProfileFunc = func(context.Context, string) (domainsession.ProfileData, error) {
		return domainsession.ProfileData{}, apperrors.NotFound("profile not found")
	}
	enricher := newEnricher(api)

	profile := enricher.Enrich(context.Background(), domainsession.RolePatient, "tok")
	assert.Nil(t, profile)
}

func TestEnrich_OtherFailuresAreSwallowed(t *testing.T) {
	api := mocks.NewMockPortalAPI()
	api.PatientProfileFunc = func(context.Context, string) (domainsession.ProfileData, error) {
		return domainsession.ProfileData{}, apperrors.Unavailable("portal error (502)")
	}
	enricher := newEnricher(api)

	profile := enricher.Enrich(context.Background(), domainsession.RolePatient, "tok")
	assert.Nil(t, profile)
}

func TestEnrich_DerivesAgeFromDateOfBirth(t *testing.T) {
	api := mocks.NewMockPortalAPI()
	api.DefaultProfile = domainsession.ProfileData{
		DateOfBirth: "1990-03-15",
		BloodType:   "O+",
		Height:      "172",
		Weight:      "68",
	}
	enricher := newEnricher(api)

	profile := enricher.Enrich(context.Background(), domainsession.RolePatient, "tok")
	require.NotNil(t, profile)
	assert.Equal(t, 35, profile.Age)
	assert.Equal(t, "O+", profile.BloodType)
}

func TestEnrich_AcceptsTimestampedDateOfBirth(t *testing.T) {
	api := mocks.NewMockPortalAPI()
	api.DefaultProfile = domainsession.ProfileData{DateOfBirth: "1990-12-31T23:00:00Z"}
	enricher := newEnricher(api)

	profile := enricher.Enrich(context.Background(), domainsession.RolePatient, "tok")
	require.NotNil(t, profile)
	// Calendar-naive: year difference only, birthdays not considered.
	assert.Equal(t, 35, profile.Age)
}

func TestDeriveAge(t *testing.T) {
	now := fixedNow()

	assert.Equal(t, 0, deriveAge("", now))
	assert.Equal(t, 0, deriveAge("not-a-date", now))
	assert.Equal(t, 0, deriveAge("2030-01-01", now))
	assert.Equal(t, 25, deriveAge("2000-07-20", now))
}
