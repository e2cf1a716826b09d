package pgstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	"github.com/vidaplena/portal-session/internal/testutil"
)

func patient() *domainsession.User {
	return &domainsession.User{
		ID:             "u1",
		Name:           "Ana Souza",
		Role:           domainsession.RolePatient,
		AssignedLineID: 5,
		Profile:        &domainsession.ProfileData{BloodType: "O+", Age: 35},
	}
}

func newTestStore(t *testing.T, clientID string) *Store {
	t.Helper()
	pool := testutil.SetupTestDB(t)
	store, err := NewStore(pool, clientID)
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t, "test-roundtrip")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", patient()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, loaded.IsUsable())
	assert.Equal(t, "tok-1", loaded.Token)
	assert.Equal(t, "u1", loaded.User.ID)
	require.NotNil(t, loaded.User.Profile)
	assert.Equal(t, "O+", loaded.User.Profile.BloodType)
}

func TestStore_SaveOverwritesPreviousSession(t *testing.T) {
	store := newTestStore(t, "test-overwrite")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-old", patient()))

	replacement := patient()
	replacement.ID = "u2"
	require.NoError(t, store.Save(ctx, "tok-new", replacement))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-new", loaded.Token)
	assert.Equal(t, "u2", loaded.User.ID)
}

func TestStore_LoadMissingRowIsEmpty(t *testing.T) {
	store := newTestStore(t, "test-missing")

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded.IsUsable())
}

func TestStore_SaveRejectsPartialSession(t *testing.T) {
	store := newTestStore(t, "test-partial")
	assert.Error(t, store.Save(context.Background(), "", patient()))
	assert.Error(t, store.Save(context.Background(), "tok", nil))
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := newTestStore(t, "test-clear")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", patient()))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.IsUsable())
}

func TestStore_SessionsIsolatedByClientID(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()

	a, err := NewStore(pool, "test-iso-a")
	require.NoError(t, err)
	b, err := NewStore(pool, "test-iso-b")
	require.NoError(t, err)

	require.NoError(t, a.Save(ctx, "tok-a", patient()))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.IsUsable())
}
