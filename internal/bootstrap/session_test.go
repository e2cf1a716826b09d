package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidaplena/portal-session/config"
	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	"github.com/vidaplena/portal-session/internal/service"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.AppConfig{
		API: config.APIConfig{BaseURL: "http://localhost:3000"},
		Storage: config.StorageConfig{
			Backend:  config.BackendFile,
			ClientID: "test-client",
			FilePath: filepath.Join(t.TempDir(), "session.json"),
		},
		Session: config.SessionConfig{ValidationFailurePolicy: config.PolicyKeep},
	}
	cfg.Sanitize()
	return cfg
}

func TestBuildSession_FileBackend(t *testing.T) {
	runtime, err := BuildSession(testConfig(t), InitLogger(true))
	require.NoError(t, err)
	t.Cleanup(runtime.Close)

	require.NotNil(t, runtime.Manager)
	require.NotNil(t, runtime.Store)

	// A fresh file store has nothing to restore.
	snap := runtime.Manager.Bootstrap(context.Background())
	assert.Equal(t, domainsession.StatusUnauthenticated, snap.Status)
}

func TestBuildSession_RequiresBaseURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.BaseURL = ""

	_, err := BuildSession(cfg, InitLogger(true))
	require.Error(t, err)
}

func TestBuildSession_RejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "s3"

	_, err := BuildSession(cfg, InitLogger(true))
	require.Error(t, err)
}

func TestMapValidationPolicy(t *testing.T) {
	assert.Equal(t, service.PolicyKeepOnFailure, mapValidationPolicy(config.PolicyKeep))
	assert.Equal(t, service.PolicyInvalidateOnFailure, mapValidationPolicy(config.PolicyInvalidate))
	assert.Equal(t, service.PolicyKeepOnFailure, mapValidationPolicy(""))
}
