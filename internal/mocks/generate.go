// Package mocks provides mock implementations for testing the session core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the session ports. The mocks are generated using go:generate directives and
// provide a fluent API for setting up test expectations. Hand-written doubles
// for the same ports live in internal/mocks/session for tests that prefer
// plain fakes over codegen.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockStore := mocks.NewMockSessionStore(ctrl)
//	mockStore.EXPECT().Load(gomock.Any()).Return(ports.StoredSession{}, nil)
package mocks

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods for all SessionStore interface methods:
// Save, Load, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/vidaplena/portal-session/internal/ports SessionStore

// Generate mock for PortalAPI interface from internal/ports package.
// This creates MockPortalAPI with methods for all PortalAPI interface methods:
// Login, Register, CurrentUser, PatientProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=portal_api_mock.go github.com/vidaplena/portal-session/internal/ports PortalAPI
