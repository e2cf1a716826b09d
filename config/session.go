package config

import (
	"fmt"
	"strings"
)

// ValidationFailurePolicy names what happens to the cached session when
// background validation fails for a reason other than a rejected
// credential.
type ValidationFailurePolicy string

const (
	// PolicyKeep keeps the cached session on transient validation
	// failures. This matches the portal's historical behavior: a session
	// stays usable during outages and is only dropped on an explicit 401.
	PolicyKeep ValidationFailurePolicy = "keep"
	// PolicyInvalidate clears the session on any validation failure.
	PolicyInvalidate ValidationFailurePolicy = "invalidate"
)

// UnmarshalText implements encoding.TextUnmarshaler for ValidationFailurePolicy.
func (p *ValidationFailurePolicy) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "keep", "invalidate":
		*p = ValidationFailurePolicy(v)
		return nil
	default:
		return fmt.Errorf("invalid ValidationFailurePolicy: %q (valid options: keep, invalidate)", v)
	}
}

// SessionConfig groups session lifecycle policy configuration.
type SessionConfig struct {
	// ValidationFailurePolicy controls what a failed background
	// validation does to the cached session.
	ValidationFailurePolicy ValidationFailurePolicy `env:"VALIDATION_FAILURE_POLICY" envDefault:"keep"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.ValidationFailurePolicy == "" {
		c.ValidationFailurePolicy = PolicyKeep
	}
}
