// ABOUTME: Detects whether the backend runs with authentication disabled
// ABOUTME: Reconciles the session with the detected mode using a synthetic admin identity

package authmode

import (
	"context"
	"log/slog"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/session"
)

// SentinelToken is the bearer token of the synthetic session
const SentinelToken = "dev-mode-token"

// SyntheticUser returns the identity installed when authentication is disabled
func SyntheticUser() *session.User {
	return &session.User{
		ID:          0,
		Username:    "dev-admin",
		DisplayName: "Administrador (modo teste)",
		Role:        permissions.RoleMaster,
	}
}

// HealthChecker is the gateway call the detector depends on
type HealthChecker interface {
	Health(ctx context.Context) (*client.HealthResponse, error)
}

// Store is the session surface the detector writes to
type Store interface {
	Snapshot() session.Session
	AuthDisabled() bool
	SetAuthDisabled(disabled bool)
	SetSynthetic(token string, user *session.User)
	Clear()
}

// Detector probes the backend health endpoint for its auth mode
type Detector struct {
	health HealthChecker
	store  Store
	logger *slog.Logger
}

// New creates a detector. A nil logger uses slog.Default().
func New(health HealthChecker, store Store, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{health: health, store: store, logger: logger}
}

// Detect asks the backend for its auth mode and reconciles the session.
// A failed probe leaves both the mode and the session untouched; it is
// logged and never returned.
func (d *Detector) Detect(ctx context.Context) {
	resp, err := d.health.Health(ctx)
	if err != nil {
		d.logger.Warn("Could not detect authentication mode", "error", err)
		return
	}
	disabled := resp != nil && resp.AuthDisabled != nil && *resp.AuthDisabled
	d.store.SetAuthDisabled(disabled)
	d.logger.Debug("Authentication mode detected", "auth_disabled", disabled)
	d.Reconcile()
}

// Reconcile aligns the session with the current auth mode. It is idempotent.
func (d *Detector) Reconcile() {
	if d.store.AuthDisabled() {
		d.store.SetSynthetic(SentinelToken, SyntheticUser())
		return
	}
	if d.store.Snapshot().Origin == session.OriginSynthetic {
		d.logger.Info("Authentication enabled, discarding test-mode session")
		d.store.Clear()
	}
}
