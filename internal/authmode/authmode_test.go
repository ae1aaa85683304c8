// ABOUTME: Tests for auth mode detection and session reconciliation
// ABOUTME: Covers disabled/enabled transitions, probe failures, and idempotence

package authmode

import (
	"context"
	"errors"
	"testing"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct {
	resp *client.HealthResponse
	err  error
}

func (s stubHealth) Health(context.Context) (*client.HealthResponse, error) {
	return s.resp, s.err
}

func healthy(disabled *bool) stubHealth {
	return stubHealth{resp: &client.HealthResponse{Status: "ok", AuthDisabled: disabled}}
}

func ptr(b bool) *bool { return &b }

func realUser() *session.User {
	return &session.User{ID: 5, Username: "ana", DisplayName: "Ana", Role: permissions.RoleSocialMedia}
}

func TestDetectDisabledInstallsSyntheticSession(t *testing.T) {
	store := session.NewStore(nil, nil)
	store.Set("tok1", realUser())

	New(healthy(ptr(true)), store, nil).Detect(context.Background())

	snap := store.Snapshot()
	assert.True(t, store.AuthDisabled())
	require.True(t, snap.Authenticated())
	assert.Equal(t, SentinelToken, snap.Token)
	assert.Equal(t, session.OriginSynthetic, snap.Origin)
	assert.Equal(t, 0, snap.User.ID)
	assert.Equal(t, "dev-admin", snap.User.Username)
	assert.Equal(t, "Administrador (modo teste)", snap.User.DisplayName)
	assert.Equal(t, permissions.RoleMaster, snap.User.Role)
}

func TestDetectEnabledClearsSyntheticSession(t *testing.T) {
	store := session.NewStore(nil, nil)
	store.SetAuthDisabled(true)
	store.SetSynthetic(SentinelToken, SyntheticUser())

	New(healthy(ptr(false)), store, nil).Detect(context.Background())

	assert.False(t, store.AuthDisabled())
	assert.False(t, store.Snapshot().Authenticated())
}

func TestDetectEnabledKeepsRealSession(t *testing.T) {
	store := session.NewStore(nil, nil)
	store.Set("tok1", realUser())

	New(healthy(nil), store, nil).Detect(context.Background())

	snap := store.Snapshot()
	assert.False(t, store.AuthDisabled())
	assert.Equal(t, "tok1", snap.Token)
	assert.Equal(t, session.OriginReal, snap.Origin)
}

func TestDetectRealSessionWithSentinelLikeTokenIsKept(t *testing.T) {
	store := session.NewStore(nil, nil)
	store.Set(SentinelToken, realUser())

	New(healthy(ptr(false)), store, nil).Detect(context.Background())

	assert.True(t, store.Snapshot().Authenticated())
}

func TestDetectFailureKeepsPreviousMode(t *testing.T) {
	store := session.NewStore(nil, nil)
	store.SetAuthDisabled(true)
	store.SetSynthetic(SentinelToken, SyntheticUser())

	New(stubHealth{err: errors.New("boom")}, store, nil).Detect(context.Background())

	assert.True(t, store.AuthDisabled())
	assert.Equal(t, session.OriginSynthetic, store.Snapshot().Origin)
}

func TestDetectFailureKeepsPersistedTestModeSession(t *testing.T) {
	kv := session.NewMemoryKV()
	seed := session.NewStore(kv, nil)
	seed.SetSynthetic(SentinelToken, SyntheticUser())
	require.NotZero(t, kv.Len())

	store := session.NewStore(kv, nil)
	store.Load()
	New(stubHealth{err: errors.New("connection refused")}, store, nil).Detect(context.Background())

	snap := store.Snapshot()
	assert.True(t, snap.Authenticated())
	assert.Equal(t, session.OriginSynthetic, snap.Origin)
	assert.NotZero(t, kv.Len())
}

func TestDetectFailureWithoutSessionStaysLoggedOut(t *testing.T) {
	store := session.NewStore(nil, nil)

	New(stubHealth{err: errors.New("boom")}, store, nil).Detect(context.Background())

	assert.False(t, store.AuthDisabled())
	assert.False(t, store.Snapshot().Authenticated())
}

func TestReconcileIsIdempotent(t *testing.T) {
	for _, disabled := range []bool{true, false} {
		store := session.NewStore(nil, nil)
		store.SetAuthDisabled(disabled)
		d := New(healthy(ptr(disabled)), store, nil)

		d.Reconcile()
		first := store.Snapshot()
		d.Reconcile()
		second := store.Snapshot()

		assert.Equal(t, first, second, "disabled=%v", disabled)
	}
}

func TestLegacySentinelSessionIsClearedWhenAuthEnabled(t *testing.T) {
	kv := session.NewMemoryKV()
	require.NoError(t, kv.Apply(map[string]string{
		session.KeyToken: SentinelToken,
		session.KeyUser:  `{"id":0,"username":"dev-admin","nome":"Administrador (modo teste)","role":"master"}`,
	}, nil))
	store := session.NewStore(kv, nil)
	store.Load()

	New(healthy(ptr(false)), store, nil).Detect(context.Background())

	assert.False(t, store.Snapshot().Authenticated())
	assert.Zero(t, kv.Len())
}
