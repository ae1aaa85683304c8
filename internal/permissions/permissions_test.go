// ABOUTME: Tests for the role capability table and permission checks
// ABOUTME: Walks every role/action pair and the unauthenticated and unknown-role paths

package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	role Role
	ok   bool
}

func (f fakeIdentity) CurrentRole() (Role, bool) { return f.role, f.ok }

type recordingNotifier struct {
	toasts []string
	logins int
}

func (r *recordingNotifier) Toast(_ ToastLevel, message string) { r.toasts = append(r.toasts, message) }
func (r *recordingNotifier) OpenLogin()                          { r.logins++ }

var allActions = []Action{ActionInsert, ActionEdit, ActionDelete, ActionReport, ActionConfig, ActionAdmin}

func TestRoleTable(t *testing.T) {
	expected := map[Role]map[Action]bool{
		RoleMaster: {
			ActionInsert: true, ActionEdit: true, ActionDelete: true,
			ActionReport: true, ActionConfig: true, ActionAdmin: true,
		},
		RoleSocialMedia: {
			ActionInsert: true, ActionEdit: true,
		},
		RoleFinanceiro: {
			ActionEdit: true, ActionReport: true,
		},
	}

	for role, actions := range expected {
		for _, a := range allActions {
			t.Run(string(role)+"/"+a.String(), func(t *testing.T) {
				n := &recordingNotifier{}
				c := NewChecker(fakeIdentity{role: role, ok: true}, n)

				got := c.Check(a)
				assert.Equal(t, actions[a], got)
				if got {
					assert.Empty(t, n.toasts)
				} else {
					require.Len(t, n.toasts, 1)
					assert.Equal(t, DenialMessage(a), n.toasts[0])
					assert.Zero(t, n.logins)
				}
			})
		}
	}
}

func TestCheckUnauthenticatedOpensLogin(t *testing.T) {
	n := &recordingNotifier{}
	c := NewChecker(fakeIdentity{}, n)

	assert.False(t, c.Check(ActionReport))
	assert.Equal(t, []string{MsgLoginRequired}, n.toasts)
	assert.Equal(t, 1, n.logins)
}

func TestCheckUnknownRoleIsDenied(t *testing.T) {
	n := &recordingNotifier{}
	c := NewChecker(fakeIdentity{role: "estagiario", ok: true}, n)

	for _, a := range allActions {
		assert.False(t, c.Check(a))
	}
	require.Len(t, n.toasts, len(allActions))
	assert.Equal(t, MsgInvalidRole, n.toasts[0])
	assert.Zero(t, n.logins)
}

func TestDecideHasNoSideEffects(t *testing.T) {
	d := Decide(RoleSocialMedia, true, ActionConfig)
	assert.False(t, d.Allowed)
	assert.Equal(t, IntentToast, d.Intent)
	assert.Equal(t, "Você não tem permissão para alterar as configurações!", d.Message)

	d = Decide("", false, ActionInsert)
	assert.Equal(t, IntentLogin, d.Intent)
}

func TestActionOutsideEnumIsNeverAllowed(t *testing.T) {
	perm, ok := Lookup(RoleMaster)
	require.True(t, ok)
	assert.False(t, perm.Allows(Action(42)))
	assert.Equal(t, "unknown", Action(42).String())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Financeiro", Label(RoleFinanceiro))
	assert.Equal(t, "visitante", Label("visitante"))
	assert.Len(t, Roles(), 3)
}
