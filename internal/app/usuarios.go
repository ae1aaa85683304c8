// ABOUTME: User administration flows
// ABOUTME: Guards against deleting the current user or the default administrator

package app

import (
	"context"
	"strings"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
)

// ListUsuarios returns every user account
func (a *App) ListUsuarios(ctx context.Context) ([]client.Usuario, error) {
	if err := a.allow(permissions.ActionAdmin); err != nil {
		return nil, err
	}
	users, err := a.api.ListUsuarios(ctx)
	if err != nil {
		return nil, a.fail(err, MsgUsersLoadFail)
	}
	return users, nil
}

// CreateUsuario creates an active account whose display name is the username
func (a *App) CreateUsuario(ctx context.Context, username, password string, role permissions.Role) (*client.Usuario, error) {
	if err := a.allow(permissions.ActionAdmin); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" || role == "" {
		return nil, a.invalid(MsgAllFields)
	}
	if _, ok := permissions.Lookup(role); !ok {
		return nil, a.invalid(MsgInvalidRoleInput)
	}

	user, err := a.api.CreateUsuario(ctx, client.UsuarioInput{
		Username: username,
		Nome:     username,
		Password: password,
		Role:     string(role),
		IsActive: true,
	})
	if err != nil {
		return nil, a.fail(err, MsgUserCreateFail)
	}
	a.success(MsgUserCreated)
	return user, nil
}

// DeleteUsuario removes a user account
func (a *App) DeleteUsuario(ctx context.Context, id int) error {
	if err := a.allow(permissions.ActionAdmin); err != nil {
		return err
	}
	if snap := a.store.Snapshot(); snap.User != nil && snap.User.ID == id {
		return a.invalid(MsgDeleteSelf)
	}
	if id == DefaultAdminID {
		return a.invalid(MsgDeleteDefault)
	}
	if err := a.api.DeleteUsuario(ctx, id); err != nil {
		return a.fail(err, MsgUserDeleteFail)
	}
	a.success(MsgUserDeleted)
	return nil
}
