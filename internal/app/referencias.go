// ABOUTME: Administration of clients, secretariats, and piece types
// ABOUTME: Checks duplicates against the cache and reloads it after each change

package app

import (
	"context"
	"slices"
	"strings"

	"github.com/markalston/gestao-pecas/internal/permissions"
)

// reload refreshes the reference cache after a change. Failures are reported
// but do not undo the change.
func (a *App) reload(ctx context.Context) {
	if err := a.refs.Load(ctx); err != nil {
		a.logger.Warn("Failed to reload reference data", "error", err)
	}
}

// AddCliente registers a client
func (a *App) AddCliente(ctx context.Context, nome string) error {
	if err := a.allow(permissions.ActionConfig); err != nil {
		return err
	}
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return a.invalid(MsgClienteName)
	}
	if a.refs.HasCliente(nome) {
		return a.invalid(MsgClienteExists)
	}
	if _, err := a.api.CreateCliente(ctx, nome); err != nil {
		return a.fail(err, MsgClienteAddFail)
	}
	a.reload(ctx)
	a.success(MsgClienteAdded)
	return nil
}

// DeleteCliente removes a client by name
func (a *App) DeleteCliente(ctx context.Context, nome string) error {
	if err := a.allow(permissions.ActionConfig); err != nil {
		return err
	}
	id, err := a.refs.ClienteID(nome)
	if err != nil {
		return a.invalid(MsgClienteUnknown)
	}
	if err := a.api.DeleteCliente(ctx, id); err != nil {
		return a.fail(err, MsgClienteDeleteFail)
	}
	a.reload(ctx)
	a.success(MsgClienteDeleted)
	return nil
}

// AddSecretaria registers a secretariat under a client
func (a *App) AddSecretaria(ctx context.Context, cliente, nome string) error {
	if err := a.allow(permissions.ActionConfig); err != nil {
		return err
	}
	nome = strings.TrimSpace(nome)
	if cliente == "" {
		return a.invalid(MsgSelectCliente)
	}
	if nome == "" {
		return a.invalid(MsgSecretariaName)
	}
	if slices.Contains(a.refs.Secretarias(cliente), nome) {
		return a.invalid(MsgSecretariaExists)
	}
	clienteID, err := a.refs.ClienteID(cliente)
	if err != nil {
		return a.invalid(MsgClienteInvalid)
	}
	if _, err := a.api.CreateSecretaria(ctx, clienteID, nome); err != nil {
		return a.fail(err, MsgSecretariaAddFail)
	}
	a.reload(ctx)
	a.success(MsgSecretariaAdded)
	return nil
}

// DeleteSecretaria removes a secretariat of a client
func (a *App) DeleteSecretaria(ctx context.Context, cliente, nome string) error {
	if err := a.allow(permissions.ActionConfig); err != nil {
		return err
	}
	id, err := a.refs.SecretariaID(cliente, nome)
	if err != nil {
		return a.invalid(MsgSecretariaUnknown)
	}
	if err := a.api.DeleteSecretaria(ctx, id); err != nil {
		return a.fail(err, MsgSecretariaDeleteFail)
	}
	a.reload(ctx)
	a.success(MsgSecretariaDeleted)
	return nil
}

// AddTipoPeca registers a piece type
func (a *App) AddTipoPeca(ctx context.Context, nome string) error {
	if err := a.allow(permissions.ActionConfig); err != nil {
		return err
	}
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return a.invalid(MsgTipoName)
	}
	if a.refs.HasTipoPeca(nome) {
		return a.invalid(MsgTipoExists)
	}
	if _, err := a.api.CreateTipoPeca(ctx, nome); err != nil {
		return a.fail(err, MsgTipoAddFail)
	}
	a.reload(ctx)
	a.success(MsgTipoAdded)
	return nil
}

// DeleteTipoPeca removes a piece type by name
func (a *App) DeleteTipoPeca(ctx context.Context, nome string) error {
	if err := a.allow(permissions.ActionConfig); err != nil {
		return err
	}
	id, err := a.refs.TipoPecaID(nome)
	if err != nil {
		return a.invalid(MsgTipoInvalid)
	}
	if err := a.api.DeleteTipoPeca(ctx, id); err != nil {
		return a.fail(err, MsgTipoDeleteFail)
	}
	a.reload(ctx)
	a.success(MsgTipoDeleted)
	return nil
}

// LoadRefs reloads the reference cache, reporting failures
func (a *App) LoadRefs(ctx context.Context) error {
	if err := a.refs.Load(ctx); err != nil {
		return a.fail(err, MsgBootFailed)
	}
	return nil
}
